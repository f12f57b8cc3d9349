package repositories

import (
	"context"
	"strings"
	"time"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain/models"
)

// ReportRepository holds the read-only aggregate queries.
type ReportRepository struct {
	DB intdb.DBTX
}

func (r ReportRepository) db() intdb.DBTX { return pick(r.DB) }

// overlapPredicate counts an existing stay against the query range
// [?, ?) only when the two share a night.
const overlapPredicate = `d.check_in_date < ? AND d.check_out_date > ?`

const activeBookingStatuses = `('pending', 'confirmed')`

// RevenueByMonth groups confirmed/completed revenue by month and booking
// type for one calendar year.
func (r ReportRepository) RevenueByMonth(ctx context.Context, year int) ([]models.MonthlyRevenue, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT DATE_FORMAT(b.created_at, '%Y-%m-01') AS month,
		       b.booking_type,
		       COUNT(*) AS booking_count,
		       COALESCE(SUM(b.total_amount), 0) AS revenue
		FROM bookings b
		WHERE b.status IN ('confirmed', 'completed')
		  AND YEAR(b.created_at) = ?
		GROUP BY month, b.booking_type
		ORDER BY month, b.booking_type`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MonthlyRevenue{}
	for rows.Next() {
		var (
			m     models.MonthlyRevenue
			month string
		)
		if err := rows.Scan(&month, &m.BookingType, &m.BookingCount, &m.Revenue); err != nil {
			return nil, err
		}
		if t, err := time.Parse("2006-01-02", month); err == nil {
			m.Month = t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r ReportRepository) TopHotels(ctx context.Context, limit int) ([]models.HotelRevenue, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT h.id, h.name, h.city,
		       COUNT(b.id) AS booking_count,
		       COALESCE(SUM(b.total_amount), 0) AS revenue
		FROM hotels h
		JOIN hotel_booking_details d ON d.hotel_id = h.id
		JOIN bookings b ON b.id = d.booking_id
		WHERE b.status IN ('confirmed', 'completed')
		GROUP BY h.id, h.name, h.city
		ORDER BY revenue DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.HotelRevenue{}
	for rows.Next() {
		var h models.HotelRevenue
		if err := rows.Scan(&h.HotelID, &h.Name, &h.City, &h.BookingCount, &h.Revenue); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r ReportRepository) CustomerAnalytics(ctx context.Context, limit int) ([]models.CustomerAnalytics, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT u.id, u.username, u.email,
		       COUNT(b.id) AS booking_count,
		       COALESCE(SUM(b.total_amount), 0) AS total_spent,
		       CAST(COALESCE(ROUND(AVG(b.total_amount)), 0) AS SIGNED) AS avg_booking_value
		FROM users u
		LEFT JOIN bookings b ON b.user_id = u.id
		WHERE u.role = 'customer'
		GROUP BY u.id, u.username, u.email
		ORDER BY total_spent DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CustomerAnalytics{}
	for rows.Next() {
		var c models.CustomerAnalytics
		if err := rows.Scan(&c.UserID, &c.Username, &c.Email, &c.BookingCount, &c.TotalSpent, &c.AverageAmount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// BookedRooms sums rooms held by pending/confirmed bookings of a room type
// whose stay overlaps [checkIn, checkOut).
func (r ReportRepository) BookedRooms(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx, `
		SELECT COALESCE(SUM(d.number_of_rooms), 0)
		FROM hotel_booking_details d
		JOIN bookings b ON b.id = d.booking_id
		WHERE d.room_type_id = ?
		  AND b.status IN `+activeBookingStatuses+`
		  AND `+overlapPredicate,
		roomTypeID, checkOut.Format("2006-01-02"), checkIn.Format("2006-01-02"),
	).Scan(&n)
	return n, err
}

// AvailableRooms lists the active room types of a hotel with
// rooms_available minus overlapping booked rooms, keeping only those with
// positive availability.
func (r ReportRepository) AvailableRooms(ctx context.Context, hotelID int64, checkIn, checkOut time.Time) ([]models.RoomAvailability, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT rt.id, rt.name, rt.price_per_night, rt.max_occupancy, rt.rooms_available,
		       COALESCE(SUM(CASE WHEN b.id IS NOT NULL THEN d.number_of_rooms ELSE 0 END), 0) AS booked
		FROM room_types rt
		LEFT JOIN hotel_booking_details d
		       ON d.room_type_id = rt.id AND `+overlapPredicate+`
		LEFT JOIN bookings b
		       ON b.id = d.booking_id AND b.status IN `+activeBookingStatuses+`
		WHERE rt.hotel_id = ? AND rt.is_active = 1
		GROUP BY rt.id, rt.name, rt.price_per_night, rt.max_occupancy, rt.rooms_available
		HAVING rt.rooms_available - booked > 0
		ORDER BY rt.price_per_night`,
		checkOut.Format("2006-01-02"), checkIn.Format("2006-01-02"), hotelID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RoomAvailability{}
	for rows.Next() {
		var a models.RoomAvailability
		if err := rows.Scan(&a.RoomTypeID, &a.Name, &a.PricePerNight, &a.MaxOccupancy, &a.RoomsAvailable, &a.BookedRooms); err != nil {
			return nil, err
		}
		a.TrueAvailable = a.RoomsAvailable - a.BookedRooms
		out = append(out, a)
	}
	return out, rows.Err()
}

// HotelSearch filters active hotels by city and nightly price range. Zero
// prices mean no bound.
type HotelSearch struct {
	City     string
	MinPrice int64
	MaxPrice int64
}

func (r ReportRepository) SearchHotels(ctx context.Context, s HotelSearch) ([]models.HotelSearchResult, error) {
	where := []string{"h.is_active = 1", "rt.is_active = 1"}
	args := []any{}
	if c := strings.TrimSpace(s.City); c != "" {
		where = append(where, "h.city LIKE ?")
		args = append(args, "%"+c+"%")
	}
	if s.MinPrice > 0 {
		where = append(where, "rt.price_per_night >= ?")
		args = append(args, s.MinPrice)
	}
	if s.MaxPrice > 0 {
		where = append(where, "rt.price_per_night <= ?")
		args = append(args, s.MaxPrice)
	}

	rows, err := r.db().QueryContext(ctx, `
		SELECT h.id, h.name, h.city, h.star_rating,
		       MIN(rt.price_per_night) AS min_price,
		       MAX(rt.price_per_night) AS max_price,
		       COUNT(rt.id) AS room_type_count
		FROM hotels h
		JOIN room_types rt ON rt.hotel_id = h.id
		WHERE `+strings.Join(where, " AND ")+`
		GROUP BY h.id, h.name, h.city, h.star_rating
		ORDER BY h.star_rating DESC, min_price ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.HotelSearchResult{}
	for rows.Next() {
		var h models.HotelSearchResult
		if err := rows.Scan(&h.ID, &h.Name, &h.City, &h.StarRating, &h.MinPrice, &h.MaxPrice, &h.RoomTypeCount); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r ReportRepository) HotelStatistics(ctx context.Context, hotelID int64) (models.HotelStatistics, error) {
	st := models.HotelStatistics{HotelID: hotelID}
	err := r.db().QueryRowContext(ctx, `
		SELECT COUNT(b.id),
		       COALESCE(SUM(CASE WHEN b.status IN ('confirmed','completed') THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN b.status = 'cancelled' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN b.status IN ('confirmed','completed') THEN b.total_amount ELSE 0 END), 0),
		       COALESCE(AVG(d.number_of_nights), 0)
		FROM hotel_booking_details d
		JOIN bookings b ON b.id = d.booking_id
		WHERE d.hotel_id = ?`, hotelID).Scan(
		&st.TotalBookings, &st.ConfirmedBookings, &st.CancelledBookings, &st.Revenue, &st.AverageNights,
	)
	return st, err
}

// PaymentTotals fills the scalar part of payment statistics since a time.
func (r ReportRepository) PaymentTotals(ctx context.Context, since time.Time) (models.PaymentStatistics, error) {
	var st models.PaymentStatistics
	err := r.db().QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status='completed' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status='failed' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status='refunded' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status='completed' THEN amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status='refunded' THEN amount ELSE 0 END), 0)
		FROM payments
		WHERE created_at >= ?`, since).Scan(
		&st.PaymentCount, &st.CompletedCount, &st.FailedCount, &st.RefundedCount,
		&st.TotalRevenue, &st.TotalRefunded,
	)
	return st, err
}

// PaymentBreakdown groups payments since a time by "payment_method" or
// "status".
func (r ReportRepository) PaymentBreakdown(ctx context.Context, since time.Time, column string) ([]models.MethodBreakdown, error) {
	if column != "payment_method" && column != "status" {
		column = "status"
	}
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+column+`, COUNT(*), COALESCE(SUM(amount), 0) AS total
		FROM payments
		WHERE created_at >= ?
		GROUP BY `+column+`
		ORDER BY total DESC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MethodBreakdown{}
	for rows.Next() {
		var m models.MethodBreakdown
		if err := rows.Scan(&m.Key, &m.Count, &m.Total); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r ReportRepository) AdminDashboard(ctx context.Context) (models.AdminDashboard, error) {
	var d models.AdminDashboard
	err := r.db().QueryRowContext(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM users),
		  (SELECT COUNT(*) FROM users WHERE role='customer'),
		  (SELECT COUNT(*) FROM users WHERE role='partner'),
		  (SELECT COUNT(*) FROM users WHERE role='admin'),
		  (SELECT COUNT(*) FROM partners WHERE is_verified=1),
		  (SELECT COUNT(*) FROM hotels WHERE is_active=1),
		  (SELECT COUNT(*) FROM flights WHERE is_active=1),
		  (SELECT COUNT(*) FROM bookings),
		  (SELECT COUNT(*) FROM bookings WHERE status='pending'),
		  (SELECT COUNT(*) FROM bookings WHERE status='confirmed'),
		  (SELECT COUNT(*) FROM bookings WHERE status='cancelled'),
		  (SELECT COALESCE(SUM(total_amount),0) FROM bookings WHERE status IN ('confirmed','completed')),
		  (SELECT COALESCE(AVG(total_amount),0) FROM bookings)`).Scan(
		&d.TotalUsers, &d.Customers, &d.Partners, &d.Admins,
		&d.VerifiedPartners, &d.ActiveHotels, &d.ActiveFlights,
		&d.TotalBookings, &d.PendingBookings, &d.ConfirmedBookings, &d.CancelledBookings,
		&d.TotalRevenue, &d.AverageBooking,
	)
	return d, err
}

func (r ReportRepository) CatalogCounts(ctx context.Context) (models.CatalogCounts, error) {
	var c models.CatalogCounts
	err := r.db().QueryRowContext(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM users),
		  (SELECT COUNT(*) FROM hotels WHERE is_active=1),
		  (SELECT COUNT(*) FROM flights WHERE is_active=1),
		  (SELECT COUNT(*) FROM bookings)`).Scan(&c.Users, &c.ActiveHotels, &c.ActiveFlights, &c.Bookings)
	return c, err
}

// PartnerBookingCounts counts bookings against a partner's hotels and
// flights.
func (r ReportRepository) PartnerBookingCounts(ctx context.Context, partnerID int64) (hotel, flight int, err error) {
	err = r.db().QueryRowContext(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM hotel_booking_details d JOIN hotels h ON h.id = d.hotel_id WHERE h.partner_id = ?),
		  (SELECT COUNT(*) FROM flight_booking_details d JOIN flights f ON f.id = d.flight_id WHERE f.partner_id = ?)`,
		partnerID, partnerID).Scan(&hotel, &flight)
	return hotel, flight, err
}
