package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
)

type BookingRepository struct {
	DB intdb.DBTX
}

func (r BookingRepository) db() intdb.DBTX { return pick(r.DB) }

const bookingColumns = `b.id, b.booking_id, b.user_id, b.booking_type, b.status, b.total_amount,
	       COALESCE(b.notes,''), b.created_at, b.updated_at`

func scanBooking(s rowScanner, extra ...any) (models.Booking, error) {
	var b models.Booking
	dest := []any{&b.ID, &b.BookingID, &b.UserID, &b.BookingType, &b.Status, &b.TotalAmount,
		&b.Notes, &b.CreatedAt, &b.UpdatedAt}
	err := s.Scan(append(dest, extra...)...)
	return b, err
}

// Insert creates the bookings row and returns its numeric id.
func (r BookingRepository) Insert(ctx context.Context, b models.Booking) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO bookings (booking_id, user_id, booking_type, status, total_amount, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.BookingID, b.UserID, b.BookingType, b.Status, b.TotalAmount, intdb.NullIfEmpty(b.Notes),
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r BookingRepository) InsertHotelDetail(ctx context.Context, bookingRowID int64, d models.HotelBookingDetail) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO hotel_booking_details (booking_id, hotel_id, room_type_id, check_in_date, check_out_date,
		                                   number_of_rooms, number_of_guests, price_per_night, number_of_nights)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bookingRowID, d.HotelID, d.RoomTypeID,
		d.CheckInDate.Format("2006-01-02"), d.CheckOutDate.Format("2006-01-02"),
		d.NumberOfRooms, d.NumberOfGuests, d.PricePerNight, d.NumberOfNights,
	)
	return err
}

func (r BookingRepository) InsertFlightDetail(ctx context.Context, bookingRowID int64, d models.FlightBookingDetail) error {
	passengers, err := json.Marshal(d.Passengers)
	if err != nil {
		return fmt.Errorf("encode passengers: %w", err)
	}
	_, err = r.db().ExecContext(ctx, `
		INSERT INTO flight_booking_details (booking_id, flight_id, number_of_passengers, price_per_seat, passengers)
		VALUES (?, ?, ?, ?, ?)`,
		bookingRowID, d.FlightID, d.NumberOfPassengers, d.PricePerSeat, string(passengers),
	)
	return err
}

// GetByBookingID loads a booking with its detail row and payment summary.
func (r BookingRepository) GetByBookingID(ctx context.Context, bookingID string) (models.Booking, error) {
	var payID, payStatus, txn string
	b, err := scanBooking(r.db().QueryRowContext(ctx, `
		SELECT `+bookingColumns+`,
		       COALESCE(p.payment_id,''), COALESCE(p.status,''), COALESCE(p.transaction_id,'')
		FROM bookings b
		LEFT JOIN payments p ON p.booking_id = b.id
		WHERE b.booking_id = ?
		LIMIT 1`, strings.TrimSpace(bookingID)), &payID, &payStatus, &txn)
	if err != nil {
		return models.Booking{}, err
	}
	if payID != "" {
		b.Payment = &models.PaymentSummary{PaymentID: payID, Status: payStatus, TransactionID: txn}
	}
	if err := r.loadDetail(ctx, &b); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// LockByBookingID reads and row-locks a booking by its public UUID.
func (r BookingRepository) LockByBookingID(ctx context.Context, bookingID string) (models.Booking, error) {
	b, err := scanBooking(r.db().QueryRowContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		WHERE b.booking_id = ?
		FOR UPDATE`, strings.TrimSpace(bookingID)))
	if err != nil {
		return models.Booking{}, err
	}
	if err := r.loadDetail(ctx, &b); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// LockByID reads and row-locks a booking by its numeric id.
func (r BookingRepository) LockByID(ctx context.Context, id int64) (models.Booking, error) {
	b, err := scanBooking(r.db().QueryRowContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		WHERE b.id = ?
		FOR UPDATE`, id))
	if err != nil {
		return models.Booking{}, err
	}
	if err := r.loadDetail(ctx, &b); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// ListByUser returns the user's bookings, newest first.
func (r BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+bookingColumns+`,
		       COALESCE(p.payment_id,''), COALESCE(p.status,''), COALESCE(p.transaction_id,'')
		FROM bookings b
		LEFT JOIN payments p ON p.booking_id = b.id
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}

	out := []models.Booking{}
	for rows.Next() {
		var payID, payStatus, txn string
		b, err := scanBooking(rows, &payID, &payStatus, &txn)
		if err != nil {
			rows.Close()
			return nil, err
		}
		if payID != "" {
			b.Payment = &models.PaymentSummary{PaymentID: payID, Status: payStatus, TransactionID: txn}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		if err := r.loadDetail(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r BookingRepository) loadDetail(ctx context.Context, b *models.Booking) error {
	switch b.BookingType {
	case domain.BookingTypeHotel:
		d, err := r.HotelDetail(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("hotel detail for booking %s: %w", b.BookingID, err)
		}
		b.Hotel = &d
	case domain.BookingTypeFlight:
		d, err := r.FlightDetail(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("flight detail for booking %s: %w", b.BookingID, err)
		}
		b.Flight = &d
	}
	return nil
}

func (r BookingRepository) HotelDetail(ctx context.Context, bookingRowID int64) (models.HotelBookingDetail, error) {
	var d models.HotelBookingDetail
	err := r.db().QueryRowContext(ctx, `
		SELECT d.hotel_id, h.name, d.room_type_id, rt.name, d.check_in_date, d.check_out_date,
		       d.number_of_rooms, d.number_of_guests, d.price_per_night, d.number_of_nights
		FROM hotel_booking_details d
		JOIN hotels h ON h.id = d.hotel_id
		JOIN room_types rt ON rt.id = d.room_type_id
		WHERE d.booking_id = ?`, bookingRowID).Scan(
		&d.HotelID, &d.HotelName, &d.RoomTypeID, &d.RoomTypeName, &d.CheckInDate, &d.CheckOutDate,
		&d.NumberOfRooms, &d.NumberOfGuests, &d.PricePerNight, &d.NumberOfNights,
	)
	return d, err
}

func (r BookingRepository) FlightDetail(ctx context.Context, bookingRowID int64) (models.FlightBookingDetail, error) {
	var (
		d   models.FlightBookingDetail
		raw []byte
	)
	err := r.db().QueryRowContext(ctx, `
		SELECT d.flight_id, f.flight_number, f.origin, f.destination, f.departure_time,
		       d.number_of_passengers, d.price_per_seat, d.passengers
		FROM flight_booking_details d
		JOIN flights f ON f.id = d.flight_id
		WHERE d.booking_id = ?`, bookingRowID).Scan(
		&d.FlightID, &d.FlightNumber, &d.Origin, &d.Destination, &d.DepartureTime,
		&d.NumberOfPassengers, &d.PricePerSeat, &raw,
	)
	if err != nil {
		return d, err
	}
	d.Passengers = []models.Passenger{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &d.Passengers); err != nil {
			return d, fmt.Errorf("decode passengers: %w", err)
		}
	}
	return d, nil
}

func (r BookingRepository) UpdateStatus(ctx context.Context, bookingRowID int64, status string) error {
	_, err := r.db().ExecContext(ctx, `UPDATE bookings SET status=?, updated_at=NOW() WHERE id=?`, status, bookingRowID)
	return err
}

// CompleteFinished marks confirmed bookings whose stay or flight is over as
// completed and returns how many rows changed.
func (r BookingRepository) CompleteFinished(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	res, err := r.db().ExecContext(ctx, `
		UPDATE bookings b
		JOIN hotel_booking_details d ON d.booking_id = b.id
		SET b.status = 'completed', b.updated_at = NOW()
		WHERE b.status = 'confirmed' AND d.check_out_date <= ?`, now.Format("2006-01-02"))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	total += n

	res, err = r.db().ExecContext(ctx, `
		UPDATE bookings b
		JOIN flight_booking_details d ON d.booking_id = b.id
		JOIN flights f ON f.id = d.flight_id
		SET b.status = 'completed', b.updated_at = NOW()
		WHERE b.status = 'confirmed' AND f.arrival_time <= ?`, now)
	if err != nil {
		return total, err
	}
	n, _ = res.RowsAffected()
	return total + n, nil
}
