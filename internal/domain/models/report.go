package models

import "time"

type MonthlyRevenue struct {
	Month        time.Time `json:"month"`
	BookingType  string    `json:"booking_type"`
	BookingCount int       `json:"booking_count"`
	Revenue      int64     `json:"revenue"`
}

type HotelRevenue struct {
	HotelID      int64  `json:"hotel_id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	BookingCount int    `json:"booking_count"`
	Revenue      int64  `json:"revenue"`
}

type CustomerAnalytics struct {
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	BookingCount  int    `json:"booking_count"`
	TotalSpent    int64  `json:"total_spent"`
	AverageAmount int64  `json:"average_booking_value"`
}

type HotelStatistics struct {
	HotelID           int64   `json:"hotel_id"`
	TotalBookings     int     `json:"total_bookings"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	Revenue           int64   `json:"revenue"`
	AverageNights     float64 `json:"average_nights"`
}

type MethodBreakdown struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
	Total int64  `json:"total"`
}

type PaymentStatistics struct {
	Days           int               `json:"days"`
	TotalRevenue   int64             `json:"total_revenue"`
	TotalRefunded  int64             `json:"total_refunded"`
	PaymentCount   int               `json:"payment_count"`
	CompletedCount int               `json:"completed_count"`
	FailedCount    int               `json:"failed_count"`
	RefundedCount  int               `json:"refunded_count"`
	SuccessRate    float64           `json:"success_rate"`
	ByMethod       []MethodBreakdown `json:"by_method"`
	ByStatus       []MethodBreakdown `json:"by_status"`
	Recent         []Payment         `json:"recent_payments"`
}

// CatalogCounts is the health summary served by /api/db-check.
type CatalogCounts struct {
	Users         int `json:"users"`
	ActiveHotels  int `json:"active_hotels"`
	ActiveFlights int `json:"active_flights"`
	Bookings      int `json:"bookings"`
}

type AdminDashboard struct {
	TotalUsers        int     `json:"total_users"`
	Customers         int     `json:"customers"`
	Partners          int     `json:"partners"`
	Admins            int     `json:"admins"`
	VerifiedPartners  int     `json:"verified_partners"`
	ActiveHotels      int     `json:"active_hotels"`
	ActiveFlights     int     `json:"active_flights"`
	TotalBookings     int     `json:"total_bookings"`
	PendingBookings   int     `json:"pending_bookings"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	TotalRevenue      int64   `json:"total_revenue"`
	AverageBooking    float64 `json:"avg_booking_value"`
}

type PartnerDashboard struct {
	Partner        Partner  `json:"partner"`
	Hotels         []Hotel  `json:"hotels"`
	Flights        []Flight `json:"flights"`
	HotelBookings  int      `json:"hotel_bookings"`
	FlightBookings int      `json:"flight_bookings"`
}
