package services

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"travelbooking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func customer(id int64) domain.RequestContext {
	return domain.RequestContext{UserID: domain.ID(id), Role: domain.RoleCustomer, RequestID: "test"}
}

var (
	roomTypeLockCols = []string{"id", "hotel_id", "name", "price_per_night", "max_occupancy", "rooms_available", "is_active"}
	bookingCols      = []string{"id", "booking_id", "user_id", "booking_type", "status", "total_amount", "notes", "created_at", "updated_at"}
	hotelDetailCols  = []string{"hotel_id", "hotel_name", "room_type_id", "room_type_name", "check_in_date", "check_out_date",
		"number_of_rooms", "number_of_guests", "price_per_night", "number_of_nights"}
	paymentCols = []string{"id", "payment_id", "booking_row_id", "booking_id", "user_id", "amount", "payment_method",
		"status", "transaction_id", "card_type", "card_last_four", "card_holder_name",
		"bank_name", "account_number", "paypal_email", "payment_date", "failure_reason", "notes",
		"created_at", "updated_at"}
)

const (
	lockRoomTypeSQL = `FROM room_types\s+WHERE id = \?\s+FOR UPDATE`
	lockBookingSQL  = `FROM bookings b\s+WHERE b.booking_id = \?\s+FOR UPDATE`
	lockBookingByID = `FROM bookings b\s+WHERE b.id = \?\s+FOR UPDATE`
	hotelDetailSQL  = `FROM hotel_booking_details d`
	lockPaymentSQL  = `WHERE p.payment_id = \? FOR UPDATE`
	lockPaymentBkg  = `WHERE p.booking_id = \? FOR UPDATE`
	releaseRoomsSQL = `SET rooms_available = rooms_available \+ \?`
	reserveRoomsSQL = `SET rooms_available = rooms_available - \?`
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// hotelBookingRow returns a booking row for booking row id 11 owned by user 5.
func hotelBookingRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows(bookingCols).
		AddRow(int64(11), "bk-1", int64(5), domain.BookingTypeHotel, status, int64(400000), "", fixedNow, fixedNow)
}

func hotelDetailRow() *sqlmock.Rows {
	in := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(hotelDetailCols).
		AddRow(int64(3), "Harbour Inn", int64(7), "Deluxe", in, in.AddDate(0, 0, 2), 2, 3, int64(100000), 2)
}

func paymentRow(status string, notes string) *sqlmock.Rows {
	return sqlmock.NewRows(paymentCols).AddRow(
		int64(21), "pay-1", int64(11), "bk-1", int64(5), int64(400000), "cash",
		status, "TXN-ABCDEF012345", "", "", "",
		"", "", "", nil, "", notes,
		fixedNow, fixedNow,
	)
}

func asValidation(err error, target *domain.ValidationError) bool {
	return errors.As(err, target)
}
