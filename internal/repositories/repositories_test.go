package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"travelbooking/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*ReportRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return &ReportRepository{DB: db}, mock, func() { db.Close() }
}

func TestReserveRoomsRefusesNegative(t *testing.T) {
	rep, mock, done := newMock(t)
	defer done()
	hotels := HotelRepository{DB: rep.DB}

	mock.ExpectExec(`SET rooms_available = rooms_available - \?\s+WHERE id = \? AND rooms_available >= \?`).
		WithArgs(3, int64(7), 3).WillReturnResult(sqlmock.NewResult(0, 0))

	err := hotels.ReserveRooms(context.Background(), 7, 3)
	if !errors.Is(err, ErrInsufficientInventory) {
		t.Fatalf("expected ErrInsufficientInventory, got %v", err)
	}
}

func TestReserveSeatsOK(t *testing.T) {
	rep, mock, done := newMock(t)
	defer done()
	flights := FlightRepository{DB: rep.DB}

	mock.ExpectExec(`SET seats_available = seats_available - \?`).
		WithArgs(2, int64(4), 2).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := flights.ReserveSeats(context.Background(), 4, 2); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookedRoomsUsesHalfOpenOverlap(t *testing.T) {
	rep, mock, done := newMock(t)
	defer done()

	in := time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC)
	out := time.Date(2026, 11, 13, 0, 0, 0, 0, time.UTC)
	// existing stays overlap when they start before our check-out and end after our check-in
	mock.ExpectQuery(`d.check_in_date < \? AND d.check_out_date > \?`).
		WithArgs(int64(7), "2026-11-13", "2026-11-10").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(4))

	n, err := rep.BookedRooms(context.Background(), 7, in, out)
	if err != nil {
		t.Fatalf("BookedRooms: %v", err)
	}
	if n != 4 {
		t.Fatalf("booked = %d, want 4", n)
	}
}

func TestFlightDetailDecodesPassengers(t *testing.T) {
	rep, mock, done := newMock(t)
	defer done()
	bookings := BookingRepository{DB: rep.DB}

	dep := time.Date(2026, 12, 1, 7, 30, 0, 0, time.UTC)
	mock.ExpectQuery("FROM flight_booking_details d").WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"flight_id", "flight_number", "origin", "destination", "departure_time",
			"number_of_passengers", "price_per_seat", "passengers"}).
			AddRow(int64(4), "GA-401", "Jakarta", "Denpasar", dep, 1, int64(89900),
				[]byte(`[{"title":"Dr","first_name":"Ada","last_name":"Lovelace","date_of_birth":"1990-01-01"}]`)))

	d, err := bookings.FlightDetail(context.Background(), 11)
	if err != nil {
		t.Fatalf("FlightDetail: %v", err)
	}
	if len(d.Passengers) != 1 || d.Passengers[0].FullName() != "Dr Ada Lovelace" {
		t.Fatalf("passengers = %+v", d.Passengers)
	}
}

func TestInsertFlightDetailStoresPassengerJSON(t *testing.T) {
	rep, mock, done := newMock(t)
	defer done()
	bookings := BookingRepository{DB: rep.DB}

	mock.ExpectExec("INSERT INTO flight_booking_details").
		WithArgs(int64(11), int64(4), 1, int64(89900),
			`[{"title":"Mr","first_name":"Alan","last_name":"Turing","date_of_birth":"1985-06-23"}]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := bookings.InsertFlightDetail(context.Background(), 11, models.FlightBookingDetail{
		FlightID: 4, NumberOfPassengers: 1, PricePerSeat: 89900,
		Passengers: []models.Passenger{{Title: "Mr", FirstName: "Alan", LastName: "Turing", DateOfBirth: "1985-06-23"}},
	})
	if err != nil {
		t.Fatalf("InsertFlightDetail: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentBreakdownFallsBackToStatus(t *testing.T) {
	rep, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(`GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "total"}).AddRow("completed", 3, int64(900000)))

	got, err := rep.PaymentBreakdown(context.Background(), time.Now(), "amount; DROP TABLE payments")
	if err != nil {
		t.Fatalf("PaymentBreakdown: %v", err)
	}
	if len(got) != 1 || got[0].Count != 3 {
		t.Fatalf("breakdown = %+v", got)
	}
}
