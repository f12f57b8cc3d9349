package services

import (
	"context"
	"testing"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCreateHotelBookingReservesRooms(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomTypeSQL).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(roomTypeLockCols).AddRow(int64(7), int64(3), "Deluxe", int64(100000), 2, 5, true))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO hotel_booking_details").
		WithArgs(int64(11), int64(3), int64(7), "2026-11-01", "2026-11-03", 2, 3, int64(100000), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(reserveRoomsSQL).WithArgs(2, int64(7), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := BookingService{DB: db, Now: clock}
	b, err := svc.CreateHotelBooking(context.Background(), customer(5), HotelBookingInput{
		RoomTypeID:     7,
		CheckInDate:    "2026-11-01",
		CheckOutDate:   "2026-11-03",
		NumberOfRooms:  2,
		NumberOfGuests: 3,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.Status != domain.BookingPending {
		t.Fatalf("new booking should be pending, got %s", b.Status)
	}
	if b.TotalAmount != 400000 {
		t.Fatalf("total = %d, want 400000", b.TotalAmount)
	}
	if b.Hotel == nil || b.Hotel.NumberOfNights != 2 {
		t.Fatalf("hotel detail not filled: %+v", b.Hotel)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateHotelBookingRejectsTooManyGuests(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomTypeSQL).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(roomTypeLockCols).AddRow(int64(7), int64(3), "Deluxe", int64(100000), 2, 5, true))
	mock.ExpectRollback()

	svc := BookingService{DB: db, Now: clock}
	_, err := svc.CreateHotelBooking(context.Background(), customer(5), HotelBookingInput{
		RoomTypeID:     7,
		CheckInDate:    "2026-11-01",
		CheckOutDate:   "2026-11-03",
		NumberOfRooms:  1,
		NumberOfGuests: 3,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateHotelBookingOccupancyPerRoom(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomTypeSQL).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(roomTypeLockCols).AddRow(int64(7), int64(3), "Deluxe", int64(100000), 2, 5, true))
	mock.ExpectRollback()

	svc := BookingService{DB: db, Now: clock}
	_, err := svc.CreateHotelBooking(context.Background(), customer(5), HotelBookingInput{
		RoomTypeID:     7,
		CheckInDate:    "2026-11-01",
		CheckOutDate:   "2026-11-03",
		NumberOfRooms:  2,
		NumberOfGuests: 5,
	})
	var ve domain.ValidationError
	if !asValidation(err, &ve) || ve.Field != "number_of_guests" {
		t.Fatalf("expected number_of_guests validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateHotelBookingRejectsShortInventory(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomTypeSQL).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(roomTypeLockCols).AddRow(int64(7), int64(3), "Deluxe", int64(100000), 2, 1, true))
	mock.ExpectRollback()

	svc := BookingService{DB: db, Now: clock}
	_, err := svc.CreateHotelBooking(context.Background(), customer(5), HotelBookingInput{
		RoomTypeID:     7,
		CheckInDate:    "2026-11-01",
		CheckOutDate:   "2026-11-03",
		NumberOfRooms:  2,
		NumberOfGuests: 2,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateHotelBookingInputChecks(t *testing.T) {
	svc := BookingService{Now: clock}
	cases := []struct {
		name string
		rc   domain.RequestContext
		in   HotelBookingInput
		want func(error) bool
	}{
		{"partner cannot book", domain.RequestContext{UserID: 2, Role: domain.RolePartner},
			HotelBookingInput{RoomTypeID: 1, CheckInDate: "2026-11-01", CheckOutDate: "2026-11-02", NumberOfRooms: 1, NumberOfGuests: 1},
			domain.IsAuthorization},
		{"check-out before check-in", customer(5),
			HotelBookingInput{RoomTypeID: 1, CheckInDate: "2026-11-02", CheckOutDate: "2026-11-01", NumberOfRooms: 1, NumberOfGuests: 1},
			domain.IsValidation},
		{"same day", customer(5),
			HotelBookingInput{RoomTypeID: 1, CheckInDate: "2026-11-02", CheckOutDate: "2026-11-02", NumberOfRooms: 1, NumberOfGuests: 1},
			domain.IsValidation},
		{"past check-in", customer(5),
			HotelBookingInput{RoomTypeID: 1, CheckInDate: "2026-10-18", CheckOutDate: "2026-10-20", NumberOfRooms: 1, NumberOfGuests: 1},
			domain.IsValidation},
		{"bad date", customer(5),
			HotelBookingInput{RoomTypeID: 1, CheckInDate: "01/11/2026", CheckOutDate: "2026-11-02", NumberOfRooms: 1, NumberOfGuests: 1},
			domain.IsValidation},
		{"zero rooms", customer(5),
			HotelBookingInput{RoomTypeID: 1, CheckInDate: "2026-11-01", CheckOutDate: "2026-11-02", NumberOfRooms: 0, NumberOfGuests: 1},
			domain.IsValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateHotelBooking(context.Background(), tc.rc, tc.in)
			if !tc.want(err) {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}

func TestCancelBookingRestoresInventoryOnce(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingSQL).WithArgs("bk-1").WillReturnRows(hotelBookingRow(domain.BookingConfirmed))
	mock.ExpectQuery(hotelDetailSQL).WithArgs(int64(11)).WillReturnRows(hotelDetailRow())
	mock.ExpectExec("UPDATE bookings SET status").WithArgs(domain.BookingCancelled, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(lockRoomTypeSQL).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(roomTypeLockCols).AddRow(int64(7), int64(3), "Deluxe", int64(100000), 2, 3, true))
	mock.ExpectExec(releaseRoomsSQL).WithArgs(2, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// second attempt sees the cancelled row and releases nothing
	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingSQL).WithArgs("bk-1").WillReturnRows(hotelBookingRow(domain.BookingCancelled))
	mock.ExpectQuery(hotelDetailSQL).WithArgs(int64(11)).WillReturnRows(hotelDetailRow())
	mock.ExpectRollback()

	svc := BookingService{DB: db, Now: clock}
	b, err := svc.CancelBooking(context.Background(), customer(5), "bk-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.Status != domain.BookingCancelled {
		t.Fatalf("status = %s, want cancelled", b.Status)
	}

	_, err = svc.CancelBooking(context.Background(), customer(5), "bk-1")
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected invalid state on second cancel, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBookingOtherCustomerForbidden(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingSQL).WithArgs("bk-1").WillReturnRows(hotelBookingRow(domain.BookingPending))
	mock.ExpectQuery(hotelDetailSQL).WithArgs(int64(11)).WillReturnRows(hotelDetailRow())
	mock.ExpectRollback()

	svc := BookingService{DB: db, Now: clock}
	_, err := svc.CancelBooking(context.Background(), customer(99), "bk-1")
	if !domain.IsAuthorization(err) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestCancelBookingNotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingSQL).WithArgs("missing").WillReturnRows(sqlmock.NewRows(bookingCols))
	mock.ExpectRollback()

	svc := BookingService{DB: db, Now: clock}
	_, err := svc.CancelBooking(context.Background(), customer(5), "missing")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

const (
	reserveSeatsSQL = `SET seats_available = seats_available - \?`
	releaseSeatsSQL = `SET seats_available = LEAST\(total_seats, seats_available \+ \?\)`
	flightDetailSQL = `FROM flight_booking_details d`
)

var flightDetailCols = []string{"flight_id", "flight_number", "origin", "destination", "departure_time",
	"number_of_passengers", "price_per_seat", "passengers"}

func twoPassengers() []models.Passenger {
	return []models.Passenger{
		{Title: "Mr", FirstName: "Budi", LastName: "Santoso", DateOfBirth: "1990-04-12"},
		{Title: "Mrs", FirstName: "Sari", LastName: "Santoso", DateOfBirth: "1992-08-30"},
	}
}

func flightLock(departure time.Time, seats int) *sqlmock.Rows {
	return sqlmock.NewRows(flightLockCols).
		AddRow(int64(30), int64(4), "GA101", departure, departure.Add(150*time.Minute), int64(900000), seats, 150, true)
}

func TestCreateFlightBookingReservesSeats(t *testing.T) {
	db, mock := newMock(t)
	departure := fixedNow.AddDate(0, 1, 0)

	mock.ExpectBegin()
	mock.ExpectQuery(lockFlightSQL).WithArgs(int64(30)).WillReturnRows(flightLock(departure, 10))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("INSERT INTO flight_booking_details").
		WithArgs(int64(12), int64(30), 2, int64(900000), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(reserveSeatsSQL).WithArgs(2, int64(30), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := BookingService{DB: db, Now: clock}
	b, err := svc.CreateFlightBooking(context.Background(), customer(5), FlightBookingInput{
		FlightID:           30,
		NumberOfPassengers: 2,
		Passengers:         twoPassengers(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.TotalAmount != 1800000 {
		t.Fatalf("total = %d, want 1800000", b.TotalAmount)
	}
	if b.Status != domain.BookingPending || b.BookingType != domain.BookingTypeFlight {
		t.Fatalf("unexpected booking %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateFlightBookingPassengerCountMismatch(t *testing.T) {
	db, mock := newMock(t)

	svc := BookingService{DB: db, Now: clock}
	_, err := svc.CreateFlightBooking(context.Background(), customer(5), FlightBookingInput{
		FlightID:           30,
		NumberOfPassengers: 3,
		Passengers:         twoPassengers(),
	})
	var ve domain.ValidationError
	if !asValidation(err, &ve) || ve.Field != "passengers" {
		t.Fatalf("expected passengers validation error, got %v", err)
	}
	// nothing may touch the database
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateFlightBookingRollsBack(t *testing.T) {
	cases := []struct {
		name      string
		departure time.Time
		seats     int
		field     string
	}{
		{"not enough seats", fixedNow.AddDate(0, 1, 0), 1, "number_of_passengers"},
		{"already departed", fixedNow.Add(-time.Hour), 10, "flight_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			mock.ExpectBegin()
			mock.ExpectQuery(lockFlightSQL).WithArgs(int64(30)).WillReturnRows(flightLock(tc.departure, tc.seats))
			mock.ExpectRollback()

			svc := BookingService{DB: db, Now: clock}
			_, err := svc.CreateFlightBooking(context.Background(), customer(5), FlightBookingInput{
				FlightID:           30,
				NumberOfPassengers: 2,
				Passengers:         twoPassengers(),
			})
			var ve domain.ValidationError
			if !asValidation(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected %s validation error, got %v", tc.field, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestCancelFlightBookingRestoresSeats(t *testing.T) {
	db, mock := newMock(t)
	departure := fixedNow.AddDate(0, 1, 0)

	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingSQL).WithArgs("bk-2").WillReturnRows(sqlmock.NewRows(bookingCols).
		AddRow(int64(12), "bk-2", int64(5), domain.BookingTypeFlight, domain.BookingConfirmed, int64(1800000), "", fixedNow, fixedNow))
	mock.ExpectQuery(flightDetailSQL).WithArgs(int64(12)).WillReturnRows(sqlmock.NewRows(flightDetailCols).
		AddRow(int64(30), "GA101", "Jakarta", "Denpasar", departure, 2, int64(900000), []byte(`[]`)))
	mock.ExpectExec("UPDATE bookings SET status").WithArgs(domain.BookingCancelled, int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(lockFlightSQL).WithArgs(int64(30)).WillReturnRows(flightLock(departure, 8))
	mock.ExpectExec(releaseSeatsSQL).WithArgs(2, int64(30)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := BookingService{DB: db, Now: clock}
	b, err := svc.CancelBooking(context.Background(), customer(5), "bk-2")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.Status != domain.BookingCancelled {
		t.Fatalf("status = %s, want cancelled", b.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
