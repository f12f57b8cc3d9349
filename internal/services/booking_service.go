package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/metrics"
	"travelbooking/internal/repositories"
	"travelbooking/internal/utils"

	"github.com/google/uuid"
)

// BookingService creates, reads and cancels bookings. Every write runs in a
// single transaction with the inventory row locked.
type BookingService struct {
	DB      *sql.DB
	Metrics *metrics.Metrics
	Now     func() time.Time
}

type HotelBookingInput struct {
	RoomTypeID     int64  `json:"room_type_id" binding:"required"`
	CheckInDate    string `json:"check_in_date" binding:"required"`
	CheckOutDate   string `json:"check_out_date" binding:"required"`
	NumberOfRooms  int    `json:"number_of_rooms"`
	NumberOfGuests int    `json:"number_of_guests"`
	Notes          string `json:"notes" binding:"max=1000"`
}

type FlightBookingInput struct {
	FlightID           int64              `json:"flight_id" binding:"required"`
	NumberOfPassengers int                `json:"number_of_passengers"`
	Passengers         []models.Passenger `json:"passengers" binding:"dive"`
	Notes              string             `json:"notes" binding:"max=1000"`
}

func (s BookingService) db() *sql.DB               { return pickDB(s.DB) }
func (s BookingService) metrics() *metrics.Metrics { return pickMetrics(s.Metrics) }
func (s BookingService) now() time.Time            { return pickNow(s.Now) }

func (s BookingService) CreateHotelBooking(ctx context.Context, rc domain.RequestContext, in HotelBookingInput) (models.Booking, error) {
	if err := domain.CanBook(rc); err != nil {
		return models.Booking{}, err
	}
	checkIn, err := utils.ParseDate(in.CheckInDate)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "check_in_date", Msg: "must be YYYY-MM-DD", Err: err}
	}
	checkOut, err := utils.ParseDate(in.CheckOutDate)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "check_out_date", Msg: "must be YYYY-MM-DD", Err: err}
	}
	stay := domain.DateRange{CheckIn: checkIn, CheckOut: checkOut}
	if !checkIn.Before(checkOut) {
		return models.Booking{}, domain.ValidationError{Field: "check_out_date", Msg: "check-out date must be after check-in date"}
	}
	if checkIn.Before(utils.StartOfDay(s.now())) {
		return models.Booking{}, domain.ValidationError{Field: "check_in_date", Msg: "check-in date cannot be in the past"}
	}
	if in.NumberOfRooms < 1 {
		return models.Booking{}, domain.ValidationError{Field: "number_of_rooms", Msg: "at least one room is required"}
	}
	if in.NumberOfGuests < 1 {
		return models.Booking{}, domain.ValidationError{Field: "number_of_guests", Msg: "at least one guest is required"}
	}

	var out models.Booking
	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		hotels := repositories.HotelRepository{DB: tx}
		rt, err := hotels.LockRoomType(ctx, in.RoomTypeID)
		if err != nil {
			return notFoundOr(err, "room type")
		}
		if !rt.IsActive {
			return domain.NotFoundError{Resource: "room type"}
		}
		if rt.RoomsAvailable < in.NumberOfRooms {
			return domain.ValidationError{
				Field: "number_of_rooms",
				Msg:   fmt.Sprintf("only %d rooms available", rt.RoomsAvailable),
			}
		}
		if maxGuests := domain.MaxGuests(rt.MaxOccupancy, in.NumberOfRooms); in.NumberOfGuests > maxGuests {
			return domain.ValidationError{
				Field: "number_of_guests",
				Msg:   fmt.Sprintf("maximum %d guests allowed for %d rooms", maxGuests, in.NumberOfRooms),
			}
		}

		now := s.now()
		nights := stay.Nights()
		b := models.Booking{
			BookingID:   uuid.NewString(),
			UserID:      int64(rc.UserID),
			BookingType: domain.BookingTypeHotel,
			Status:      domain.BookingPending,
			TotalAmount: domain.HotelTotal(rt.PricePerNight, nights, in.NumberOfRooms),
			Notes:       strings.TrimSpace(in.Notes),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		bookings := repositories.BookingRepository{DB: tx}
		id, err := bookings.Insert(ctx, b)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		b.ID = id

		detail := models.HotelBookingDetail{
			HotelID:        rt.HotelID,
			RoomTypeID:     rt.ID,
			RoomTypeName:   rt.Name,
			CheckInDate:    checkIn,
			CheckOutDate:   checkOut,
			NumberOfRooms:  in.NumberOfRooms,
			NumberOfGuests: in.NumberOfGuests,
			PricePerNight:  rt.PricePerNight,
			NumberOfNights: nights,
		}
		if err := bookings.InsertHotelDetail(ctx, id, detail); err != nil {
			return fmt.Errorf("insert hotel detail: %w", err)
		}
		if err := hotels.ReserveRooms(ctx, rt.ID, in.NumberOfRooms); err != nil {
			return err
		}
		b.Hotel = &detail
		out = b
		return nil
	})
	if err != nil {
		return models.Booking{}, asDomainError(err)
	}

	s.metrics().BookingsCreated.WithLabelValues(domain.BookingTypeHotel).Inc()
	utils.LogEvent(rc.RequestID, "booking", "create_hotel",
		fmt.Sprintf("booking_id=%s room_type_id=%d rooms=%d nights=%d total=%d",
			out.BookingID, in.RoomTypeID, in.NumberOfRooms, out.Hotel.NumberOfNights, out.TotalAmount))
	return out, nil
}

func (s BookingService) CreateFlightBooking(ctx context.Context, rc domain.RequestContext, in FlightBookingInput) (models.Booking, error) {
	if err := domain.CanBook(rc); err != nil {
		return models.Booking{}, err
	}
	if err := validatePassengers(in.Passengers, in.NumberOfPassengers); err != nil {
		return models.Booking{}, err
	}

	var out models.Booking
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		flights := repositories.FlightRepository{DB: tx}
		f, err := flights.LockFlight(ctx, in.FlightID)
		if err != nil {
			return notFoundOr(err, "flight")
		}
		if !f.IsActive {
			return domain.NotFoundError{Resource: "flight"}
		}
		now := s.now()
		if !f.DepartureTime.After(now) {
			return domain.ValidationError{Field: "flight_id", Msg: "flight has already departed"}
		}
		if f.SeatsAvailable < in.NumberOfPassengers {
			return domain.ValidationError{
				Field: "number_of_passengers",
				Msg:   fmt.Sprintf("only %d seats available", f.SeatsAvailable),
			}
		}

		b := models.Booking{
			BookingID:   uuid.NewString(),
			UserID:      int64(rc.UserID),
			BookingType: domain.BookingTypeFlight,
			Status:      domain.BookingPending,
			TotalAmount: domain.FlightTotal(f.Price, in.NumberOfPassengers),
			Notes:       strings.TrimSpace(in.Notes),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		bookings := repositories.BookingRepository{DB: tx}
		id, err := bookings.Insert(ctx, b)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		b.ID = id

		detail := models.FlightBookingDetail{
			FlightID:           f.ID,
			FlightNumber:       f.FlightNumber,
			DepartureTime:      f.DepartureTime,
			NumberOfPassengers: in.NumberOfPassengers,
			PricePerSeat:       f.Price,
			Passengers:         in.Passengers,
		}
		if err := bookings.InsertFlightDetail(ctx, id, detail); err != nil {
			return fmt.Errorf("insert flight detail: %w", err)
		}
		if err := flights.ReserveSeats(ctx, f.ID, in.NumberOfPassengers); err != nil {
			return err
		}
		b.Flight = &detail
		out = b
		return nil
	})
	if err != nil {
		return models.Booking{}, asDomainError(err)
	}

	s.metrics().BookingsCreated.WithLabelValues(domain.BookingTypeFlight).Inc()
	utils.LogEvent(rc.RequestID, "booking", "create_flight",
		fmt.Sprintf("booking_id=%s flight_id=%d passengers=%d total=%d",
			out.BookingID, in.FlightID, in.NumberOfPassengers, out.TotalAmount))
	return out, nil
}

func validatePassengers(ps []models.Passenger, n int) error {
	if n < 1 {
		return domain.ValidationError{Field: "number_of_passengers", Msg: "at least one passenger is required"}
	}
	if len(ps) != n {
		return domain.ValidationError{
			Field: "passengers",
			Msg:   fmt.Sprintf("number of passengers (%d) does not match passenger details (%d)", n, len(ps)),
		}
	}
	for i, p := range ps {
		field := fmt.Sprintf("passengers[%d]", i)
		switch {
		case !domain.IsPassengerTitle(p.Title):
			return domain.ValidationError{Field: field + ".title", Msg: "must be one of Mr, Mrs, Ms, Dr"}
		case strings.TrimSpace(p.FirstName) == "":
			return domain.ValidationError{Field: field + ".first_name", Msg: "required"}
		case strings.TrimSpace(p.LastName) == "":
			return domain.ValidationError{Field: field + ".last_name", Msg: "required"}
		}
		if _, err := utils.ParseDate(p.DateOfBirth); err != nil {
			return domain.ValidationError{Field: field + ".date_of_birth", Msg: "must be YYYY-MM-DD", Err: err}
		}
	}
	return nil
}

// GetBooking returns a booking with its detail and payment summary.
func (s BookingService) GetBooking(ctx context.Context, rc domain.RequestContext, bookingID string) (models.Booking, error) {
	if err := domain.RequireAuthenticated(rc, "view bookings"); err != nil {
		return models.Booking{}, err
	}
	b, err := repositories.BookingRepository{DB: s.db()}.GetByBookingID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, asDomainError(notFoundOr(err, "booking"))
	}
	if err := domain.CanViewBooking(rc, domain.ID(b.UserID)); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (s BookingService) ListBookings(ctx context.Context, rc domain.RequestContext) ([]models.Booking, error) {
	if err := domain.RequireAuthenticated(rc, "list bookings"); err != nil {
		return nil, err
	}
	out, err := repositories.BookingRepository{DB: s.db()}.ListByUser(ctx, int64(rc.UserID))
	if err != nil {
		return nil, asDomainError(err)
	}
	return out, nil
}

// CancelBooking moves a pending or confirmed booking to cancelled and gives
// its inventory back. It does not refund a completed payment.
func (s BookingService) CancelBooking(ctx context.Context, rc domain.RequestContext, bookingID string) (models.Booking, error) {
	if err := domain.RequireAuthenticated(rc, "cancel bookings"); err != nil {
		return models.Booking{}, err
	}
	var out models.Booking
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		bookings := repositories.BookingRepository{DB: tx}
		b, err := bookings.LockByBookingID(ctx, bookingID)
		if err != nil {
			return notFoundOr(err, "booking")
		}
		if err := domain.CanCancelBooking(rc, domain.ID(b.UserID)); err != nil {
			return err
		}
		if b.Status == domain.BookingCancelled || b.Status == domain.BookingCompleted {
			return domain.InvalidStateError{Resource: "booking", Status: b.Status, Msg: "cannot be cancelled"}
		}
		if err := bookings.UpdateStatus(ctx, b.ID, domain.BookingCancelled); err != nil {
			return fmt.Errorf("update booking status: %w", err)
		}
		if err := restoreInventory(ctx, tx, b, s.metrics()); err != nil {
			return err
		}
		b.Status = domain.BookingCancelled
		out = b
		return nil
	})
	if err != nil {
		return models.Booking{}, asDomainError(err)
	}

	s.metrics().BookingsCancelled.WithLabelValues(out.BookingType, "cancel").Inc()
	utils.LogEvent(rc.RequestID, "booking", "cancel", "booking_id="+out.BookingID)
	return out, nil
}
