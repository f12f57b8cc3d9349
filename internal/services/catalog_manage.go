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
	"travelbooking/internal/repositories"
	"travelbooking/internal/utils"
)

type HotelInput struct {
	Name         string `json:"name" binding:"required,max=200"`
	City         string `json:"city" binding:"required,max=100"`
	Address      string `json:"address" binding:"required"`
	Description  string `json:"description"`
	StarRating   int    `json:"star_rating"`
	Amenities    string `json:"amenities"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone" binding:"max=20"`
	IsActive     *bool  `json:"is_active"`
}

type RoomTypeInput struct {
	Name           string       `json:"name" binding:"required,max=100"`
	Description    string       `json:"description"`
	PricePerNight  utils.Amount `json:"price_per_night"`
	MaxOccupancy   int          `json:"max_occupancy"`
	RoomsAvailable *int         `json:"rooms_available"`
	RoomSize       string       `json:"room_size" binding:"max=50"`
	BedType        string       `json:"bed_type" binding:"max=50"`
	Amenities      string       `json:"amenities"`
	IsActive       *bool        `json:"is_active"`
}

type FlightInput struct {
	FlightNumber   string       `json:"flight_number" binding:"required,max=20"`
	Origin         string       `json:"origin" binding:"required,max=100"`
	Destination    string       `json:"destination" binding:"required,max=100"`
	DepartureTime  time.Time    `json:"departure_time" binding:"required"`
	ArrivalTime    time.Time    `json:"arrival_time" binding:"required"`
	Price          utils.Amount `json:"price"`
	SeatsAvailable *int         `json:"seats_available"`
	TotalSeats     int          `json:"total_seats"`
	AircraftType   string       `json:"aircraft_type" binding:"max=50"`
	ClassType      string       `json:"class_type" binding:"max=20"`
	IsActive       *bool        `json:"is_active"`
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func hotelFromInput(in HotelInput) (models.Hotel, error) {
	h := models.Hotel{
		Name:         utils.NormalizeSpace(in.Name),
		City:         utils.NormalizeSpace(in.City),
		Address:      strings.TrimSpace(in.Address),
		Description:  strings.TrimSpace(in.Description),
		StarRating:   in.StarRating,
		Amenities:    strings.TrimSpace(in.Amenities),
		CheckInTime:  strings.TrimSpace(in.CheckInTime),
		CheckOutTime: strings.TrimSpace(in.CheckOutTime),
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		IsActive:     boolOr(in.IsActive, true),
	}
	if h.StarRating == 0 {
		h.StarRating = 3
	}
	if h.CheckInTime == "" {
		h.CheckInTime = "14:00"
	}
	if h.CheckOutTime == "" {
		h.CheckOutTime = "12:00"
	}
	switch {
	case h.Name == "":
		return h, domain.ValidationError{Field: "name", Msg: "required"}
	case h.City == "":
		return h, domain.ValidationError{Field: "city", Msg: "required"}
	case h.StarRating < 1 || h.StarRating > 5:
		return h, domain.ValidationError{Field: "star_rating", Msg: "must be between 1 and 5"}
	}
	for field, v := range map[string]string{"check_in_time": h.CheckInTime, "check_out_time": h.CheckOutTime} {
		if _, err := time.Parse("15:04", v); err != nil {
			return h, domain.ValidationError{Field: field, Msg: "must be HH:MM", Err: err}
		}
	}
	return h, nil
}

// roomTypeFromInput applies defaults. rooms is used when the input leaves
// rooms_available out.
func roomTypeFromInput(in RoomTypeInput, rooms int) (models.RoomType, error) {
	rt := models.RoomType{
		Name:          utils.NormalizeSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		PricePerNight: int64(in.PricePerNight),
		MaxOccupancy:  in.MaxOccupancy,
		RoomSize:      strings.TrimSpace(in.RoomSize),
		BedType:       strings.TrimSpace(in.BedType),
		Amenities:     strings.TrimSpace(in.Amenities),
		IsActive:      boolOr(in.IsActive, true),
	}
	if rt.MaxOccupancy == 0 {
		rt.MaxOccupancy = 2
	}
	rt.RoomsAvailable = rooms
	if in.RoomsAvailable != nil {
		rt.RoomsAvailable = *in.RoomsAvailable
	}
	switch {
	case rt.Name == "":
		return rt, domain.ValidationError{Field: "name", Msg: "required"}
	case rt.PricePerNight < 0:
		return rt, domain.ValidationError{Field: "price_per_night", Msg: "must not be negative"}
	case rt.MaxOccupancy < 1:
		return rt, domain.ValidationError{Field: "max_occupancy", Msg: "must be at least 1"}
	case rt.RoomsAvailable < 0:
		return rt, domain.ValidationError{Field: "rooms_available", Msg: "must not be negative"}
	}
	return rt, nil
}

// flightFromInput applies defaults. On create at least one seat must be
// on sale; updates may bring seats_available down to zero.
func flightFromInput(in FlightInput, creating bool) (models.Flight, error) {
	f := models.Flight{
		FlightNumber:  strings.ToUpper(strings.TrimSpace(in.FlightNumber)),
		Origin:        utils.NormalizeSpace(in.Origin),
		Destination:   utils.NormalizeSpace(in.Destination),
		DepartureTime: in.DepartureTime,
		ArrivalTime:   in.ArrivalTime,
		Price:         int64(in.Price),
		TotalSeats:    in.TotalSeats,
		AircraftType:  strings.TrimSpace(in.AircraftType),
		ClassType:     strings.TrimSpace(in.ClassType),
		IsActive:      boolOr(in.IsActive, true),
	}
	if f.TotalSeats == 0 {
		f.TotalSeats = 150
	}
	f.SeatsAvailable = f.TotalSeats
	if in.SeatsAvailable != nil {
		f.SeatsAvailable = *in.SeatsAvailable
	}
	if f.ClassType == "" {
		f.ClassType = "Economy"
	}
	minSeats := 0
	if creating {
		minSeats = 1
	}
	switch {
	case f.FlightNumber == "":
		return f, domain.ValidationError{Field: "flight_number", Msg: "required"}
	case f.Origin == "" || f.Destination == "":
		return f, domain.ValidationError{Field: "origin", Msg: "origin and destination are required"}
	case !f.DepartureTime.Before(f.ArrivalTime):
		return f, domain.ValidationError{Field: "arrival_time", Msg: "arrival time must be after departure time"}
	case f.Price < 0:
		return f, domain.ValidationError{Field: "price", Msg: "must not be negative"}
	case f.TotalSeats < 1:
		return f, domain.ValidationError{Field: "total_seats", Msg: "must be at least 1"}
	case f.SeatsAvailable < minSeats || f.SeatsAvailable > f.TotalSeats:
		return f, domain.ValidationError{
			Field: "seats_available",
			Msg:   fmt.Sprintf("must be between %d and total_seats (%d)", minSeats, f.TotalSeats),
		}
	}
	return f, nil
}

func (s CatalogService) invalidateHotel(ctx context.Context, hotelID int64) {
	if err := s.Cache.Delete(ctx, hotelCacheKey(hotelID)); err != nil {
		utils.LogError("", "catalog", "cache_delete", err)
	}
}

// ownedHotel loads a hotel and checks the caller may manage it.
func (s CatalogService) ownedHotel(ctx context.Context, rc domain.RequestContext, id int64) (models.Hotel, error) {
	h, err := repositories.HotelRepository{DB: s.db()}.GetHotel(ctx, id)
	if err != nil {
		return models.Hotel{}, asDomainError(notFoundOr(err, "hotel"))
	}
	if err := domain.CanManageInventory(rc, domain.ID(h.OwnerUserID)); err != nil {
		return models.Hotel{}, err
	}
	return h, nil
}

func (s CatalogService) CreateHotel(ctx context.Context, rc domain.RequestContext, in HotelInput) (models.Hotel, error) {
	if err := domain.RequireRole(rc, "create hotels", domain.RolePartner); err != nil {
		return models.Hotel{}, err
	}
	h, err := hotelFromInput(in)
	if err != nil {
		return models.Hotel{}, err
	}
	partner, err := ensurePartner(ctx, s.db(), rc)
	if err != nil {
		return models.Hotel{}, asDomainError(err)
	}
	h.PartnerID = partner.ID
	h.OwnerUserID = partner.UserID
	id, err := repositories.HotelRepository{DB: s.db()}.CreateHotel(ctx, h)
	if err != nil {
		return models.Hotel{}, asDomainError(err)
	}
	h.ID = id
	utils.LogEvent(rc.RequestID, "catalog", "create_hotel", fmt.Sprintf("hotel_id=%d partner_id=%d", id, partner.ID))
	return h, nil
}

func (s CatalogService) UpdateHotel(ctx context.Context, rc domain.RequestContext, id int64, in HotelInput) (models.Hotel, error) {
	cur, err := s.ownedHotel(ctx, rc, id)
	if err != nil {
		return models.Hotel{}, err
	}
	h, err := hotelFromInput(in)
	if err != nil {
		return models.Hotel{}, err
	}
	h.ID, h.PartnerID, h.OwnerUserID, h.CreatedAt = cur.ID, cur.PartnerID, cur.OwnerUserID, cur.CreatedAt
	if err := (repositories.HotelRepository{DB: s.db()}).UpdateHotel(ctx, h); err != nil {
		return models.Hotel{}, asDomainError(err)
	}
	s.invalidateHotel(ctx, id)
	utils.LogEvent(rc.RequestID, "catalog", "update_hotel", fmt.Sprintf("hotel_id=%d", id))
	return h, nil
}

// DeleteHotel deactivates the hotel and all its room types.
func (s CatalogService) DeleteHotel(ctx context.Context, rc domain.RequestContext, id int64) error {
	if _, err := s.ownedHotel(ctx, rc, id); err != nil {
		return err
	}
	if err := (repositories.HotelRepository{DB: s.db()}).DeactivateHotel(ctx, id); err != nil {
		return asDomainError(err)
	}
	s.invalidateHotel(ctx, id)
	utils.LogEvent(rc.RequestID, "catalog", "delete_hotel", fmt.Sprintf("hotel_id=%d", id))
	return nil
}

func (s CatalogService) HotelStatistics(ctx context.Context, rc domain.RequestContext, hotelID int64) (models.HotelStatistics, error) {
	if _, err := s.ownedHotel(ctx, rc, hotelID); err != nil {
		return models.HotelStatistics{}, err
	}
	st, err := repositories.ReportRepository{DB: s.db()}.HotelStatistics(ctx, hotelID)
	if err != nil {
		return models.HotelStatistics{}, asDomainError(err)
	}
	return st, nil
}

func (s CatalogService) CreateRoomType(ctx context.Context, rc domain.RequestContext, hotelID int64, in RoomTypeInput) (models.RoomType, error) {
	h, err := s.ownedHotel(ctx, rc, hotelID)
	if err != nil {
		return models.RoomType{}, err
	}
	rt, err := roomTypeFromInput(in, 10)
	if err != nil {
		return models.RoomType{}, err
	}
	rt.HotelID = h.ID
	rt.OwnerUserID = h.OwnerUserID
	id, err := repositories.HotelRepository{DB: s.db()}.CreateRoomType(ctx, rt)
	if err != nil {
		return models.RoomType{}, asDomainError(err)
	}
	rt.ID = id
	s.invalidateHotel(ctx, h.ID)
	utils.LogEvent(rc.RequestID, "catalog", "create_room_type", fmt.Sprintf("room_type_id=%d hotel_id=%d", id, h.ID))
	return rt, nil
}

func (s CatalogService) ownedRoomType(ctx context.Context, rc domain.RequestContext, id int64) (models.RoomType, error) {
	rt, err := repositories.HotelRepository{DB: s.db()}.GetRoomType(ctx, id)
	if err != nil {
		return models.RoomType{}, asDomainError(notFoundOr(err, "room type"))
	}
	if err := domain.CanManageInventory(rc, domain.ID(rt.OwnerUserID)); err != nil {
		return models.RoomType{}, err
	}
	return rt, nil
}

// UpdateRoomType edits a room type under its row lock. rooms_available is
// only written when the input carries it, so bookings committed since the
// partner loaded the form are not overwritten.
func (s CatalogService) UpdateRoomType(ctx context.Context, rc domain.RequestContext, id int64, in RoomTypeInput) (models.RoomType, error) {
	cur, err := s.ownedRoomType(ctx, rc, id)
	if err != nil {
		return models.RoomType{}, err
	}
	var rt models.RoomType
	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		repo := repositories.HotelRepository{DB: tx}
		locked, err := repo.LockRoomType(ctx, id)
		if err != nil {
			return notFoundOr(err, "room type")
		}
		if rt, err = roomTypeFromInput(in, locked.RoomsAvailable); err != nil {
			return err
		}
		rt.ID, rt.HotelID, rt.OwnerUserID = cur.ID, cur.HotelID, cur.OwnerUserID
		if err := repo.UpdateRoomType(ctx, rt); err != nil {
			return err
		}
		if in.RoomsAvailable != nil && *in.RoomsAvailable != locked.RoomsAvailable {
			return repo.SetRoomsAvailable(ctx, id, *in.RoomsAvailable)
		}
		return nil
	})
	if err != nil {
		return models.RoomType{}, asDomainError(err)
	}
	s.invalidateHotel(ctx, rt.HotelID)
	utils.LogEvent(rc.RequestID, "catalog", "update_room_type", fmt.Sprintf("room_type_id=%d rooms=%d", id, rt.RoomsAvailable))
	return rt, nil
}

func (s CatalogService) DeleteRoomType(ctx context.Context, rc domain.RequestContext, id int64) error {
	rt, err := s.ownedRoomType(ctx, rc, id)
	if err != nil {
		return err
	}
	if err := (repositories.HotelRepository{DB: s.db()}).DeactivateRoomType(ctx, id); err != nil {
		return asDomainError(err)
	}
	s.invalidateHotel(ctx, rt.HotelID)
	utils.LogEvent(rc.RequestID, "catalog", "delete_room_type", fmt.Sprintf("room_type_id=%d", id))
	return nil
}

func (s CatalogService) CreateFlight(ctx context.Context, rc domain.RequestContext, in FlightInput) (models.Flight, error) {
	if err := domain.RequireRole(rc, "create flights", domain.RolePartner); err != nil {
		return models.Flight{}, err
	}
	f, err := flightFromInput(in, true)
	if err != nil {
		return models.Flight{}, err
	}
	partner, err := ensurePartner(ctx, s.db(), rc)
	if err != nil {
		return models.Flight{}, asDomainError(err)
	}
	f.PartnerID = partner.ID
	f.OwnerUserID = partner.UserID
	id, err := repositories.FlightRepository{DB: s.db()}.CreateFlight(ctx, f)
	if err != nil {
		return models.Flight{}, asDomainError(err)
	}
	f.ID = id
	utils.LogEvent(rc.RequestID, "catalog", "create_flight", fmt.Sprintf("flight_id=%d number=%s", id, f.FlightNumber))
	return f, nil
}

func (s CatalogService) ownedFlight(ctx context.Context, rc domain.RequestContext, id int64) (models.Flight, error) {
	f, err := repositories.FlightRepository{DB: s.db()}.GetFlight(ctx, id)
	if err != nil {
		return models.Flight{}, asDomainError(notFoundOr(err, "flight"))
	}
	if err := domain.CanManageInventory(rc, domain.ID(f.OwnerUserID)); err != nil {
		return models.Flight{}, err
	}
	return f, nil
}

// UpdateFlight edits a flight under its row lock. seats_available is only
// written when the input carries it, and is checked against total_seats
// from the locked row.
func (s CatalogService) UpdateFlight(ctx context.Context, rc domain.RequestContext, id int64, in FlightInput) (models.Flight, error) {
	cur, err := s.ownedFlight(ctx, rc, id)
	if err != nil {
		return models.Flight{}, err
	}
	setSeats := in.SeatsAvailable != nil
	var f models.Flight
	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		repo := repositories.FlightRepository{DB: tx}
		locked, err := repo.LockFlight(ctx, id)
		if err != nil {
			return notFoundOr(err, "flight")
		}
		if !setSeats {
			seats := locked.SeatsAvailable
			in.SeatsAvailable = &seats
		}
		if in.TotalSeats == 0 {
			in.TotalSeats = locked.TotalSeats
		}
		if f, err = flightFromInput(in, false); err != nil {
			return err
		}
		f.ID, f.PartnerID, f.OwnerUserID, f.CreatedAt = cur.ID, cur.PartnerID, cur.OwnerUserID, cur.CreatedAt
		if err := repo.UpdateFlight(ctx, f); err != nil {
			return err
		}
		if setSeats && f.SeatsAvailable != locked.SeatsAvailable {
			return repo.SetSeatsAvailable(ctx, id, f.SeatsAvailable)
		}
		return nil
	})
	if err != nil {
		return models.Flight{}, asDomainError(err)
	}
	utils.LogEvent(rc.RequestID, "catalog", "update_flight", fmt.Sprintf("flight_id=%d seats=%d", id, f.SeatsAvailable))
	return f, nil
}

func (s CatalogService) DeleteFlight(ctx context.Context, rc domain.RequestContext, id int64) error {
	if _, err := s.ownedFlight(ctx, rc, id); err != nil {
		return err
	}
	if err := (repositories.FlightRepository{DB: s.db()}).DeactivateFlight(ctx, id); err != nil {
		return asDomainError(err)
	}
	utils.LogEvent(rc.RequestID, "catalog", "delete_flight", fmt.Sprintf("flight_id=%d", id))
	return nil
}
