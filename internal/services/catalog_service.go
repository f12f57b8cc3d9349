package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"travelbooking/internal/cache"
	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/metrics"
	"travelbooking/internal/repositories"
	"travelbooking/internal/utils"
)

// CatalogService serves the public hotel and flight catalog and lets
// partners manage what they own. Search and hotel detail reads go through
// the redis cache when one is configured; inventory counters in a cached
// payload are always re-read from the database.
type CatalogService struct {
	DB      *sql.DB
	Cache   *cache.Cache
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// HotelDetail is a hotel with its active room types.
type HotelDetail struct {
	Hotel     models.Hotel      `json:"hotel"`
	RoomTypes []models.RoomType `json:"room_types"`
}

func (s CatalogService) db() *sql.DB               { return pickDB(s.DB) }
func (s CatalogService) metrics() *metrics.Metrics { return pickMetrics(s.Metrics) }
func (s CatalogService) now() time.Time            { return pickNow(s.Now) }

func hotelCacheKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

func (s CatalogService) cached(ctx context.Context, key string, dst any) bool {
	ok, err := s.Cache.GetJSON(ctx, key, dst)
	if err != nil {
		utils.LogError("", "catalog", "cache_get", err)
		s.metrics().CacheLookups.WithLabelValues("error").Inc()
		return false
	}
	if ok {
		s.metrics().CacheLookups.WithLabelValues("hit").Inc()
	} else {
		s.metrics().CacheLookups.WithLabelValues("miss").Inc()
	}
	return ok
}

func (s CatalogService) store(ctx context.Context, key string, v any) {
	if err := s.Cache.SetJSON(ctx, key, v); err != nil {
		utils.LogError("", "catalog", "cache_set", err)
	}
}

// SearchHotels lists active hotels by city and nightly price range,
// best rated first.
func (s CatalogService) SearchHotels(ctx context.Context, q repositories.HotelSearch) ([]models.HotelSearchResult, error) {
	if q.MinPrice < 0 || q.MaxPrice < 0 {
		return nil, domain.ValidationError{Field: "price", Msg: "price filters must not be negative"}
	}
	if q.MaxPrice > 0 && q.MinPrice > q.MaxPrice {
		return nil, domain.ValidationError{Field: "min_price", Msg: "min_price must not exceed max_price"}
	}
	q.City = utils.NormalizeSpace(q.City)
	key := fmt.Sprintf("hotels:search:%s:%d:%d", strings.ToLower(q.City), q.MinPrice, q.MaxPrice)

	var out []models.HotelSearchResult
	if s.cached(ctx, key, &out) {
		return out, nil
	}
	out, err := repositories.ReportRepository{DB: s.db()}.SearchHotels(ctx, q)
	if err != nil {
		return nil, asDomainError(err)
	}
	s.store(ctx, key, out)
	return out, nil
}

func (s CatalogService) GetHotel(ctx context.Context, id int64) (HotelDetail, error) {
	if id <= 0 {
		return HotelDetail{}, domain.ValidationError{Field: "id", Msg: "invalid hotel id"}
	}
	var out HotelDetail
	if s.cached(ctx, hotelCacheKey(id), &out) {
		counters, err := repositories.HotelRepository{DB: s.db()}.RoomCounters(ctx, id)
		if err != nil {
			return HotelDetail{}, asDomainError(err)
		}
		for i := range out.RoomTypes {
			if n, ok := counters[out.RoomTypes[i].ID]; ok {
				out.RoomTypes[i].RoomsAvailable = n
			}
		}
		return out, nil
	}
	repo := repositories.HotelRepository{DB: s.db()}
	h, err := repo.GetHotel(ctx, id)
	if err != nil {
		return HotelDetail{}, asDomainError(notFoundOr(err, "hotel"))
	}
	if !h.IsActive {
		return HotelDetail{}, domain.NotFoundError{Resource: "hotel"}
	}
	rooms, err := repo.ListRoomTypes(ctx, id, true)
	if err != nil {
		return HotelDetail{}, asDomainError(err)
	}
	out = HotelDetail{Hotel: h, RoomTypes: rooms}
	s.store(ctx, hotelCacheKey(id), out)
	return out, nil
}

func parseStay(checkIn, checkOut string) (domain.DateRange, error) {
	in, err := utils.ParseDate(checkIn)
	if err != nil {
		return domain.DateRange{}, domain.ValidationError{Field: "check_in", Msg: "must be YYYY-MM-DD", Err: err}
	}
	out, err := utils.ParseDate(checkOut)
	if err != nil {
		return domain.DateRange{}, domain.ValidationError{Field: "check_out", Msg: "must be YYYY-MM-DD", Err: err}
	}
	if !in.Before(out) {
		return domain.DateRange{}, domain.ValidationError{Field: "check_out", Msg: "check-out date must be after check-in date"}
	}
	return domain.DateRange{CheckIn: in, CheckOut: out}, nil
}

// HotelAvailability lists the hotel's room types that still have rooms for
// the whole stay.
func (s CatalogService) HotelAvailability(ctx context.Context, hotelID int64, checkIn, checkOut string) ([]models.RoomAvailability, error) {
	stay, err := parseStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if _, err := (repositories.HotelRepository{DB: s.db()}).GetHotel(ctx, hotelID); err != nil {
		return nil, asDomainError(notFoundOr(err, "hotel"))
	}
	out, err := repositories.ReportRepository{DB: s.db()}.AvailableRooms(ctx, hotelID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return nil, asDomainError(err)
	}
	return out, nil
}

// RoomTypeAvailability is rooms_available minus rooms held by pending or
// confirmed bookings overlapping the stay.
func (s CatalogService) RoomTypeAvailability(ctx context.Context, roomTypeID int64, checkIn, checkOut string) (models.RoomAvailability, error) {
	stay, err := parseStay(checkIn, checkOut)
	if err != nil {
		return models.RoomAvailability{}, err
	}
	rt, err := repositories.HotelRepository{DB: s.db()}.GetRoomType(ctx, roomTypeID)
	if err != nil {
		return models.RoomAvailability{}, asDomainError(notFoundOr(err, "room type"))
	}
	booked, err := repositories.ReportRepository{DB: s.db()}.BookedRooms(ctx, roomTypeID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return models.RoomAvailability{}, asDomainError(err)
	}
	return models.RoomAvailability{
		RoomTypeID:     rt.ID,
		Name:           rt.Name,
		PricePerNight:  rt.PricePerNight,
		MaxOccupancy:   rt.MaxOccupancy,
		RoomsAvailable: rt.RoomsAvailable,
		BookedRooms:    booked,
		TrueAvailable:  rt.RoomsAvailable - booked,
	}, nil
}

// SearchFlights lists active flights that have not departed yet.
func (s CatalogService) SearchFlights(ctx context.Context, origin, destination, departureDate string) ([]models.Flight, error) {
	q := repositories.FlightSearch{
		Origin:      utils.NormalizeSpace(origin),
		Destination: utils.NormalizeSpace(destination),
		Now:         s.now(),
	}
	if strings.TrimSpace(departureDate) != "" {
		d, err := utils.ParseDate(departureDate)
		if err != nil {
			return nil, domain.ValidationError{Field: "departure_date", Msg: "must be YYYY-MM-DD", Err: err}
		}
		q.DepartureDate = &d
	}
	key := fmt.Sprintf("flights:search:%s:%s:%s", strings.ToLower(q.Origin), strings.ToLower(q.Destination),
		strings.TrimSpace(departureDate))

	var out []models.Flight
	if s.cached(ctx, key, &out) {
		ids := make([]int64, len(out))
		for i, f := range out {
			ids[i] = f.ID
		}
		counters, err := repositories.FlightRepository{DB: s.db()}.SeatCounters(ctx, ids)
		if err != nil {
			return nil, asDomainError(err)
		}
		for i := range out {
			if n, ok := counters[out[i].ID]; ok {
				out[i].SeatsAvailable = n
			}
		}
		return out, nil
	}
	out, err := repositories.FlightRepository{DB: s.db()}.Search(ctx, q)
	if err != nil {
		return nil, asDomainError(err)
	}
	s.store(ctx, key, out)
	return out, nil
}

func (s CatalogService) GetFlight(ctx context.Context, id int64) (models.Flight, error) {
	if id <= 0 {
		return models.Flight{}, domain.ValidationError{Field: "id", Msg: "invalid flight id"}
	}
	f, err := repositories.FlightRepository{DB: s.db()}.GetFlight(ctx, id)
	if err != nil {
		return models.Flight{}, asDomainError(notFoundOr(err, "flight"))
	}
	if !f.IsActive {
		return models.Flight{}, domain.NotFoundError{Resource: "flight"}
	}
	return f, nil
}
