package models

import "time"

// Partner is the inventory-owning business attached 1:1 to a partner user.
type Partner struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	PartnerType  string    `json:"partner_type"`
	Description  string    `json:"description"`
	Website      string    `json:"website"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Hotel struct {
	ID           int64     `json:"id"`
	PartnerID    int64     `json:"partner_id"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	Address      string    `json:"address"`
	Description  string    `json:"description"`
	StarRating   int       `json:"star_rating"`
	Amenities    string    `json:"amenities"`
	CheckInTime  string    `json:"check_in_time"`
	CheckOutTime string    `json:"check_out_time"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// OwnerUserID is the user behind the hotel's partner, used by policy checks.
	OwnerUserID int64 `json:"-"`
}

// RoomType holds the rooms_available inventory counter.
type RoomType struct {
	ID             int64  `json:"id"`
	HotelID        int64  `json:"hotel_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PricePerNight  int64  `json:"price_per_night"`
	MaxOccupancy   int    `json:"max_occupancy"`
	RoomsAvailable int    `json:"rooms_available"`
	RoomSize       string `json:"room_size"`
	BedType        string `json:"bed_type"`
	Amenities      string `json:"amenities"`
	IsActive       bool   `json:"is_active"`

	OwnerUserID int64 `json:"-"`
}

// Flight holds the seats_available inventory counter.
type Flight struct {
	ID             int64     `json:"id"`
	PartnerID      int64     `json:"partner_id"`
	FlightNumber   string    `json:"flight_number"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Price          int64     `json:"price"`
	SeatsAvailable int       `json:"seats_available"`
	TotalSeats     int       `json:"total_seats"`
	AircraftType   string    `json:"aircraft_type"`
	ClassType      string    `json:"class_type"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	OwnerUserID int64 `json:"-"`
}

// Duration is arrival minus departure.
func (f Flight) Duration() time.Duration {
	return f.ArrivalTime.Sub(f.DepartureTime)
}

// HotelSearchResult is one row of the hotel search query.
type HotelSearchResult struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	City          string `json:"city"`
	StarRating    int    `json:"star_rating"`
	MinPrice      int64  `json:"min_price"`
	MaxPrice      int64  `json:"max_price"`
	RoomTypeCount int    `json:"room_type_count"`
}

// RoomAvailability is a room type with its date-range availability.
type RoomAvailability struct {
	RoomTypeID     int64  `json:"room_type_id"`
	Name           string `json:"name"`
	PricePerNight  int64  `json:"price_per_night"`
	MaxOccupancy   int    `json:"max_occupancy"`
	RoomsAvailable int    `json:"rooms_available"`
	BookedRooms    int    `json:"booked_rooms"`
	TrueAvailable  int    `json:"true_available"`
}
