package models

import "time"

// Booking is a customer's reservation of rooms or seats. Exactly one of
// Hotel or Flight is set, matching BookingType.
type Booking struct {
	ID          int64     `json:"-"`
	BookingID   string    `json:"booking_id"`
	UserID      int64     `json:"user_id"`
	BookingType string    `json:"booking_type"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"total_amount"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Hotel   *HotelBookingDetail  `json:"hotel_details,omitempty"`
	Flight  *FlightBookingDetail `json:"flight_details,omitempty"`
	Payment *PaymentSummary      `json:"payment,omitempty"`
}

type HotelBookingDetail struct {
	HotelID        int64     `json:"hotel_id"`
	HotelName      string    `json:"hotel_name"`
	RoomTypeID     int64     `json:"room_type_id"`
	RoomTypeName   string    `json:"room_type_name"`
	CheckInDate    time.Time `json:"check_in_date"`
	CheckOutDate   time.Time `json:"check_out_date"`
	NumberOfRooms  int       `json:"number_of_rooms"`
	NumberOfGuests int       `json:"number_of_guests"`
	PricePerNight  int64     `json:"price_per_night"`
	NumberOfNights int       `json:"number_of_nights"`
}

// FlightBookingDetail keeps its passenger list inline on the detail row.
type FlightBookingDetail struct {
	FlightID           int64       `json:"flight_id"`
	FlightNumber       string      `json:"flight_number"`
	Origin             string      `json:"origin"`
	Destination        string      `json:"destination"`
	DepartureTime      time.Time   `json:"departure_time"`
	NumberOfPassengers int         `json:"number_of_passengers"`
	PricePerSeat       int64       `json:"price_per_seat"`
	Passengers         []Passenger `json:"passengers"`
}

type Passenger struct {
	Title          string `json:"title" binding:"required,passenger_title"`
	FirstName      string `json:"first_name" binding:"required,max=100"`
	LastName       string `json:"last_name" binding:"required,max=100"`
	DateOfBirth    string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	PassportNumber string `json:"passport_number,omitempty" binding:"omitempty,max=20"`
}

func (p Passenger) FullName() string {
	return p.Title + " " + p.FirstName + " " + p.LastName
}

// PaymentSummary is the booking-side view of its 1:1 payment.
type PaymentSummary struct {
	PaymentID     string `json:"payment_id"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

// InventoryDelta is the counter change a booking applies to its room type
// or flight. Creating a booking applies -Quantity, releasing it +Quantity.
type InventoryDelta struct {
	BookingType string
	TargetID    int64
	Quantity    int
}
