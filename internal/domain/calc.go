package domain

import "time"

// DateRange is a half-open stay interval [CheckIn, CheckOut).
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Overlaps reports whether two stays share at least one night. A check-out
// on the same day as the other's check-in is not an overlap.
func (r DateRange) Overlaps(q DateRange) bool {
	return r.CheckIn.Before(q.CheckOut) && r.CheckOut.After(q.CheckIn)
}

// Nights counts whole calendar days between check-in and check-out.
func (r DateRange) Nights() int {
	in := truncateDay(r.CheckIn)
	out := truncateDay(r.CheckOut)
	return int(out.Sub(in).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// HotelTotal = price_per_night * nights * rooms, in minor units.
func HotelTotal(pricePerNight int64, nights, rooms int) int64 {
	return pricePerNight * int64(nights) * int64(rooms)
}

// FlightTotal = price * passengers, in minor units.
func FlightTotal(price int64, passengers int) int64 {
	return price * int64(passengers)
}

// MaxGuests is the occupancy cap for a number of rooms of one room type.
func MaxGuests(maxOccupancy, rooms int) int {
	return maxOccupancy * rooms
}
