package services

import (
	"context"
	"database/sql"
	"fmt"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/metrics"
	"travelbooking/internal/repositories"
)

// inventoryDelta maps a booking to the counter it holds.
func inventoryDelta(b models.Booking) (models.InventoryDelta, error) {
	switch b.BookingType {
	case domain.BookingTypeHotel:
		if b.Hotel == nil {
			return models.InventoryDelta{}, fmt.Errorf("booking %s has no hotel detail", b.BookingID)
		}
		return models.InventoryDelta{BookingType: b.BookingType, TargetID: b.Hotel.RoomTypeID, Quantity: b.Hotel.NumberOfRooms}, nil
	case domain.BookingTypeFlight:
		if b.Flight == nil {
			return models.InventoryDelta{}, fmt.Errorf("booking %s has no flight detail", b.BookingID)
		}
		return models.InventoryDelta{BookingType: b.BookingType, TargetID: b.Flight.FlightID, Quantity: b.Flight.NumberOfPassengers}, nil
	}
	return models.InventoryDelta{}, fmt.Errorf("unknown booking type %q", b.BookingType)
}

// restoreInventory gives a booking's rooms or seats back. It is the only
// place that releases inventory and is shared by cancel and refund. The
// counter row is locked before it is changed.
func restoreInventory(ctx context.Context, tx *sql.Tx, b models.Booking, m *metrics.Metrics) error {
	d, err := inventoryDelta(b)
	if err != nil {
		return err
	}
	switch d.BookingType {
	case domain.BookingTypeHotel:
		repo := repositories.HotelRepository{DB: tx}
		if _, err := repo.LockRoomType(ctx, d.TargetID); err != nil {
			return fmt.Errorf("lock room type %d: %w", d.TargetID, err)
		}
		if err := repo.ReleaseRooms(ctx, d.TargetID, d.Quantity); err != nil {
			return fmt.Errorf("release rooms: %w", err)
		}
	case domain.BookingTypeFlight:
		repo := repositories.FlightRepository{DB: tx}
		if _, err := repo.LockFlight(ctx, d.TargetID); err != nil {
			return fmt.Errorf("lock flight %d: %w", d.TargetID, err)
		}
		if err := repo.ReleaseSeats(ctx, d.TargetID, d.Quantity); err != nil {
			return fmt.Errorf("release seats: %w", err)
		}
	}
	if m != nil {
		m.InventoryReleased.WithLabelValues(d.BookingType).Add(float64(d.Quantity))
	}
	return nil
}
