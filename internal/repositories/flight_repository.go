package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain/models"
)

type FlightRepository struct {
	DB intdb.DBTX
}

func (r FlightRepository) db() intdb.DBTX { return pick(r.DB) }

const flightSelect = `
	SELECT f.id, f.partner_id, f.flight_number, f.origin, f.destination,
	       f.departure_time, f.arrival_time, f.price,
	       f.seats_available, f.total_seats,
	       COALESCE(f.aircraft_type,''), f.class_type, f.is_active,
	       f.created_at, f.updated_at, p.user_id
	FROM flights f
	JOIN partners p ON p.id = f.partner_id`

func scanFlight(s rowScanner) (models.Flight, error) {
	var f models.Flight
	err := s.Scan(
		&f.ID, &f.PartnerID, &f.FlightNumber, &f.Origin, &f.Destination,
		&f.DepartureTime, &f.ArrivalTime, &f.Price,
		&f.SeatsAvailable, &f.TotalSeats,
		&f.AircraftType, &f.ClassType, &f.IsActive,
		&f.CreatedAt, &f.UpdatedAt, &f.OwnerUserID,
	)
	return f, err
}

func (r FlightRepository) GetFlight(ctx context.Context, id int64) (models.Flight, error) {
	if id <= 0 {
		return models.Flight{}, fmt.Errorf("invalid flight id")
	}
	return scanFlight(r.db().QueryRowContext(ctx, flightSelect+` WHERE f.id = ? LIMIT 1`, id))
}

func (r FlightRepository) ListByPartner(ctx context.Context, partnerID int64) ([]models.Flight, error) {
	return r.list(ctx, flightSelect+` WHERE f.partner_id = ? ORDER BY f.departure_time`, partnerID)
}

// FlightSearch filters active flights departing after Now.
type FlightSearch struct {
	Origin        string
	Destination   string
	DepartureDate *time.Time
	Now           time.Time
}

func (r FlightRepository) Search(ctx context.Context, f FlightSearch) ([]models.Flight, error) {
	where := []string{"f.is_active = 1", "f.departure_time >= ?"}
	args := []any{f.Now}
	if s := strings.TrimSpace(f.Origin); s != "" {
		where = append(where, "f.origin LIKE ?")
		args = append(args, "%"+s+"%")
	}
	if s := strings.TrimSpace(f.Destination); s != "" {
		where = append(where, "f.destination LIKE ?")
		args = append(args, "%"+s+"%")
	}
	if f.DepartureDate != nil {
		where = append(where, "DATE(f.departure_time) = ?")
		args = append(args, f.DepartureDate.Format("2006-01-02"))
	}
	q := flightSelect + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY f.departure_time`
	return r.list(ctx, q, args...)
}

func (r FlightRepository) list(ctx context.Context, q string, args ...any) ([]models.Flight, error) {
	rows, err := r.db().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Flight{}
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// SeatCounters returns seats_available for the given flights.
func (r FlightRepository) SeatCounters(ctx context.Context, ids []int64) (map[int64]int, error) {
	if len(ids) == 0 {
		return map[int64]int{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := `SELECT id, seats_available FROM flights WHERE id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`
	rows, err := r.db().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanCounters(rows)
}

// LockFlight reads the flight row with an exclusive row lock (inside a tx).
func (r FlightRepository) LockFlight(ctx context.Context, id int64) (models.Flight, error) {
	var f models.Flight
	err := r.db().QueryRowContext(ctx, `
		SELECT id, partner_id, flight_number, departure_time, arrival_time, price,
		       seats_available, total_seats, is_active
		FROM flights
		WHERE id = ?
		FOR UPDATE`, id).Scan(
		&f.ID, &f.PartnerID, &f.FlightNumber, &f.DepartureTime, &f.ArrivalTime, &f.Price,
		&f.SeatsAvailable, &f.TotalSeats, &f.IsActive,
	)
	return f, err
}

// ReserveSeats decrements seats_available, refusing to go below zero.
func (r FlightRepository) ReserveSeats(ctx context.Context, flightID int64, seats int) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE flights
		SET seats_available = seats_available - ?
		WHERE id = ? AND seats_available >= ?`, seats, flightID, seats)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n != 1 {
		return ErrInsufficientInventory
	}
	return nil
}

// ReleaseSeats returns seats, never exceeding total_seats.
func (r FlightRepository) ReleaseSeats(ctx context.Context, flightID int64, seats int) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE flights
		SET seats_available = LEAST(total_seats, seats_available + ?)
		WHERE id = ?`, seats, flightID)
	return err
}

func (r FlightRepository) CreateFlight(ctx context.Context, f models.Flight) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO flights (partner_id, flight_number, origin, destination, departure_time, arrival_time,
		                     price, seats_available, total_seats, aircraft_type, class_type, is_active,
		                     created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, NOW(), NOW())`,
		f.PartnerID, f.FlightNumber, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime,
		f.Price, f.SeatsAvailable, f.TotalSeats, intdb.NullIfEmpty(f.AircraftType), f.ClassType,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateFlight leaves seats_available alone; see SetSeatsAvailable.
func (r FlightRepository) UpdateFlight(ctx context.Context, f models.Flight) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE flights
		SET flight_number=?, origin=?, destination=?, departure_time=?, arrival_time=?, price=?,
		    total_seats=?, aircraft_type=?, class_type=?, is_active=?, updated_at=NOW()
		WHERE id=?`,
		f.FlightNumber, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime, f.Price,
		f.TotalSeats, intdb.NullIfEmpty(f.AircraftType), f.ClassType,
		boolToInt(f.IsActive), f.ID,
	)
	return err
}

// SetSeatsAvailable overwrites the counter under the lock from LockFlight.
func (r FlightRepository) SetSeatsAvailable(ctx context.Context, flightID int64, seats int) error {
	_, err := r.db().ExecContext(ctx, `UPDATE flights SET seats_available=?, updated_at=NOW() WHERE id=?`, seats, flightID)
	return err
}

func (r FlightRepository) DeactivateFlight(ctx context.Context, id int64) error {
	_, err := r.db().ExecContext(ctx, `UPDATE flights SET is_active=0, updated_at=NOW() WHERE id=?`, id)
	return err
}
