package repositories

import (
	"context"
	"fmt"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain/models"
)

type HotelRepository struct {
	DB intdb.DBTX
}

func (r HotelRepository) db() intdb.DBTX { return pick(r.DB) }

const hotelSelect = `
	SELECT h.id, h.partner_id, h.name, h.city,
	       COALESCE(h.address,''), COALESCE(h.description,''),
	       h.star_rating, COALESCE(h.amenities,''),
	       h.check_in_time, h.check_out_time,
	       COALESCE(h.email,''), COALESCE(h.phone,''),
	       h.is_active, h.created_at, h.updated_at, p.user_id
	FROM hotels h
	JOIN partners p ON p.id = h.partner_id`

func scanHotel(s rowScanner) (models.Hotel, error) {
	var h models.Hotel
	err := s.Scan(
		&h.ID, &h.PartnerID, &h.Name, &h.City,
		&h.Address, &h.Description,
		&h.StarRating, &h.Amenities,
		&h.CheckInTime, &h.CheckOutTime,
		&h.Email, &h.Phone,
		&h.IsActive, &h.CreatedAt, &h.UpdatedAt, &h.OwnerUserID,
	)
	return h, err
}

func (r HotelRepository) GetHotel(ctx context.Context, id int64) (models.Hotel, error) {
	if id <= 0 {
		return models.Hotel{}, fmt.Errorf("invalid hotel id")
	}
	return scanHotel(r.db().QueryRowContext(ctx, hotelSelect+` WHERE h.id = ? LIMIT 1`, id))
}

func (r HotelRepository) ListByPartner(ctx context.Context, partnerID int64) ([]models.Hotel, error) {
	rows, err := r.db().QueryContext(ctx, hotelSelect+` WHERE h.partner_id = ? ORDER BY h.name`, partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r HotelRepository) CreateHotel(ctx context.Context, h models.Hotel) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO hotels (partner_id, name, city, address, description, star_rating, amenities,
		                    check_in_time, check_out_time, email, phone, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, NOW(), NOW())`,
		h.PartnerID, h.Name, h.City,
		intdb.NullIfEmpty(h.Address), intdb.NullIfEmpty(h.Description),
		h.StarRating, intdb.NullIfEmpty(h.Amenities),
		h.CheckInTime, h.CheckOutTime,
		intdb.NullIfEmpty(h.Email), intdb.NullIfEmpty(h.Phone),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r HotelRepository) UpdateHotel(ctx context.Context, h models.Hotel) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE hotels
		SET name=?, city=?, address=?, description=?, star_rating=?, amenities=?,
		    check_in_time=?, check_out_time=?, email=?, phone=?, is_active=?, updated_at=NOW()
		WHERE id=?`,
		h.Name, h.City,
		intdb.NullIfEmpty(h.Address), intdb.NullIfEmpty(h.Description),
		h.StarRating, intdb.NullIfEmpty(h.Amenities),
		h.CheckInTime, h.CheckOutTime,
		intdb.NullIfEmpty(h.Email), intdb.NullIfEmpty(h.Phone),
		boolToInt(h.IsActive), h.ID,
	)
	return err
}

// DeactivateHotel soft-deletes a hotel and its room types.
func (r HotelRepository) DeactivateHotel(ctx context.Context, id int64) error {
	if _, err := r.db().ExecContext(ctx, `UPDATE hotels SET is_active=0, updated_at=NOW() WHERE id=?`, id); err != nil {
		return err
	}
	_, err := r.db().ExecContext(ctx, `UPDATE room_types SET is_active=0 WHERE hotel_id=?`, id)
	return err
}

const roomTypeSelect = `
	SELECT rt.id, rt.hotel_id, rt.name, COALESCE(rt.description,''),
	       rt.price_per_night, rt.max_occupancy, rt.rooms_available,
	       COALESCE(rt.room_size,''), COALESCE(rt.bed_type,''), COALESCE(rt.amenities,''),
	       rt.is_active, p.user_id
	FROM room_types rt
	JOIN hotels h ON h.id = rt.hotel_id
	JOIN partners p ON p.id = h.partner_id`

func scanRoomType(s rowScanner) (models.RoomType, error) {
	var rt models.RoomType
	err := s.Scan(
		&rt.ID, &rt.HotelID, &rt.Name, &rt.Description,
		&rt.PricePerNight, &rt.MaxOccupancy, &rt.RoomsAvailable,
		&rt.RoomSize, &rt.BedType, &rt.Amenities,
		&rt.IsActive, &rt.OwnerUserID,
	)
	return rt, err
}

func (r HotelRepository) GetRoomType(ctx context.Context, id int64) (models.RoomType, error) {
	if id <= 0 {
		return models.RoomType{}, fmt.Errorf("invalid room type id")
	}
	return scanRoomType(r.db().QueryRowContext(ctx, roomTypeSelect+` WHERE rt.id = ? LIMIT 1`, id))
}

func (r HotelRepository) ListRoomTypes(ctx context.Context, hotelID int64, activeOnly bool) ([]models.RoomType, error) {
	q := roomTypeSelect + ` WHERE rt.hotel_id = ?`
	if activeOnly {
		q += ` AND rt.is_active = 1`
	}
	q += ` ORDER BY rt.price_per_night`

	rows, err := r.db().QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RoomType{}
	for rows.Next() {
		rt, err := scanRoomType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// RoomCounters returns rooms_available per room type of a hotel.
func (r HotelRepository) RoomCounters(ctx context.Context, hotelID int64) (map[int64]int, error) {
	rows, err := r.db().QueryContext(ctx, `SELECT id, rooms_available FROM room_types WHERE hotel_id = ?`, hotelID)
	if err != nil {
		return nil, err
	}
	return scanCounters(rows)
}

// LockRoomType reads the room type row with an exclusive row lock. It must
// run inside a transaction; the lock is held until commit or rollback.
func (r HotelRepository) LockRoomType(ctx context.Context, id int64) (models.RoomType, error) {
	var rt models.RoomType
	err := r.db().QueryRowContext(ctx, `
		SELECT id, hotel_id, name, price_per_night, max_occupancy, rooms_available, is_active
		FROM room_types
		WHERE id = ?
		FOR UPDATE`, id).Scan(
		&rt.ID, &rt.HotelID, &rt.Name, &rt.PricePerNight, &rt.MaxOccupancy, &rt.RoomsAvailable, &rt.IsActive,
	)
	return rt, err
}

// ReserveRooms decrements rooms_available, refusing to go below zero.
func (r HotelRepository) ReserveRooms(ctx context.Context, roomTypeID int64, rooms int) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE room_types
		SET rooms_available = rooms_available - ?
		WHERE id = ? AND rooms_available >= ?`, rooms, roomTypeID, rooms)
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

func (r HotelRepository) ReleaseRooms(ctx context.Context, roomTypeID int64, rooms int) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE room_types
		SET rooms_available = rooms_available + ?
		WHERE id = ?`, rooms, roomTypeID)
	return err
}

func (r HotelRepository) CreateRoomType(ctx context.Context, rt models.RoomType) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO room_types (hotel_id, name, description, price_per_night, max_occupancy,
		                        rooms_available, room_size, bed_type, amenities, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		rt.HotelID, rt.Name, intdb.NullIfEmpty(rt.Description),
		rt.PricePerNight, rt.MaxOccupancy, rt.RoomsAvailable,
		intdb.NullIfEmpty(rt.RoomSize), intdb.NullIfEmpty(rt.BedType), intdb.NullIfEmpty(rt.Amenities),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateRoomType writes the descriptive columns. rooms_available is left
// alone; see SetRoomsAvailable.
func (r HotelRepository) UpdateRoomType(ctx context.Context, rt models.RoomType) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE room_types
		SET name=?, description=?, price_per_night=?, max_occupancy=?,
		    room_size=?, bed_type=?, amenities=?, is_active=?
		WHERE id=?`,
		rt.Name, intdb.NullIfEmpty(rt.Description),
		rt.PricePerNight, rt.MaxOccupancy,
		intdb.NullIfEmpty(rt.RoomSize), intdb.NullIfEmpty(rt.BedType), intdb.NullIfEmpty(rt.Amenities),
		boolToInt(rt.IsActive), rt.ID,
	)
	return err
}

// SetRoomsAvailable overwrites the counter. Callers hold the row lock from
// LockRoomType in the same transaction.
func (r HotelRepository) SetRoomsAvailable(ctx context.Context, roomTypeID int64, rooms int) error {
	_, err := r.db().ExecContext(ctx, `UPDATE room_types SET rooms_available=? WHERE id=?`, rooms, roomTypeID)
	return err
}

func (r HotelRepository) DeactivateRoomType(ctx context.Context, id int64) error {
	_, err := r.db().ExecContext(ctx, `UPDATE room_types SET is_active=0 WHERE id=?`, id)
	return err
}
