package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Tables in dependency order. Money columns hold minor units.
var schema = []struct {
	Table string
	DDL   string
}{
	{"users", `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	username VARCHAR(150) NOT NULL,
	email VARCHAR(254) NOT NULL,
	phone VARCHAR(15) NULL,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'customer',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_username (username),
	UNIQUE KEY uniq_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"partners", `
CREATE TABLE IF NOT EXISTS partners (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	name VARCHAR(200) NOT NULL,
	partner_type VARCHAR(20) NOT NULL DEFAULT 'both',
	description TEXT NULL,
	website VARCHAR(200) NULL,
	contact_email VARCHAR(254) NULL,
	contact_phone VARCHAR(20) NULL,
	is_verified TINYINT(1) NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_partner_user (user_id),
	CONSTRAINT fk_partner_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"hotels", `
CREATE TABLE IF NOT EXISTS hotels (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	partner_id BIGINT NOT NULL,
	name VARCHAR(200) NOT NULL,
	city VARCHAR(100) NOT NULL,
	address TEXT NULL,
	description TEXT NULL,
	star_rating INT NOT NULL DEFAULT 3,
	amenities TEXT NULL,
	check_in_time VARCHAR(5) NOT NULL DEFAULT '14:00',
	check_out_time VARCHAR(5) NOT NULL DEFAULT '12:00',
	email VARCHAR(254) NULL,
	phone VARCHAR(20) NULL,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_hotel_city (city),
	CONSTRAINT chk_star_rating CHECK (star_rating BETWEEN 1 AND 5),
	CONSTRAINT fk_hotel_partner FOREIGN KEY (partner_id) REFERENCES partners(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"room_types", `
CREATE TABLE IF NOT EXISTS room_types (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	hotel_id BIGINT NOT NULL,
	name VARCHAR(100) NOT NULL,
	description TEXT NULL,
	price_per_night BIGINT NOT NULL,
	max_occupancy INT NOT NULL DEFAULT 2,
	rooms_available INT NOT NULL DEFAULT 10,
	room_size VARCHAR(50) NULL,
	bed_type VARCHAR(50) NULL,
	amenities TEXT NULL,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	CONSTRAINT chk_rooms_available CHECK (rooms_available >= 0),
	CONSTRAINT fk_room_hotel FOREIGN KEY (hotel_id) REFERENCES hotels(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"flights", `
CREATE TABLE IF NOT EXISTS flights (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	partner_id BIGINT NOT NULL,
	flight_number VARCHAR(20) NOT NULL,
	origin VARCHAR(100) NOT NULL,
	destination VARCHAR(100) NOT NULL,
	departure_time DATETIME NOT NULL,
	arrival_time DATETIME NOT NULL,
	price BIGINT NOT NULL,
	seats_available INT NOT NULL DEFAULT 150,
	total_seats INT NOT NULL DEFAULT 150,
	aircraft_type VARCHAR(50) NULL,
	class_type VARCHAR(20) NOT NULL DEFAULT 'Economy',
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_flight_number (flight_number),
	KEY idx_flight_route (origin, destination, departure_time),
	CONSTRAINT chk_seats CHECK (seats_available >= 0 AND seats_available <= total_seats AND total_seats >= 1),
	CONSTRAINT chk_flight_times CHECK (departure_time < arrival_time),
	CONSTRAINT fk_flight_partner FOREIGN KEY (partner_id) REFERENCES partners(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"bookings", `
CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id CHAR(36) NOT NULL,
	user_id BIGINT NOT NULL,
	booking_type VARCHAR(10) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	total_amount BIGINT NOT NULL DEFAULT 0,
	notes TEXT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_booking_uuid (booking_id),
	KEY idx_booking_user (user_id, created_at),
	CONSTRAINT chk_total_amount CHECK (total_amount >= 0),
	CONSTRAINT fk_booking_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"hotel_booking_details", `
CREATE TABLE IF NOT EXISTS hotel_booking_details (
	booking_id BIGINT PRIMARY KEY,
	hotel_id BIGINT NOT NULL,
	room_type_id BIGINT NOT NULL,
	check_in_date DATE NOT NULL,
	check_out_date DATE NOT NULL,
	number_of_rooms INT NOT NULL DEFAULT 1,
	number_of_guests INT NOT NULL DEFAULT 1,
	price_per_night BIGINT NOT NULL,
	number_of_nights INT NOT NULL,
	KEY idx_hbd_room_dates (room_type_id, check_in_date, check_out_date),
	CONSTRAINT chk_stay CHECK (check_in_date < check_out_date),
	CONSTRAINT fk_hbd_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE,
	CONSTRAINT fk_hbd_hotel FOREIGN KEY (hotel_id) REFERENCES hotels(id),
	CONSTRAINT fk_hbd_room FOREIGN KEY (room_type_id) REFERENCES room_types(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"flight_booking_details", `
CREATE TABLE IF NOT EXISTS flight_booking_details (
	booking_id BIGINT PRIMARY KEY,
	flight_id BIGINT NOT NULL,
	number_of_passengers INT NOT NULL DEFAULT 1,
	price_per_seat BIGINT NOT NULL,
	passengers JSON NOT NULL,
	KEY idx_fbd_flight (flight_id),
	CONSTRAINT fk_fbd_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE,
	CONSTRAINT fk_fbd_flight FOREIGN KEY (flight_id) REFERENCES flights(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"payments", `
CREATE TABLE IF NOT EXISTS payments (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	payment_id CHAR(36) NOT NULL,
	booking_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	amount BIGINT NOT NULL,
	payment_method VARCHAR(20) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	transaction_id VARCHAR(100) NOT NULL,
	card_type VARCHAR(20) NULL,
	card_last_four VARCHAR(4) NULL,
	card_holder_name VARCHAR(100) NULL,
	bank_name VARCHAR(100) NULL,
	account_number VARCHAR(50) NULL,
	paypal_email VARCHAR(254) NULL,
	payment_date DATETIME NULL,
	failure_reason TEXT NULL,
	notes TEXT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_payment_uuid (payment_id),
	UNIQUE KEY uniq_payment_booking (booking_id),
	UNIQUE KEY uniq_transaction (transaction_id),
	KEY idx_payment_user (user_id, created_at),
	CONSTRAINT fk_payment_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"payment_receipts", `
CREATE TABLE IF NOT EXISTS payment_receipts (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	receipt_id CHAR(36) NOT NULL,
	payment_id BIGINT NOT NULL,
	generated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	downloaded_count INT NOT NULL DEFAULT 0,
	UNIQUE KEY uniq_receipt_uuid (receipt_id),
	UNIQUE KEY uniq_receipt_payment (payment_id),
	CONSTRAINT fk_receipt_payment FOREIGN KEY (payment_id) REFERENCES payments(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
}

// EnsureSchema creates any missing table.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, t := range schema {
		if _, err := db.ExecContext(ctx, t.DDL); err != nil {
			return fmt.Errorf("create table %s: %w", t.Table, err)
		}
	}
	return nil
}
