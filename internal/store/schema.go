package store

import (
	"database/sql"

	intdb "backend/internal/db"
)

// MySQL schema for the four collections. Identifiers are UUID strings so
// both store implementations hand out the same kind of id.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS students (
	id CHAR(36) PRIMARY KEY,
	college_id VARCHAR(32) NOT NULL,
	name VARCHAR(255) NOT NULL DEFAULT '',
	email VARCHAR(255) NOT NULL DEFAULT '',
	phone VARCHAR(100) NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_college_id (college_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS bus_routes (
	id CHAR(36) PRIMARY KEY,
	bus_number VARCHAR(50) NOT NULL,
	origin VARCHAR(255) NOT NULL,
	destination VARCHAR(255) NOT NULL,
	total_seats INT NOT NULL,
	available_seats INT NOT NULL,
	departure_time VARCHAR(10) NOT NULL DEFAULT '',
	return_time VARCHAR(10) NOT NULL DEFAULT '',
	active TINYINT(1) NOT NULL DEFAULT 1,
	travel_dates TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_bus_number (bus_number)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS bookings (
	id CHAR(36) PRIMARY KEY,
	student_id CHAR(36) NOT NULL,
	route_id CHAR(36) NOT NULL,
	travel_date VARCHAR(10) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_student (student_id),
	KEY idx_route_date (route_id, travel_date)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS system_settings (
	setting_key VARCHAR(64) PRIMARY KEY,
	setting_value VARCHAR(255) NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
}

// EnsureSchema applies the DDL. The tables check keeps startup quiet on an
// already-provisioned database.
func EnsureSchema(db *sql.DB) error {
	if intdb.HasTable(db, "students") &&
		intdb.HasTable(db, "bus_routes") &&
		intdb.HasTable(db, "bookings") &&
		intdb.HasTable(db, "system_settings") {
		return nil
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}
