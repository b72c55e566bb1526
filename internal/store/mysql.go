package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

var (
	_ Store = (*Memory)(nil)
	_ Store = (*MySQL)(nil)
)

// MySQL implements Store over database/sql. Selected with STORE_DRIVER=mysql;
// the memory store stays the runtime default.
type MySQL struct {
	DB *sql.DB
}

func OpenMySQL(dsn string) (*MySQL, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &MySQL{DB: db}, nil
}

func (m *MySQL) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func (m *MySQL) CreateStudent(s models.Student) (models.Student, error) {
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now()

	_, err := m.DB.Exec(`
		INSERT INTO students (id, college_id, name, email, phone, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.ID, s.CollegeID, s.Name, s.Email, s.Phone, s.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return models.Student{}, domain.ConflictError{Resource: "student", Msg: "college id already registered"}
		}
		return models.Student{}, domain.InternalError{Err: err}
	}
	return s, nil
}

func (m *MySQL) GetStudent(id string) (models.Student, error) {
	return m.scanStudent(m.DB.QueryRow(`
		SELECT id, college_id, name, email, phone, created_at
		FROM students WHERE id = ?
	`, id))
}

func (m *MySQL) FindStudentByCollegeID(collegeID string) (models.Student, error) {
	return m.scanStudent(m.DB.QueryRow(`
		SELECT id, college_id, name, email, phone, created_at
		FROM students WHERE college_id = ?
	`, collegeID))
}

func (m *MySQL) scanStudent(row *sql.Row) (models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.CollegeID, &s.Name, &s.Email, &s.Phone, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Student{}, domain.NotFoundError{Resource: "student"}
		}
		return models.Student{}, domain.InternalError{Err: err}
	}
	return s, nil
}

func (m *MySQL) CreateRoute(r models.BusRoute) (models.BusRoute, error) {
	if r.TotalSeats <= 0 {
		return models.BusRoute{}, domain.ValidationError{Field: "totalSeats", Msg: "must be positive"}
	}
	if r.AvailableSeats < 0 || r.AvailableSeats > r.TotalSeats {
		return models.BusRoute{}, domain.ValidationError{Field: "availableSeats", Msg: "must be between 0 and totalSeats"}
	}

	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()

	dates, err := json.Marshal(r.TravelDates)
	if err != nil {
		return models.BusRoute{}, domain.InternalError{Err: err}
	}

	_, err = m.DB.Exec(`
		INSERT INTO bus_routes
			(id, bus_number, origin, destination, total_seats, available_seats,
			 departure_time, return_time, active, travel_dates, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.BusNumber, r.Origin, r.Destination, r.TotalSeats, r.AvailableSeats,
		r.DepartureTime, r.ReturnTime, r.Active, string(dates), r.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return models.BusRoute{}, domain.ConflictError{Resource: "route", Msg: "bus number already exists"}
		}
		return models.BusRoute{}, domain.InternalError{Err: err}
	}
	return r, nil
}

const routeColumns = `id, bus_number, origin, destination, total_seats, available_seats,
	departure_time, return_time, active, travel_dates, created_at`

func (m *MySQL) GetRoute(id string) (models.BusRoute, error) {
	row := m.DB.QueryRow(`SELECT `+routeColumns+` FROM bus_routes WHERE id = ?`, id)
	var r models.BusRoute
	var dates sql.NullString
	err := row.Scan(&r.ID, &r.BusNumber, &r.Origin, &r.Destination, &r.TotalSeats,
		&r.AvailableSeats, &r.DepartureTime, &r.ReturnTime, &r.Active, &dates, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BusRoute{}, domain.NotFoundError{Resource: "route"}
		}
		return models.BusRoute{}, domain.InternalError{Err: err}
	}
	r.TravelDates = decodeDates(dates)
	return r, nil
}

func (m *MySQL) ListRoutes(activeOnly bool) ([]models.BusRoute, error) {
	query := `SELECT ` + routeColumns + ` FROM bus_routes`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY bus_number ASC`

	rows, err := m.DB.Query(query)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.BusRoute{}
	for rows.Next() {
		var r models.BusRoute
		var dates sql.NullString
		if err := rows.Scan(&r.ID, &r.BusNumber, &r.Origin, &r.Destination, &r.TotalSeats,
			&r.AvailableSeats, &r.DepartureTime, &r.ReturnTime, &r.Active, &dates, &r.CreatedAt); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		r.TravelDates = decodeDates(dates)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

func (m *MySQL) UpdateRoute(id string, upd models.RouteUpdate) (models.BusRoute, error) {
	r, err := m.GetRoute(id)
	if err != nil {
		return models.BusRoute{}, err
	}

	if upd.BusNumber != nil {
		r.BusNumber = *upd.BusNumber
	}
	if upd.Origin != nil {
		r.Origin = *upd.Origin
	}
	if upd.Destination != nil {
		r.Destination = *upd.Destination
	}
	if upd.TotalSeats != nil {
		r.TotalSeats = *upd.TotalSeats
	}
	if upd.AvailableSeats != nil {
		r.AvailableSeats = *upd.AvailableSeats
	}
	if upd.DepartureTime != nil {
		r.DepartureTime = *upd.DepartureTime
	}
	if upd.ReturnTime != nil {
		r.ReturnTime = *upd.ReturnTime
	}
	if upd.Active != nil {
		r.Active = *upd.Active
	}
	if upd.TravelDates != nil {
		r.TravelDates = *upd.TravelDates
	}

	if r.TotalSeats <= 0 {
		return models.BusRoute{}, domain.ValidationError{Field: "totalSeats", Msg: "must be positive"}
	}
	if r.AvailableSeats < 0 || r.AvailableSeats > r.TotalSeats {
		return models.BusRoute{}, domain.ValidationError{Field: "availableSeats", Msg: "must be between 0 and totalSeats"}
	}

	dates, err := json.Marshal(r.TravelDates)
	if err != nil {
		return models.BusRoute{}, domain.InternalError{Err: err}
	}

	_, err = m.DB.Exec(`
		UPDATE bus_routes
		SET bus_number = ?, origin = ?, destination = ?, total_seats = ?,
			available_seats = ?, departure_time = ?, return_time = ?, active = ?, travel_dates = ?
		WHERE id = ?
	`, r.BusNumber, r.Origin, r.Destination, r.TotalSeats, r.AvailableSeats,
		r.DepartureTime, r.ReturnTime, r.Active, string(dates), id)
	if err != nil {
		if isDuplicateKey(err) {
			return models.BusRoute{}, domain.ConflictError{Resource: "route", Msg: "bus number already exists"}
		}
		return models.BusRoute{}, domain.InternalError{Err: err}
	}
	return r, nil
}

func (m *MySQL) DeleteRoute(id string) error {
	res, err := m.DB.Exec(`DELETE FROM bus_routes WHERE id = ?`, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.NotFoundError{Resource: "route"}
	}
	return nil
}

// CreateBooking runs the whole seat-inventory sequence in one transaction.
// The row lock on the route plus the conditional decrement keep the counter
// from ever going negative under concurrent requests.
func (m *MySQL) CreateBooking(b models.Booking) (models.Booking, error) {
	tx, err := m.DB.Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	var available int
	err = tx.QueryRow(`SELECT available_seats FROM bus_routes WHERE id = ? FOR UPDATE`, b.RouteID).
		Scan(&available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "route"}
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if available <= 0 {
		return models.Booking{}, domain.ConflictError{Resource: "route", Msg: "no seats available"}
	}

	var duplicates int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM bookings
		WHERE student_id = ? AND route_id = ? AND travel_date = ? AND status <> ?
	`, b.StudentID, b.RouteID, b.TravelDate, models.BookingCancelled).Scan(&duplicates)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if duplicates > 0 {
		return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "already booked for this travel date"}
	}

	res, err := tx.Exec(`
		UPDATE bus_routes SET available_seats = available_seats - 1
		WHERE id = ? AND available_seats > 0
	`, b.RouteID)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.Booking{}, domain.ConflictError{Resource: "route", Msg: "no seats available"}
	}

	b.ID = uuid.NewString()
	b.Status = models.BookingConfirmed
	b.CreatedAt = time.Now()
	_, err = tx.Exec(`
		INSERT INTO bookings (id, student_id, route_id, travel_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.StudentID, b.RouteID, b.TravelDate, b.Status, b.CreatedAt)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	return b, nil
}

const bookingColumns = `id, student_id, route_id, travel_date, status, created_at`

func (m *MySQL) GetBooking(id string) (models.Booking, error) {
	row := m.DB.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	var b models.Booking
	err := row.Scan(&b.ID, &b.StudentID, &b.RouteID, &b.TravelDate, &b.Status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}
	return b, nil
}

func (m *MySQL) ListBookings() ([]models.Booking, error) {
	return m.queryBookings(`SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC, id ASC`)
}

func (m *MySQL) ListBookingsByStudent(studentID string) ([]models.Booking, error) {
	return m.queryBookings(`SELECT `+bookingColumns+` FROM bookings WHERE student_id = ? ORDER BY created_at DESC, id ASC`, studentID)
}

func (m *MySQL) queryBookings(query string, args ...any) ([]models.Booking, error) {
	rows, err := m.DB.Query(query, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.StudentID, &b.RouteID, &b.TravelDate, &b.Status, &b.CreatedAt); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

func (m *MySQL) UpdateBookingStatus(id, status string) (models.Booking, error) {
	res, err := m.DB.Exec(`UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		// distinguish "missing" from "same status" with a follow-up read
		if _, getErr := m.GetBooking(id); getErr != nil {
			return models.Booking{}, getErr
		}
	}
	return m.GetBooking(id)
}

func (m *MySQL) GetSetting(key string) (string, error) {
	var value string
	err := m.DB.QueryRow(`SELECT setting_value FROM system_settings WHERE setting_key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.NotFoundError{Resource: "setting"}
		}
		return "", domain.InternalError{Err: err}
	}
	return value, nil
}

func (m *MySQL) SetSetting(key, value string) error {
	_, err := m.DB.Exec(`
		INSERT INTO system_settings (setting_key, setting_value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value)
	`, key, value)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (m *MySQL) Stats(today string) (models.Stats, error) {
	var st models.Stats

	err := m.DB.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN active = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN active = 1 THEN available_seats ELSE 0 END), 0)
		FROM bus_routes
	`).Scan(&st.BusCount, &st.ActiveRoutes, &st.AvailableSeats)
	if err != nil {
		return models.Stats{}, domain.InternalError{Err: err}
	}

	err = m.DB.QueryRow(`
		SELECT COUNT(*) FROM bookings WHERE travel_date = ? AND status <> ?
	`, today, models.BookingCancelled).Scan(&st.TodayBookings)
	if err != nil {
		return models.Stats{}, domain.InternalError{Err: err}
	}
	return st, nil
}

func decodeDates(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	var dates []string
	if err := json.Unmarshal([]byte(raw.String), &dates); err != nil {
		return []string{}
	}
	return dates
}
