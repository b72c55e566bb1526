package store

import (
	"testing"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestMySQLCreateBookingDecrementsSeat(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	st := &MySQL{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM bus_routes").
		WithArgs("route-1").
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
		WithArgs("student-1", "route-1", "2025-01-10", models.BookingCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE bus_routes SET available_seats = available_seats - 1").
		WithArgs("route-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := st.CreateBooking(models.Booking{
		StudentID:  "student-1",
		RouteID:    "route-1",
		TravelDate: "2025-01-10",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if booking.Status != models.BookingConfirmed {
		t.Fatalf("expected confirmed, got %q", booking.Status)
	}
	if booking.ID == "" {
		t.Fatalf("expected generated id")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLCreateBookingNoSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	st := &MySQL{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM bus_routes").
		WithArgs("route-1").
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(0))
	mock.ExpectRollback()

	_, err = st.CreateBooking(models.Booking{
		StudentID:  "student-1",
		RouteID:    "route-1",
		TravelDate: "2025-01-10",
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected no-seats conflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLCreateBookingDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	st := &MySQL{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM bus_routes").
		WithArgs("route-1").
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(5))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
		WithArgs("student-1", "route-1", "2025-01-10", models.BookingCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err = st.CreateBooking(models.Booking{
		StudentID:  "student-1",
		RouteID:    "route-1",
		TravelDate: "2025-01-10",
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLCreateRouteDuplicateBusNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	st := &MySQL{DB: db}

	mock.ExpectExec("INSERT INTO bus_routes").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "duplicate entry"})

	_, err = st.CreateRoute(models.BusRoute{
		BusNumber:      "BUS-099",
		Origin:         "A",
		Destination:    "B",
		TotalSeats:     40,
		AvailableSeats: 40,
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on duplicate bus number, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLSettingUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	st := &MySQL{DB: db}

	mock.ExpectExec("INSERT INTO system_settings").
		WithArgs(models.SettingSystemStatus, models.StatusOffline).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := st.SetSetting(models.SettingSystemStatus, models.StatusOffline); err != nil {
		t.Fatalf("set setting: %v", err)
	}

	mock.ExpectQuery("SELECT setting_value FROM system_settings").
		WithArgs(models.SettingSystemStatus).
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}).AddRow(models.StatusOffline))

	v, err := st.GetSetting(models.SettingSystemStatus)
	if err != nil || v != models.StatusOffline {
		t.Fatalf("get setting: %q %v", v, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
