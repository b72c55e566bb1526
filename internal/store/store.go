package store

import "backend/internal/domain/models"

// Store owns the four record collections. Every record is keyed by a
// generated identifier; relations between records are by identifier only.
// Implementations are safe for concurrent use.
type Store interface {
	// Students. College IDs are unique across the collection.
	CreateStudent(s models.Student) (models.Student, error)
	GetStudent(id string) (models.Student, error)
	FindStudentByCollegeID(collegeID string) (models.Student, error)

	// Routes. Bus numbers are unique across the collection.
	CreateRoute(r models.BusRoute) (models.BusRoute, error)
	GetRoute(id string) (models.BusRoute, error)
	ListRoutes(activeOnly bool) ([]models.BusRoute, error)
	UpdateRoute(id string, upd models.RouteUpdate) (models.BusRoute, error)
	DeleteRoute(id string) error

	// CreateBooking performs the seat-inventory critical section as a single
	// atomic step: route lookup, availability check, duplicate check,
	// decrement, insert. The available-seat counter never goes below zero
	// and a (student, route, date) triple can hold at most one non-cancelled
	// booking.
	CreateBooking(b models.Booking) (models.Booking, error)
	GetBooking(id string) (models.Booking, error)
	ListBookings() ([]models.Booking, error)
	ListBookingsByStudent(studentID string) ([]models.Booking, error)
	UpdateBookingStatus(id, status string) (models.Booking, error)

	// Settings. GetSetting returns a not-found error for unset keys.
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error

	// Stats aggregates counters for the admin dashboard; today is the
	// travel date counted as "today's bookings" (YYYY-MM-DD).
	Stats(today string) (models.Stats, error)

	Close() error
}
