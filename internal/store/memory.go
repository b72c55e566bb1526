package store

import (
	"sort"
	"sync"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/google/uuid"
)

// Memory is the runtime default Store: four maps behind one mutex. The lock
// makes the booking critical section (availability check + duplicate check +
// decrement + insert) indivisible, so the last seat cannot be oversold by
// concurrent requests.
type Memory struct {
	mu       sync.RWMutex
	students map[string]models.Student
	routes   map[string]models.BusRoute
	bookings map[string]models.Booking
	settings map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		students: map[string]models.Student{},
		routes:   map[string]models.BusRoute{},
		bookings: map[string]models.Booking{},
		settings: map[string]string{},
	}
}

func (m *Memory) CreateStudent(s models.Student) (models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.students {
		if existing.CollegeID == s.CollegeID {
			return models.Student{}, domain.ConflictError{Resource: "student", Msg: "college id already registered"}
		}
	}

	s.ID = uuid.NewString()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	m.students[s.ID] = s
	return s, nil
}

func (m *Memory) GetStudent(id string) (models.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.students[id]
	if !ok {
		return models.Student{}, domain.NotFoundError{Resource: "student"}
	}
	return s, nil
}

// FindStudentByCollegeID is a linear scan; fine at this scale.
func (m *Memory) FindStudentByCollegeID(collegeID string) (models.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.students {
		if s.CollegeID == collegeID {
			return s, nil
		}
	}
	return models.Student{}, domain.NotFoundError{Resource: "student"}
}

func (m *Memory) CreateRoute(r models.BusRoute) (models.BusRoute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.routes {
		if existing.BusNumber == r.BusNumber {
			return models.BusRoute{}, domain.ConflictError{Resource: "route", Msg: "bus number already exists"}
		}
	}
	if r.TotalSeats <= 0 {
		return models.BusRoute{}, domain.ValidationError{Field: "totalSeats", Msg: "must be positive"}
	}
	if r.AvailableSeats < 0 || r.AvailableSeats > r.TotalSeats {
		return models.BusRoute{}, domain.ValidationError{Field: "availableSeats", Msg: "must be between 0 and totalSeats"}
	}

	r.ID = uuid.NewString()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.TravelDates = append([]string(nil), r.TravelDates...)
	m.routes[r.ID] = r
	return copyRoute(r), nil
}

func (m *Memory) GetRoute(id string) (models.BusRoute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.routes[id]
	if !ok {
		return models.BusRoute{}, domain.NotFoundError{Resource: "route"}
	}
	return copyRoute(r), nil
}

func (m *Memory) ListRoutes(activeOnly bool) ([]models.BusRoute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.BusRoute, 0, len(m.routes))
	for _, r := range m.routes {
		if activeOnly && !r.Active {
			continue
		}
		out = append(out, copyRoute(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BusNumber < out[j].BusNumber })
	return out, nil
}

func (m *Memory) UpdateRoute(id string, upd models.RouteUpdate) (models.BusRoute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.routes[id]
	if !ok {
		return models.BusRoute{}, domain.NotFoundError{Resource: "route"}
	}

	if upd.BusNumber != nil && *upd.BusNumber != r.BusNumber {
		for _, other := range m.routes {
			if other.ID != id && other.BusNumber == *upd.BusNumber {
				return models.BusRoute{}, domain.ConflictError{Resource: "route", Msg: "bus number already exists"}
			}
		}
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
		r.TravelDates = append([]string(nil), (*upd.TravelDates)...)
	}

	if r.TotalSeats <= 0 {
		return models.BusRoute{}, domain.ValidationError{Field: "totalSeats", Msg: "must be positive"}
	}
	if r.AvailableSeats < 0 || r.AvailableSeats > r.TotalSeats {
		return models.BusRoute{}, domain.ValidationError{Field: "availableSeats", Msg: "must be between 0 and totalSeats"}
	}

	m.routes[id] = r
	return copyRoute(r), nil
}

func (m *Memory) DeleteRoute(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.routes[id]; !ok {
		return domain.NotFoundError{Resource: "route"}
	}
	delete(m.routes, id)
	return nil
}

func (m *Memory) CreateBooking(b models.Booking) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	route, ok := m.routes[b.RouteID]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "route"}
	}
	if route.AvailableSeats <= 0 {
		return models.Booking{}, domain.ConflictError{Resource: "route", Msg: "no seats available"}
	}
	for _, existing := range m.bookings {
		if existing.StudentID == b.StudentID &&
			existing.RouteID == b.RouteID &&
			existing.TravelDate == b.TravelDate &&
			existing.Status != models.BookingCancelled {
			return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "already booked for this travel date"}
		}
	}

	route.AvailableSeats--
	m.routes[route.ID] = route

	b.ID = uuid.NewString()
	b.Status = models.BookingConfirmed
	b.CreatedAt = time.Now()
	m.bookings[b.ID] = b
	return b, nil
}

func (m *Memory) GetBooking(id string) (models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.bookings[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, nil
}

func (m *Memory) ListBookings() ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, b)
	}
	sortBookings(out)
	return out, nil
}

func (m *Memory) ListBookingsByStudent(studentID string) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Booking{}
	for _, b := range m.bookings {
		if b.StudentID == studentID {
			out = append(out, b)
		}
	}
	sortBookings(out)
	return out, nil
}

func (m *Memory) UpdateBookingStatus(id, status string) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	b.Status = status
	m.bookings[id] = b
	return b, nil
}

func (m *Memory) GetSetting(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.settings[key]
	if !ok {
		return "", domain.NotFoundError{Resource: "setting"}
	}
	return v, nil
}

func (m *Memory) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings[key] = value
	return nil
}

func (m *Memory) Stats(today string) (models.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var st models.Stats
	st.BusCount = len(m.routes)
	for _, r := range m.routes {
		if r.Active {
			st.ActiveRoutes++
			st.AvailableSeats += r.AvailableSeats
		}
	}
	for _, b := range m.bookings {
		if b.TravelDate == today && b.Status != models.BookingCancelled {
			st.TodayBookings++
		}
	}
	return st, nil
}

func (m *Memory) Close() error { return nil }

func copyRoute(r models.BusRoute) models.BusRoute {
	r.TravelDates = append([]string(nil), r.TravelDates...)
	return r
}

// Newest first, stable across runs by falling back to id.
func sortBookings(list []models.Booking) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}
