package store

import (
	"fmt"
	"sync"
	"testing"

	"backend/internal/domain"
	"backend/internal/domain/models"
)

func newTestRoute(busNumber string, seats int) models.BusRoute {
	return models.BusRoute{
		BusNumber:      busNumber,
		Origin:         "Main Campus",
		Destination:    "City Center",
		TotalSeats:     seats,
		AvailableSeats: seats,
		DepartureTime:  "08:00",
		ReturnTime:     "17:30",
		Active:         true,
		TravelDates:    []string{"2025-01-10", "2025-01-11"},
	}
}

func TestMemoryRouteCRUD(t *testing.T) {
	m := NewMemory()

	created, err := m.CreateRoute(newTestRoute("BUS-001", 40))
	if err != nil {
		t.Fatalf("create route: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}

	if _, err := m.CreateRoute(newTestRoute("BUS-001", 30)); !domain.IsConflict(err) {
		t.Fatalf("duplicate bus number should conflict, got %v", err)
	}

	origin := "North Gate"
	updated, err := m.UpdateRoute(created.ID, models.RouteUpdate{Origin: &origin})
	if err != nil {
		t.Fatalf("update route: %v", err)
	}
	if updated.Origin != "North Gate" {
		t.Fatalf("origin not updated, got %q", updated.Origin)
	}
	if updated.BusNumber != "BUS-001" || updated.TotalSeats != 40 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	bad := 50
	if _, err := m.UpdateRoute(created.ID, models.RouteUpdate{AvailableSeats: &bad}); !domain.IsValidation(err) {
		t.Fatalf("availableSeats > totalSeats should be a validation error, got %v", err)
	}

	if err := m.DeleteRoute(created.ID); err != nil {
		t.Fatalf("delete route: %v", err)
	}
	if err := m.DeleteRoute(created.ID); !domain.IsNotFound(err) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestMemoryStudentCollegeIDUnique(t *testing.T) {
	m := NewMemory()

	first, err := m.CreateStudent(models.Student{CollegeID: "CSE123456", Name: "A"})
	if err != nil {
		t.Fatalf("create student: %v", err)
	}
	if _, err := m.CreateStudent(models.Student{CollegeID: "CSE123456"}); !domain.IsConflict(err) {
		t.Fatalf("duplicate college id should conflict, got %v", err)
	}

	found, err := m.FindStudentByCollegeID("CSE123456")
	if err != nil {
		t.Fatalf("find by college id: %v", err)
	}
	if found.ID != first.ID {
		t.Fatalf("lookup returned a different student: %s vs %s", found.ID, first.ID)
	}
}

func TestMemoryBookingSeatFloor(t *testing.T) {
	m := NewMemory()
	route, _ := m.CreateRoute(newTestRoute("BUS-001", 1))
	a, _ := m.CreateStudent(models.Student{CollegeID: "CSE111111"})
	b, _ := m.CreateStudent(models.Student{CollegeID: "CSE222222"})

	booking, err := m.CreateBooking(models.Booking{StudentID: a.ID, RouteID: route.ID, TravelDate: "2025-01-10"})
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if booking.Status != models.BookingConfirmed {
		t.Fatalf("expected confirmed, got %q", booking.Status)
	}

	after, _ := m.GetRoute(route.ID)
	if after.AvailableSeats != 0 {
		t.Fatalf("available seats should be 0, got %d", after.AvailableSeats)
	}

	_, err = m.CreateBooking(models.Booking{StudentID: b.ID, RouteID: route.ID, TravelDate: "2025-01-10"})
	if !domain.IsConflict(err) {
		t.Fatalf("booking with no seats should conflict, got %v", err)
	}

	after, _ = m.GetRoute(route.ID)
	if after.AvailableSeats != 0 {
		t.Fatalf("available seats went negative: %d", after.AvailableSeats)
	}
	bookings, _ := m.ListBookings()
	if len(bookings) != 1 {
		t.Fatalf("rejected booking left a record, have %d", len(bookings))
	}
}

func TestMemoryDuplicateBooking(t *testing.T) {
	m := NewMemory()
	route, _ := m.CreateRoute(newTestRoute("BUS-002", 10))
	s, _ := m.CreateStudent(models.Student{CollegeID: "CSE333333"})

	first, err := m.CreateBooking(models.Booking{StudentID: s.ID, RouteID: route.ID, TravelDate: "2025-01-10"})
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err = m.CreateBooking(models.Booking{StudentID: s.ID, RouteID: route.ID, TravelDate: "2025-01-10"})
	if !domain.IsConflict(err) {
		t.Fatalf("duplicate booking should conflict, got %v", err)
	}

	// A different date for the same student and route is fine.
	if _, err := m.CreateBooking(models.Booking{StudentID: s.ID, RouteID: route.ID, TravelDate: "2025-01-11"}); err != nil {
		t.Fatalf("different date rejected: %v", err)
	}

	// Cancelling releases the duplicate constraint but not the seat.
	if _, err := m.UpdateBookingStatus(first.ID, models.BookingCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	before, _ := m.GetRoute(route.ID)
	if _, err := m.CreateBooking(models.Booking{StudentID: s.ID, RouteID: route.ID, TravelDate: "2025-01-10"}); err != nil {
		t.Fatalf("rebooking after cancel rejected: %v", err)
	}
	after, _ := m.GetRoute(route.ID)
	if after.AvailableSeats != before.AvailableSeats-1 {
		t.Fatalf("rebooking should cost one seat: before=%d after=%d", before.AvailableSeats, after.AvailableSeats)
	}
}

func TestMemoryBookingUnknownRoute(t *testing.T) {
	m := NewMemory()
	s, _ := m.CreateStudent(models.Student{CollegeID: "CSE444444"})

	_, err := m.CreateBooking(models.Booking{StudentID: s.ID, RouteID: "missing", TravelDate: "2025-01-10"})
	if !domain.IsNotFound(err) {
		t.Fatalf("unknown route should be not found, got %v", err)
	}
}

func TestMemoryConcurrentBookingsNeverOversell(t *testing.T) {
	m := NewMemory()
	const seats = 5
	const attempts = 20
	route, _ := m.CreateRoute(newTestRoute("BUS-003", seats))

	students := make([]models.Student, attempts)
	for i := range students {
		s, err := m.CreateStudent(models.Student{CollegeID: fmt.Sprintf("CSE%06d", i)})
		if err != nil {
			t.Fatalf("create student %d: %v", i, err)
		}
		students[i] = s
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.CreateBooking(models.Booking{
				StudentID:  students[i].ID,
				RouteID:    route.ID,
				TravelDate: "2025-01-10",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !domain.IsConflict(err) {
			t.Fatalf("unexpected error kind: %v", err)
		}
	}
	if succeeded != seats {
		t.Fatalf("expected exactly %d confirmed bookings, got %d", seats, succeeded)
	}

	after, _ := m.GetRoute(route.ID)
	if after.AvailableSeats != 0 {
		t.Fatalf("available seats should end at 0, got %d", after.AvailableSeats)
	}
}

func TestMemorySettings(t *testing.T) {
	m := NewMemory()

	if _, err := m.GetSetting(models.SettingSystemStatus); !domain.IsNotFound(err) {
		t.Fatalf("unset setting should be not found, got %v", err)
	}
	if err := m.SetSetting(models.SettingSystemStatus, models.StatusOffline); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	v, err := m.GetSetting(models.SettingSystemStatus)
	if err != nil || v != models.StatusOffline {
		t.Fatalf("get setting: %q %v", v, err)
	}
}

func TestMemoryStats(t *testing.T) {
	m := NewMemory()
	active, _ := m.CreateRoute(newTestRoute("BUS-010", 10))
	inactive := newTestRoute("BUS-011", 20)
	inactive.Active = false
	m.CreateRoute(inactive)

	s, _ := m.CreateStudent(models.Student{CollegeID: "CSE555555"})
	m.CreateBooking(models.Booking{StudentID: s.ID, RouteID: active.ID, TravelDate: "2025-01-10"})

	st, err := m.Stats("2025-01-10")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.BusCount != 2 || st.ActiveRoutes != 1 {
		t.Fatalf("route counts wrong: %+v", st)
	}
	if st.AvailableSeats != 9 {
		t.Fatalf("available seats should count active routes only, got %d", st.AvailableSeats)
	}
	if st.TodayBookings != 1 {
		t.Fatalf("today bookings: %d", st.TodayBookings)
	}
}
