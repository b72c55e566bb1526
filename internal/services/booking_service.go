package services

import (
	"strings"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/store"

	"go.uber.org/zap"
)

// BookingService is the booking rule engine. Entity existence is validated
// here; the seat-availability check, duplicate check and decrement happen as
// one atomic step inside the store.
type BookingService struct {
	Store  store.Store
	Logger *zap.Logger
}

func NewBookingService(st store.Store, logger *zap.Logger) *BookingService {
	return &BookingService{Store: st, Logger: logger}
}

func (s *BookingService) Create(studentID, routeID, travelDate string) (models.Booking, error) {
	studentID = strings.TrimSpace(studentID)
	routeID = strings.TrimSpace(routeID)
	travelDate = strings.TrimSpace(travelDate)

	if studentID == "" {
		return models.Booking{}, domain.ValidationError{Field: "studentId", Msg: "required"}
	}
	if routeID == "" {
		return models.Booking{}, domain.ValidationError{Field: "routeId", Msg: "required"}
	}
	if _, err := time.Parse("2006-01-02", travelDate); err != nil {
		return models.Booking{}, domain.ValidationError{Field: "travelDate", Msg: "must be YYYY-MM-DD"}
	}

	if _, err := s.Store.GetStudent(studentID); err != nil {
		return models.Booking{}, err
	}

	booking, err := s.Store.CreateBooking(models.Booking{
		StudentID:  studentID,
		RouteID:    routeID,
		TravelDate: travelDate,
	})
	if err != nil {
		return models.Booking{}, err
	}

	s.Logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("route_id", routeID),
		zap.String("travel_date", travelDate),
	)
	return booking, nil
}

// Cancel flips a booking to cancelled. One-way: a cancelled booking stays
// cancelled, and the seat is not returned to the pool.
func (s *BookingService) Cancel(id string) (models.Booking, error) {
	booking, err := s.Store.GetBooking(id)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.Status == models.BookingCancelled {
		return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "already cancelled"}
	}

	updated, err := s.Store.UpdateBookingStatus(id, models.BookingCancelled)
	if err != nil {
		return models.Booking{}, err
	}

	s.Logger.Info("booking cancelled", zap.String("booking_id", id))
	return updated, nil
}

// ListDetailed returns every booking enriched with its student and route.
func (s *BookingService) ListDetailed() ([]models.BookingDetail, error) {
	bookings, err := s.Store.ListBookings()
	if err != nil {
		return nil, err
	}
	out := make([]models.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, s.enrich(b))
	}
	return out, nil
}

// HistoryByStudent returns a student's bookings enriched with their routes.
func (s *BookingService) HistoryByStudent(studentID string) ([]models.BookingDetail, error) {
	bookings, err := s.Store.ListBookingsByStudent(studentID)
	if err != nil {
		return nil, err
	}
	out := make([]models.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		detail := models.BookingDetail{Booking: b}
		if route, err := s.Store.GetRoute(b.RouteID); err == nil {
			detail.Route = &route
		}
		out = append(out, detail)
	}
	return out, nil
}

func (s *BookingService) Stats() (models.Stats, error) {
	today := time.Now().Format("2006-01-02")
	return s.Store.Stats(today)
}

func (s *BookingService) enrich(b models.Booking) models.BookingDetail {
	detail := models.BookingDetail{Booking: b}
	if student, err := s.Store.GetStudent(b.StudentID); err == nil {
		detail.Student = &student
	}
	if route, err := s.Store.GetRoute(b.RouteID); err == nil {
		detail.Route = &route
	}
	return detail
}
