package models

import "time"

// Booking status values. Transitions are one-way: confirmed -> cancelled.
const (
	BookingConfirmed = "confirmed"
	BookingPending   = "pending"
	BookingCancelled = "cancelled"
)

// System status gate values, stored under the "system_status" setting key.
const (
	SettingSystemStatus = "system_status"
	StatusOnline        = "online"
	StatusOffline       = "offline"
)

type Student struct {
	ID        string    `json:"id"`
	CollegeID string    `json:"collegeId"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type BusRoute struct {
	ID             string    `json:"id"`
	BusNumber      string    `json:"busNumber"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	TotalSeats     int       `json:"totalSeats"`
	AvailableSeats int       `json:"availableSeats"`
	DepartureTime  string    `json:"departureTime"`
	ReturnTime     string    `json:"returnTime"`
	Active         bool      `json:"active"`
	TravelDates    []string  `json:"travelDates"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RouteUpdate carries a partial update; nil fields are left untouched.
type RouteUpdate struct {
	BusNumber      *string
	Origin         *string
	Destination    *string
	TotalSeats     *int
	AvailableSeats *int
	DepartureTime  *string
	ReturnTime     *string
	Active         *bool
	TravelDates    *[]string
}

type Booking struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"studentId"`
	RouteID    string    `json:"routeId"`
	TravelDate string    `json:"travelDate"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type SystemSetting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BookingDetail is a booking resolved with its student and route. Relations
// are by identifier only, so either side may be nil when the referenced
// record has since been deleted.
type BookingDetail struct {
	Booking Booking   `json:"booking"`
	Student *Student  `json:"student,omitempty"`
	Route   *BusRoute `json:"route,omitempty"`
}

type Stats struct {
	BusCount       int `json:"busCount"`
	TodayBookings  int `json:"todayBookings"`
	AvailableSeats int `json:"availableSeats"`
	ActiveRoutes   int `json:"activeRoutes"`
}
