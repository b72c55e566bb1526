package handlers

import (
	"net/http"
	"strings"
	"time"

	"backend/internal/domain/models"
	"backend/internal/store"

	"github.com/gin-gonic/gin"
)

type RouteHandler struct {
	Store store.Store
}

func NewRouteHandler(st store.Store) *RouteHandler {
	return &RouteHandler{Store: st}
}

type routePayload struct {
	BusNumber      string   `json:"busNumber" binding:"required"`
	Origin         string   `json:"origin" binding:"required"`
	Destination    string   `json:"destination" binding:"required"`
	TotalSeats     int      `json:"totalSeats" binding:"required"`
	AvailableSeats *int     `json:"availableSeats"`
	DepartureTime  string   `json:"departureTime"`
	ReturnTime     string   `json:"returnTime"`
	Active         *bool    `json:"active"`
	TravelDates    []string `json:"travelDates"`
}

// GET /api/bus-routes — active routes only (student-facing).
func (h *RouteHandler) ListActive(c *gin.Context) {
	h.list(c, true)
}

// GET /api/admin/bus-routes — every route.
func (h *RouteHandler) ListAll(c *gin.Context) {
	h.list(c, false)
}

func (h *RouteHandler) list(c *gin.Context, activeOnly bool) {
	routes, err := h.Store.ListRoutes(activeOnly)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "routes": routes})
}

// POST /api/admin/bus-routes
func (h *RouteHandler) Create(c *gin.Context) {
	var payload routePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	busNumber := strings.TrimSpace(payload.BusNumber)
	if busNumber == "" {
		RespondError(c, http.StatusBadRequest, "busNumber is required", nil)
		return
	}
	if err := validateTimes(payload.DepartureTime, payload.ReturnTime); err != "" {
		RespondError(c, http.StatusBadRequest, err, nil)
		return
	}

	route := models.BusRoute{
		BusNumber:     busNumber,
		Origin:        strings.TrimSpace(payload.Origin),
		Destination:   strings.TrimSpace(payload.Destination),
		TotalSeats:    payload.TotalSeats,
		DepartureTime: payload.DepartureTime,
		ReturnTime:    payload.ReturnTime,
		Active:        true,
		TravelDates:   payload.TravelDates,
	}
	if payload.AvailableSeats != nil {
		route.AvailableSeats = *payload.AvailableSeats
	} else {
		route.AvailableSeats = payload.TotalSeats
	}
	if payload.Active != nil {
		route.Active = *payload.Active
	}

	created, err := h.Store.CreateRoute(route)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "route": created})
}

type routeUpdatePayload struct {
	BusNumber      *string   `json:"busNumber"`
	Origin         *string   `json:"origin"`
	Destination    *string   `json:"destination"`
	TotalSeats     *int      `json:"totalSeats"`
	AvailableSeats *int      `json:"availableSeats"`
	DepartureTime  *string   `json:"departureTime"`
	ReturnTime     *string   `json:"returnTime"`
	Active         *bool     `json:"active"`
	TravelDates    *[]string `json:"travelDates"`
}

// PUT /api/admin/bus-routes/:id — partial update, absent fields untouched.
func (h *RouteHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var payload routeUpdatePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	updated, err := h.Store.UpdateRoute(id, models.RouteUpdate{
		BusNumber:      payload.BusNumber,
		Origin:         payload.Origin,
		Destination:    payload.Destination,
		TotalSeats:     payload.TotalSeats,
		AvailableSeats: payload.AvailableSeats,
		DepartureTime:  payload.DepartureTime,
		ReturnTime:     payload.ReturnTime,
		Active:         payload.Active,
		TravelDates:    payload.TravelDates,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "route": updated})
}

// DELETE /api/admin/bus-routes/:id
func (h *RouteHandler) Delete(c *gin.Context) {
	if err := h.Store.DeleteRoute(c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "route deleted"})
}

func validateTimes(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, err := time.Parse("15:04", v); err != nil {
			return "time fields must be HH:MM"
		}
	}
	return ""
}
