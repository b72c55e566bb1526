package handlers

import (
	"net/http"
	"strings"

	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/services"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	Bookings *services.BookingService
	Students *services.StudentService
	Status   *services.StatusService
	Docs     *services.DocsService
}

func NewBookingHandler(bookings *services.BookingService, students *services.StudentService,
	status *services.StatusService, docs *services.DocsService) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Students: students, Status: status, Docs: docs}
}

type createBookingRequest struct {
	StudentID  string `json:"studentId"`
	CollegeID  string `json:"collegeId"`
	RouteID    string `json:"routeId"`
	TravelDate string `json:"travelDate"`
}

// POST /api/bookings
// The offline gate is checked here, before the rule engine runs, so a 503
// never mutates state.
func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	status, err := h.Status.Get()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if status == models.StatusOffline {
		RespondDomainError(c, domain.UnavailableError{Msg: "booking is temporarily offline"})
		return
	}

	studentID := strings.TrimSpace(req.StudentID)
	if studentID == "" && strings.TrimSpace(req.CollegeID) != "" {
		student, err := h.Students.FindByCollegeID(req.CollegeID)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		studentID = student.ID
	}

	booking, err := h.Bookings.Create(studentID, req.RouteID, req.TravelDate)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "booking": booking})
}

// POST /api/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	booking, err := h.Bookings.Cancel(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

// GET /api/student/:collegeId/bookings
// A well-formed but unregistered id yields an empty history.
func (h *BookingHandler) StudentHistory(c *gin.Context) {
	student, err := h.Students.FindByCollegeID(c.Param("collegeId"))
	if err != nil {
		if domain.IsNotFound(err) {
			c.JSON(http.StatusOK, gin.H{"success": true, "bookings": []models.BookingDetail{}})
			return
		}
		RespondDomainError(c, err)
		return
	}

	history, err := h.Bookings.HistoryByStudent(student.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": history})
}

// GET /api/admin/bookings — all bookings enriched with student + route.
func (h *BookingHandler) ListAll(c *gin.Context) {
	details, err := h.Bookings.ListDetailed()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": details})
}

// GET /api/admin/bookings/manifest?route_id=...&date=... (inline PDF)
func (h *BookingHandler) Manifest(c *gin.Context) {
	routeID := strings.TrimSpace(c.Query("route_id"))
	date := strings.TrimSpace(c.Query("date"))
	if routeID == "" {
		RespondError(c, http.StatusBadRequest, "route_id is required", nil)
		return
	}

	pdfBytes, filename, err := h.Docs.GenerateManifest(routeID, date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
