package handlers

import (
	"net/http"

	"backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	Status   *services.StatusService
	Bookings *services.BookingService
}

func NewSystemHandler(status *services.StatusService, bookings *services.BookingService) *SystemHandler {
	return &SystemHandler{Status: status, Bookings: bookings}
}

// GET /api/health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
}

// GET /api/system/status — polled by clients; no gate applies to reads.
func (h *SystemHandler) GetStatus(c *gin.Context) {
	status, err := h.Status.Get()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// POST /api/admin/system/status
func (h *SystemHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Status.Set(req.Status); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}

// GET /api/admin/stats
func (h *SystemHandler) Stats(c *gin.Context) {
	stats, err := h.Bookings.Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
