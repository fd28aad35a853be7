package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/Domenick1991/salonbooking/internal/service/availability"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SalonHandler struct {
	service  availability.AvailabilityUseCase
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func NewSalonHandler(service availability.AvailabilityUseCase, loc *time.Location, logger *zap.Logger) *SalonHandler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalonHandler{service: service, location: loc, logger: logger, now: time.Now}
}

func (h *SalonHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id/availability", h.availability)
}

// availability takes an optional ?date=YYYY-MM-DD, defaulting to today in
// the salon timezone.
func (h *SalonHandler) availability(c *gin.Context) {
	salonID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || salonID <= 0 {
		badRequest(c, "invalid salon id")
		return
	}

	reference := h.now().In(h.location)
	if raw := c.Query("date"); raw != "" {
		reference, err = time.ParseInLocation(availability.DateLayout, raw, h.location)
		if err != nil {
			respondError(c, h.logger, &domain.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"})
			return
		}
	}

	days, err := h.service.GetAvailability(c.Request.Context(), salonID, reference)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "availability": days})
}
