package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/Domenick1991/salonbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// localTimeLayout is accepted for start_at values without a zone; they are
// read in the salon timezone.
const localTimeLayout = "2006-01-02T15:04:05"

type AppointmentHandler struct {
	service  booking.BookingUseCase
	location *time.Location
	logger   *zap.Logger
}

type createAppointmentRequest struct {
	SalonID    int64   `json:"salon_id"`
	StaffID    int64   `json:"staff_id"`
	StartAt    string  `json:"start_at"`
	ServiceIDs []int64 `json:"service_ids"`
	Notes      string  `json:"notes"`
}

type serviceLineResponse struct {
	ID              int64  `json:"id"`
	ServiceID       int64  `json:"service_id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	Price           string `json:"price"`
}

type appointmentResponse struct {
	ID            int64                 `json:"id"`
	SalonID       int64                 `json:"salon_id"`
	StaffID       int64                 `json:"staff_id"`
	UserID        int64                 `json:"user_id"`
	StartAt       string                `json:"start_at"`
	EndAt         string                `json:"end_at"`
	Status        string                `json:"status"`
	TotalDuration int                   `json:"total_duration"`
	TotalPrice    string                `json:"total_price"`
	Notes         string                `json:"notes"`
	Services      []serviceLineResponse `json:"services"`
	CreatedAt     string                `json:"created_at"`
	UpdatedAt     string                `json:"updated_at"`
}

func NewAppointmentHandler(service booking.BookingUseCase, loc *time.Location, logger *zap.Logger) *AppointmentHandler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentHandler{service: service, location: loc, logger: logger}
}

func (h *AppointmentHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id/cancel", h.cancel)
	router.PUT("/:id/complete", h.complete)
}

func (h *AppointmentHandler) create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	startAt, err := h.parseStart(req.StartAt)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	appt, err := h.service.Create(c.Request.Context(), actor, booking.CreateAppointmentInput{
		SalonID:    req.SalonID,
		StaffID:    req.StaffID,
		StartAt:    startAt,
		ServiceIDs: req.ServiceIDs,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "appointment": toAppointmentResponse(appt, h.location)})
}

func (h *AppointmentHandler) list(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	appts, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	out := make([]appointmentResponse, 0, len(appts))
	for i := range appts {
		out = append(out, toAppointmentResponse(&appts[i], h.location))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": out})
}

func (h *AppointmentHandler) get(c *gin.Context) {
	h.withAppointment(c, h.service.Get)
}

func (h *AppointmentHandler) cancel(c *gin.Context) {
	h.withAppointment(c, h.service.Cancel)
}

func (h *AppointmentHandler) complete(c *gin.Context) {
	h.withAppointment(c, h.service.Complete)
}

type appointmentAction func(ctx context.Context, actor booking.Actor, id int64) (*domain.Appointment, error)

func (h *AppointmentHandler) withAppointment(c *gin.Context, action appointmentAction) {
	actor, ok := actorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid appointment id")
		return
	}

	appt, err := action(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "appointment": toAppointmentResponse(appt, h.location)})
}

func (h *AppointmentHandler) parseStart(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &domain.ValidationError{Field: "start_at", Reason: "is required"}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(localTimeLayout, raw, h.location); err == nil {
		return t, nil
	}
	return time.Time{}, &domain.ValidationError{Field: "start_at", Reason: "must be RFC 3339 or YYYY-MM-DDTHH:MM:SS"}
}

func toAppointmentResponse(a *domain.Appointment, loc *time.Location) appointmentResponse {
	lines := make([]serviceLineResponse, 0, len(a.Services))
	for _, l := range a.Services {
		lines = append(lines, serviceLineResponse{
			ID:              l.ID,
			ServiceID:       l.ServiceID,
			Name:            l.ServiceName,
			DurationMinutes: l.DurationMinutes,
			Price:           l.Price.StringFixed(2),
		})
	}
	return appointmentResponse{
		ID:            a.ID,
		SalonID:       a.SalonID,
		StaffID:       a.StaffID,
		UserID:        a.UserID,
		StartAt:       a.StartAt.In(loc).Format(time.RFC3339),
		EndAt:         a.EndAt.In(loc).Format(time.RFC3339),
		Status:        string(a.Status),
		TotalDuration: a.TotalDuration,
		TotalPrice:    a.TotalPrice.StringFixed(2),
		Notes:         a.Notes,
		Services:      lines,
		CreatedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
