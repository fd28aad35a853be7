package api

import (
	"time"

	"github.com/Domenick1991/salonbooking/internal/service/availability"
	"github.com/Domenick1991/salonbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	JWTSecret string
	Location  *time.Location
	Checks    map[string]Check
	Logger    *zap.Logger
}

func NewRouter(cfg RouterConfig, availabilitySvc availability.AvailabilityUseCase, bookingSvc booking.BookingUseCase) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	NewHealthHandler(cfg.Checks).Register(router)
	RegisterDocs(router)

	NewSalonHandler(availabilitySvc, cfg.Location, logger).Register(router.Group("/salons"))

	appointments := router.Group("/appointments", JWTAuth(cfg.JWTSecret))
	NewAppointmentHandler(bookingSvc, cfg.Location, logger).Register(appointments)

	return router
}
