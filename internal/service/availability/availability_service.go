package availability

import (
	"context"
	"time"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/Domenick1991/salonbooking/internal/repository"
	"github.com/Domenick1991/salonbooking/internal/schedule"
	"go.uber.org/zap"
)

const (
	DateLayout        = "2006-01-02"
	DefaultWindowDays = 7
)

type AvailabilityUseCase interface {
	GetAvailability(ctx context.Context, salonID int64, referenceDate time.Time) ([]domain.DayAvailability, error)
}

// Cache stores computed windows keyed by salon and reference date. A miss
// is reported as (nil, nil).
type Cache interface {
	GetAvailability(ctx context.Context, salonID int64, date string) ([]domain.DayAvailability, error)
	SetAvailability(ctx context.Context, salonID int64, date string, days []domain.DayAvailability) error
}

type AvailabilityService struct {
	salons       repository.SalonRepository
	appointments repository.AppointmentRepository
	cache        Cache
	logger       *zap.Logger
	location     *time.Location
	slotMinutes  int
	windowDays   int
}

type Option func(*AvailabilityService)

func WithCache(cache Cache) Option {
	return func(s *AvailabilityService) { s.cache = cache }
}

func WithLocation(loc *time.Location) Option {
	return func(s *AvailabilityService) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithSlotMinutes(minutes int) Option {
	return func(s *AvailabilityService) {
		if minutes > 0 {
			s.slotMinutes = minutes
		}
	}
}

func WithWindowDays(days int) Option {
	return func(s *AvailabilityService) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *AvailabilityService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewAvailabilityService(salons repository.SalonRepository, appointments repository.AppointmentRepository, opts ...Option) *AvailabilityService {
	s := &AvailabilityService{
		salons:       salons,
		appointments: appointments,
		logger:       zap.NewNop(),
		location:     time.UTC,
		slotMinutes:  schedule.DefaultSlotMinutes,
		windowDays:   DefaultWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAvailability lists free slots for windowDays calendar days starting at
// the date of referenceDate. A slot is taken only when a booked appointment
// starts exactly on its label.
func (s *AvailabilityService) GetAvailability(ctx context.Context, salonID int64, referenceDate time.Time) ([]domain.DayAvailability, error) {
	salon, err := s.salons.GetSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}

	first := startOfDay(referenceDate, s.location)
	key := first.Format(DateLayout)

	if s.cache != nil {
		cached, err := s.cache.GetAvailability(ctx, salonID, key)
		if err != nil {
			s.logger.Warn("availability cache read failed", zap.Int64("salon_id", salonID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	last := first.AddDate(0, 0, s.windowDays)
	booked, err := s.appointments.ListBySalon(ctx, salonID, domain.AppointmentStatusBooked, first, last)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]map[string]struct{}, s.windowDays)
	for _, appt := range booked {
		start := appt.StartAt.In(s.location)
		date := start.Format(DateLayout)
		if taken[date] == nil {
			taken[date] = make(map[string]struct{})
		}
		taken[date][schedule.Label(start.Hour()*60+start.Minute())] = struct{}{}
	}

	days := make([]domain.DayAvailability, 0, s.windowDays)
	for i := 0; i < s.windowDays; i++ {
		day := first.AddDate(0, 0, i)
		date := day.Format(DateLayout)

		hours, err := schedule.Resolve(salon.OperatingHours, day.Weekday())
		if err != nil {
			s.logger.Warn("unparseable operating hours, treating day as closed",
				zap.Int64("salon_id", salonID), zap.String("weekday", day.Weekday().String()), zap.Error(err))
			hours = schedule.ClosedDay()
		}

		times := make([]string, 0)
		for slot := range schedule.Slots(hours, s.slotMinutes) {
			if _, ok := taken[date][slot]; ok {
				continue
			}
			times = append(times, slot)
		}
		days = append(days, domain.DayAvailability{Date: date, Times: times})
	}

	if s.cache != nil {
		if err := s.cache.SetAvailability(ctx, salonID, key, days); err != nil {
			s.logger.Warn("availability cache write failed", zap.Int64("salon_id", salonID), zap.Error(err))
		}
	}
	return days, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

var _ AvailabilityUseCase = (*AvailabilityService)(nil)
