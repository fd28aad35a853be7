package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/Domenick1991/salonbooking/internal/lock"
	"github.com/Domenick1991/salonbooking/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	Create(ctx context.Context, actor Actor, input CreateAppointmentInput) (*domain.Appointment, error)
	Get(ctx context.Context, actor Actor, id int64) (*domain.Appointment, error)
	List(ctx context.Context, actor Actor) ([]domain.Appointment, error)
	Cancel(ctx context.Context, actor Actor, id int64) (*domain.Appointment, error)
	Complete(ctx context.Context, actor Actor, id int64) (*domain.Appointment, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Invalidator drops cached availability after the salon's bookings change.
type Invalidator interface {
	InvalidateSalon(ctx context.Context, salonID int64) error
}

// Actor is the authenticated caller.
type Actor struct {
	UserID int64
	Role   string
}

type CreateAppointmentInput struct {
	SalonID    int64
	StaffID    int64
	StartAt    time.Time
	ServiceIDs []int64
	Notes      string
}

type BookingService struct {
	salons       repository.SalonRepository
	appointments repository.AppointmentRepository
	aggregator   *ServiceAggregator
	conflicts    *ConflictDetector
	locker       lock.Locker
	invalidator  Invalidator
	producer     Producer
	topic        string
	privileged   []string
	logger       *zap.Logger
	now          func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithLocker(l lock.Locker) BookingServiceOption {
	return func(s *BookingService) { s.locker = l }
}

func WithInvalidator(inv Invalidator) BookingServiceOption {
	return func(s *BookingService) { s.invalidator = inv }
}

func WithProducer(p Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = p
		s.topic = topic
	}
}

// WithPrivilegedRoles lists roles that may act on any user's appointments.
func WithPrivilegedRoles(roles ...string) BookingServiceOption {
	return func(s *BookingService) { s.privileged = roles }
}

func WithLogger(logger *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewBookingService(
	salons repository.SalonRepository,
	appointments repository.AppointmentRepository,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		salons:       salons,
		appointments: appointments,
		aggregator:   NewServiceAggregator(salons),
		conflicts:    NewConflictDetector(appointments),
		locker:       lock.NewLocalLocker(0),
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Create(ctx context.Context, actor Actor, input CreateAppointmentInput) (*domain.Appointment, error) {
	if input.StartAt.IsZero() {
		return nil, &domain.ValidationError{Field: "start_at", Reason: "is required"}
	}

	if _, err := s.salons.GetSalon(ctx, input.SalonID); err != nil {
		return nil, err
	}

	staff, err := s.salons.GetStaff(ctx, input.StaffID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff %d not found", domain.ErrInvalidStaff, input.StaffID)
		}
		return nil, err
	}
	if staff.SalonID != input.SalonID {
		return nil, fmt.Errorf("%w: staff %d does not belong to salon %d", domain.ErrInvalidStaff, input.StaffID, input.SalonID)
	}

	agg, err := s.aggregator.Aggregate(ctx, input.ServiceIDs)
	if err != nil {
		return nil, err
	}

	appt := &domain.Appointment{
		SalonID:       input.SalonID,
		StaffID:       input.StaffID,
		UserID:        actor.UserID,
		StartAt:       input.StartAt,
		EndAt:         input.StartAt.Add(time.Duration(agg.TotalDuration) * time.Minute),
		Status:        domain.AppointmentStatusBooked,
		TotalPrice:    agg.TotalPrice,
		TotalDuration: agg.TotalDuration,
		Notes:         input.Notes,
		Services:      agg.Lines,
	}

	if err := s.reserve(ctx, appt); err != nil {
		return nil, err
	}

	s.logger.Info("appointment booked",
		zap.Int64("appointment_id", appt.ID),
		zap.Int64("staff_id", appt.StaffID),
		zap.Time("start_at", appt.StartAt),
		zap.Time("end_at", appt.EndAt))

	s.afterChange(ctx, domain.EventAppointmentBooked, appt)
	return appt, nil
}

// reserve runs the conflict check and the insert under the staff lock.
func (s *BookingService) reserve(ctx context.Context, appt *domain.Appointment) error {
	if s.locker != nil {
		release, err := s.locker.LockStaff(ctx, appt.StaffID)
		if err != nil {
			return err
		}
		defer release()
	}

	conflict, err := s.conflicts.HasConflict(ctx, appt.StaffID, appt.StartAt, appt.EndAt)
	if err != nil {
		return err
	}
	if conflict {
		return domain.ErrSchedulingConflict
	}
	return s.appointments.Create(ctx, appt)
}

func (s *BookingService) Get(ctx context.Context, actor Actor, id int64) (*domain.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(actor, appt) {
		return nil, &domain.NotFoundError{Entity: "appointment", ID: id}
	}
	return appt, nil
}

func (s *BookingService) List(ctx context.Context, actor Actor) ([]domain.Appointment, error) {
	return s.appointments.ListByUser(ctx, actor.UserID)
}

// Cancel is idempotent: cancelling a cancelled appointment returns it
// unchanged and emits nothing.
func (s *BookingService) Cancel(ctx context.Context, actor Actor, id int64) (*domain.Appointment, error) {
	current, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.AppointmentStatusCancelled {
		return current, nil
	}

	updated, err := s.transition(ctx, current, domain.AppointmentStatusCancelled)
	if errors.Is(err, domain.ErrInvalidTransition) {
		// lost a race with another cancel
		if latest, getErr := s.appointments.GetByID(ctx, id); getErr == nil && latest.Status == domain.AppointmentStatusCancelled {
			return latest, nil
		}
	}
	if err != nil {
		return nil, err
	}

	s.afterChange(ctx, domain.EventAppointmentCancelled, updated)
	return updated, nil
}

func (s *BookingService) Complete(ctx context.Context, actor Actor, id int64) (*domain.Appointment, error) {
	current, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.AppointmentStatusBooked {
		return nil, &domain.TransitionError{From: current.Status, To: domain.AppointmentStatusCompleted}
	}

	updated, err := s.transition(ctx, current, domain.AppointmentStatusCompleted)
	if err != nil {
		return nil, err
	}

	s.afterChange(ctx, domain.EventAppointmentCompleted, updated)
	return updated, nil
}

func (s *BookingService) transition(ctx context.Context, current *domain.Appointment, to domain.AppointmentStatus) (*domain.Appointment, error) {
	if !current.Status.CanTransition(to) {
		return nil, &domain.TransitionError{From: current.Status, To: to}
	}
	updated, err := s.appointments.UpdateStatus(ctx, current.ID, current.Status, to)
	if err != nil {
		return nil, err
	}
	s.logger.Info("appointment status changed",
		zap.Int64("appointment_id", updated.ID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(to)))
	return updated, nil
}

func (s *BookingService) canAccess(actor Actor, appt *domain.Appointment) bool {
	return appt.UserID == actor.UserID || (actor.Role != "" && slices.Contains(s.privileged, actor.Role))
}

// afterChange invalidates cached availability and publishes the event.
// Neither failure affects the already committed change.
func (s *BookingService) afterChange(ctx context.Context, eventType domain.EventType, appt *domain.Appointment) {
	if s.invalidator != nil {
		if err := s.invalidator.InvalidateSalon(ctx, appt.SalonID); err != nil {
			s.logger.Warn("failed to invalidate availability cache", zap.Int64("salon_id", appt.SalonID), zap.Error(err))
		}
	}
	if err := s.publish(ctx, eventType, appt); err != nil {
		s.logger.Warn("failed to publish appointment event",
			zap.String("type", string(eventType)),
			zap.Int64("appointment_id", appt.ID),
			zap.Error(err))
	}
}

func (s *BookingService) publish(ctx context.Context, eventType domain.EventType, appt *domain.Appointment) error {
	if s.producer == nil || s.topic == "" {
		return nil
	}
	event := domain.AppointmentEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		AppointmentID: appt.ID,
		SalonID:       appt.SalonID,
		StaffID:       appt.StaffID,
		UserID:        appt.UserID,
		Status:        appt.Status,
		StartAt:       appt.StartAt,
		EndAt:         appt.EndAt,
		TotalPrice:    appt.TotalPrice.StringFixed(2),
		OccurredAt:    s.now().UTC(),
	}
	return s.producer.Publish(ctx, s.topic, strconv.FormatInt(appt.ID, 10), event)
}

var _ BookingUseCase = (*BookingService)(nil)
