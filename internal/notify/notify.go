// Package notify turns appointment events into customer notifications.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"go.uber.org/zap"
)

type Notification struct {
	UserID        int64
	AppointmentID int64
	Subject       string
	Body          string
}

type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender writes notifications to the log instead of a delivery channel.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, n Notification) error {
	s.logger.Info("notification sent",
		zap.Int64("user_id", n.UserID),
		zap.Int64("appointment_id", n.AppointmentID),
		zap.String("subject", n.Subject),
		zap.String("body", n.Body))
	return nil
}

const dedupWindow = 4096

// Dispatcher decodes broker payloads and forwards them to a Sender. Events
// already handled are skipped, since both brokers deliver at least once.
type Dispatcher struct {
	sender   Sender
	logger   *zap.Logger
	location *time.Location

	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

func NewDispatcher(sender Sender, logger *zap.Logger, loc *time.Location) *Dispatcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Dispatcher{
		sender:   sender,
		logger:   logger,
		location: loc,
		seen:     make(map[string]struct{}),
	}
}

func (d *Dispatcher) Handle(ctx context.Context, payload []byte) error {
	var event domain.AppointmentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("decode appointment event: %w", err)
	}
	if event.ID != "" && !d.remember(event.ID) {
		d.logger.Debug("duplicate event skipped", zap.String("event_id", event.ID))
		return nil
	}

	n, ok := d.render(event)
	if !ok {
		d.logger.Warn("unknown event type", zap.String("type", string(event.Type)))
		return nil
	}
	return d.sender.Send(ctx, n)
}

func (d *Dispatcher) render(e domain.AppointmentEvent) (Notification, bool) {
	when := e.StartAt.In(d.location).Format("Mon, 02 Jan 2006 15:04")
	n := Notification{UserID: e.UserID, AppointmentID: e.AppointmentID}
	switch e.Type {
	case domain.EventAppointmentBooked:
		n.Subject = "Your appointment is booked"
		n.Body = fmt.Sprintf("See you on %s. Total: %s.", when, e.TotalPrice)
	case domain.EventAppointmentCancelled:
		n.Subject = "Your appointment was cancelled"
		n.Body = fmt.Sprintf("The appointment on %s has been cancelled.", when)
	case domain.EventAppointmentCompleted:
		n.Subject = "Thanks for visiting"
		n.Body = fmt.Sprintf("Your appointment on %s is complete.", when)
	default:
		return Notification{}, false
	}
	return n, true
}

// remember reports false if id was seen before.
func (d *Dispatcher) remember(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)
	if len(d.order) > dedupWindow {
		delete(d.seen, d.order[0])
		d.order = d.order[1:]
	}
	return true
}
