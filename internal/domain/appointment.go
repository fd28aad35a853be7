package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AppointmentStatus string

const (
	// AppointmentStatusPending is a pre-booked hold. Nothing in the public
	// booking flow creates it yet, but conflict detection already treats it
	// as occupying the staff member.
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

var transitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending: {AppointmentStatusBooked, AppointmentStatusCancelled},
	AppointmentStatusBooked:  {AppointmentStatusCancelled, AppointmentStatusCompleted},
}

// ParseAppointmentStatus accepts only the closed set of lifecycle states.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch st := AppointmentStatus(s); st {
	case AppointmentStatusPending, AppointmentStatusBooked, AppointmentStatusCancelled, AppointmentStatusCompleted:
		return st, nil
	}
	return "", &ValidationError{Field: "status", Reason: "unknown appointment status " + s}
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active statuses block the staff member's time.
func (s AppointmentStatus) Active() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusBooked
}

func (s AppointmentStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// ActiveStatuses lists the statuses considered by conflict detection.
func ActiveStatuses() []AppointmentStatus {
	return []AppointmentStatus{AppointmentStatusPending, AppointmentStatusBooked}
}

type Appointment struct {
	ID            int64
	SalonID       int64
	StaffID       int64
	UserID        int64
	StartAt       time.Time
	EndAt         time.Time
	Status        AppointmentStatus
	TotalPrice    decimal.Decimal
	TotalDuration int
	Notes         string
	Services      []AppointmentServiceLine
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AppointmentServiceLine snapshots a service at booking time. Lines are
// written together with their appointment and never changed afterwards.
type AppointmentServiceLine struct {
	ID              int64
	AppointmentID   int64
	ServiceID       int64
	ServiceName     string
	DurationMinutes int
	Price           decimal.Decimal
}

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// intersect, i.e. max(s1, s2) < min(e1, e2). Touching intervals do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	start := s1
	if s2.After(start) {
		start = s2
	}
	end := e1
	if e2.Before(end) {
		end = e2
	}
	return start.Before(end)
}
