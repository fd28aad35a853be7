package domain

import "time"

type EventType string

const (
	EventAppointmentBooked    EventType = "appointment.booked"
	EventAppointmentCancelled EventType = "appointment.cancelled"
	EventAppointmentCompleted EventType = "appointment.completed"
)

// AppointmentEvent is published after an appointment changes state.
type AppointmentEvent struct {
	ID            string            `json:"id"`
	Type          EventType         `json:"type"`
	AppointmentID int64             `json:"appointment_id"`
	SalonID       int64             `json:"salon_id"`
	StaffID       int64             `json:"staff_id"`
	UserID        int64             `json:"user_id"`
	Status        AppointmentStatus `json:"status"`
	StartAt       time.Time         `json:"start_at"`
	EndAt         time.Time         `json:"end_at"`
	TotalPrice    string            `json:"total_price"`
	OccurredAt    time.Time         `json:"occurred_at"`
}
