package booking

import (
	"context"
	"time"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/Domenick1991/salonbooking/internal/repository"
)

type ConflictDetector struct {
	appointments repository.AppointmentRepository
}

func NewConflictDetector(appointments repository.AppointmentRepository) *ConflictDetector {
	return &ConflictDetector{appointments: appointments}
}

// HasConflict reports whether an active appointment of the staff member
// overlaps [start, end). Back-to-back appointments are not conflicts.
func (d *ConflictDetector) HasConflict(ctx context.Context, staffID int64, start, end time.Time) (bool, error) {
	existing, err := d.appointments.ListActiveByStaff(ctx, staffID)
	if err != nil {
		return false, err
	}
	for _, appt := range existing {
		if appt.Status.Active() && domain.Overlaps(appt.StartAt, appt.EndAt, start, end) {
			return true, nil
		}
	}
	return false, nil
}
