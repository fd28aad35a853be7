package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	testCases := []struct {
		name   string
		s1, e1 int
		s2, e2 int
		want   bool
	}{
		{"identical", 0, 60, 0, 60, true},
		{"new starts inside", 0, 60, 30, 90, true},
		{"new ends inside", 30, 90, 0, 60, true},
		{"existing contains new", 0, 120, 30, 60, true},
		{"new contains existing", 30, 60, 0, 120, true},
		{"back to back after", 0, 60, 60, 120, false},
		{"back to back before", 60, 120, 0, 60, false},
		{"disjoint", 0, 30, 90, 120, false},
		{"one minute overlap", 0, 61, 60, 120, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(at(tc.s1), at(tc.e1), at(tc.s2), at(tc.e2)))
			assert.Equal(t, tc.want, Overlaps(at(tc.s2), at(tc.e2), at(tc.s1), at(tc.e1)), "predicate must be symmetric")
		})
	}
}

func TestAppointmentStatus_CanTransition(t *testing.T) {
	assert.True(t, AppointmentStatusBooked.CanTransition(AppointmentStatusCancelled))
	assert.True(t, AppointmentStatusBooked.CanTransition(AppointmentStatusCompleted))
	assert.False(t, AppointmentStatusCancelled.CanTransition(AppointmentStatusBooked))
	assert.False(t, AppointmentStatusCancelled.CanTransition(AppointmentStatusCompleted))
	assert.False(t, AppointmentStatusCompleted.CanTransition(AppointmentStatusCancelled))
	assert.False(t, AppointmentStatusBooked.CanTransition(AppointmentStatusPending))

	assert.True(t, AppointmentStatusCancelled.Terminal())
	assert.True(t, AppointmentStatusCompleted.Terminal())
	assert.False(t, AppointmentStatusBooked.Terminal())

	assert.True(t, AppointmentStatusPending.Active())
	assert.True(t, AppointmentStatusBooked.Active())
	assert.False(t, AppointmentStatusCancelled.Active())
}

func TestParseAppointmentStatus(t *testing.T) {
	st, err := ParseAppointmentStatus("booked")
	assert.NoError(t, err)
	assert.Equal(t, AppointmentStatusBooked, st)

	_, err = ParseAppointmentStatus("BOOKED")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestOperatingHours_For(t *testing.T) {
	hours := OperatingHours{"Monday": "9:00 AM - 5:00 PM", "sunday": "Closed"}

	v, ok := hours.For(time.Monday)
	assert.True(t, ok)
	assert.Equal(t, "9:00 AM - 5:00 PM", v)

	v, ok = hours.For(time.Sunday)
	assert.True(t, ok)
	assert.Equal(t, "Closed", v)

	_, ok = hours.For(time.Tuesday)
	assert.False(t, ok)
}

func TestErrorsMatchSentinels(t *testing.T) {
	assert.ErrorIs(t, &NotFoundError{Entity: "salon", ID: 1}, ErrNotFound)
	assert.ErrorIs(t, &InvalidServicesError{Requested: []int64{1, 2}, Missing: []int64{2}}, ErrInvalidServices)
	assert.ErrorIs(t, &TransitionError{From: AppointmentStatusCompleted, To: AppointmentStatusCancelled}, ErrInvalidTransition)

	cause := errors.New("connection reset")
	perr := &PersistenceError{Op: "insert appointment", Err: cause}
	assert.ErrorIs(t, perr, ErrPersistence)
	assert.ErrorIs(t, perr, cause)

	assert.Equal(t, "invalid services: requested [1, 2], not found [2]", (&InvalidServicesError{Requested: []int64{1, 2}, Missing: []int64{2}}).Error())
}
