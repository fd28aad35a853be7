package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidStaff       = errors.New("staff member does not belong to the salon")
	ErrInvalidServices    = errors.New("invalid services")
	ErrSchedulingConflict = errors.New("staff member already has an appointment during the selected time")
	ErrInvalidTransition  = errors.New("appointment status transition not allowed")
	ErrPersistence        = errors.New("persistence failure")
	ErrLockTimeout        = errors.New("staff schedule is busy, try again")
)

type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InvalidServicesError reports the full requested set alongside the ids
// that could not be resolved.
type InvalidServicesError struct {
	Requested []int64
	Missing   []int64
}

func (e *InvalidServicesError) Error() string {
	if len(e.Requested) == 0 {
		return "at least one service is required"
	}
	return fmt.Sprintf("invalid services: requested [%s], not found [%s]", joinIDs(e.Requested), joinIDs(e.Missing))
}

func (e *InvalidServicesError) Is(target error) bool { return target == ErrInvalidServices }

type TransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move appointment from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ", ")
}
