package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OperatingHours maps a weekday name ("monday", "Tuesday", ...) to its
// hours string, e.g. "9:00 AM - 5:00 PM" or "Closed".
type OperatingHours map[string]string

// For returns the raw hours string for the weekday. Keys are matched
// case-insensitively; ok is false when the salon has no entry for the day.
func (h OperatingHours) For(day time.Weekday) (string, bool) {
	want := strings.ToLower(day.String())
	for k, v := range h {
		if strings.ToLower(strings.TrimSpace(k)) == want {
			return v, true
		}
	}
	return "", false
}

type Salon struct {
	ID             int64
	Name           string
	OperatingHours OperatingHours
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Staff struct {
	ID        int64
	SalonID   int64
	Name      string
	CreatedAt time.Time
}

type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
	CreatedAt       time.Time
}

// DayAvailability lists the free slot labels of one calendar date.
type DayAvailability struct {
	Date  string   `json:"date"`
	Times []string `json:"times"`
}
