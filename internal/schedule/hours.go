// Package schedule turns salon operating-hours strings into bookable
// slot labels for a single day.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/salonbooking/internal/domain"
)

const closedLiteral = "closed"

// DayHours is the normalized opening window of one day, expressed as
// 24-hour integer hours with 0 <= Open < Close <= 24.
type DayHours struct {
	Closed bool
	Open   int
	Close  int
}

// ClosedDay is the marker for a day without opening hours.
func ClosedDay() DayHours { return DayHours{Closed: true} }

// NewDayHours builds an open window, rejecting values outside 0..24 or
// a close hour that is not after the open hour.
func NewDayHours(open, closeHour int) (DayHours, error) {
	if open < 0 || closeHour > 24 || open >= closeHour {
		return DayHours{}, &ParseError{Input: fmt.Sprintf("%d-%d", open, closeHour), Reason: "open hour must be before close hour within 0..24"}
	}
	return DayHours{Open: open, Close: closeHour}, nil
}

type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid business hours %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == domain.ErrValidation }

// ParseDayHours parses "9:00 AM - 5:00 PM" style strings or the literal
// "Closed" (any case). Minutes are accepted only as ":00".
func ParseDayHours(raw string) (DayHours, error) {
	s := strings.TrimSpace(raw)
	if strings.EqualFold(s, closedLiteral) {
		return ClosedDay(), nil
	}

	openPart, closePart, ok := strings.Cut(s, "-")
	if !ok {
		return DayHours{}, &ParseError{Input: raw, Reason: `expected "<open> - <close>" or "Closed"`}
	}
	open, err := parseClock(openPart)
	if err != nil {
		return DayHours{}, &ParseError{Input: raw, Reason: "open time: " + err.Error()}
	}
	closeHour, err := parseClock(closePart)
	if err != nil {
		return DayHours{}, &ParseError{Input: raw, Reason: "close time: " + err.Error()}
	}
	if closeHour <= open {
		return DayHours{}, &ParseError{Input: raw, Reason: "close time must be after open time"}
	}
	return DayHours{Open: open, Close: closeHour}, nil
}

// Resolve returns the hours for the given weekday. A weekday without an
// entry is closed.
func Resolve(hours domain.OperatingHours, day time.Weekday) (DayHours, error) {
	raw, ok := hours.For(day)
	if !ok {
		return ClosedDay(), nil
	}
	return ParseDayHours(raw)
}

// parseClock converts a 12-hour clock value ("9:00 AM", "12 PM", "5:00pm")
// into a 24-hour integer hour. 12 AM is 0 and 12 PM is 12.
func parseClock(raw string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	var pm bool
	switch {
	case strings.HasSuffix(s, "AM"):
	case strings.HasSuffix(s, "PM"):
		pm = true
	default:
		return 0, fmt.Errorf("missing AM/PM in %q", strings.TrimSpace(raw))
	}
	body := strings.TrimSpace(s[:len(s)-2])

	hourText, minuteText, hasMinutes := strings.Cut(body, ":")
	hour, err := strconv.Atoi(hourText)
	if err != nil || len(hourText) > 2 || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("hour must be 1..12 in %q", strings.TrimSpace(raw))
	}
	if hasMinutes {
		minute, err := strconv.Atoi(minuteText)
		if err != nil || len(minuteText) != 2 || minute < 0 || minute > 59 {
			return 0, fmt.Errorf("minutes must be two digits in %q", strings.TrimSpace(raw))
		}
		if minute != 0 {
			return 0, fmt.Errorf("only whole hours are supported, got %q", strings.TrimSpace(raw))
		}
	}

	switch {
	case hour == 12 && !pm:
		return 0, nil
	case hour == 12 && pm:
		return 12, nil
	case pm:
		return hour + 12, nil
	default:
		return hour, nil
	}
}
