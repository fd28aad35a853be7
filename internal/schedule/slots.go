package schedule

import (
	"fmt"
	"iter"
	"slices"
)

const DefaultSlotMinutes = 60

// Slots yields the "HH:MM" start labels open, open+step, ... strictly before
// close. The sequence is empty for a closed day and can be ranged over any
// number of times. Non-positive steps fall back to DefaultSlotMinutes.
func Slots(h DayHours, stepMinutes int) iter.Seq[string] {
	if stepMinutes <= 0 {
		stepMinutes = DefaultSlotMinutes
	}
	return func(yield func(string) bool) {
		if h.Closed || h.Open >= h.Close {
			return
		}
		end := min(h.Close, 24) * 60
		for m := max(h.Open, 0) * 60; m < end; m += stepMinutes {
			if !yield(Label(m)) {
				return
			}
		}
	}
}

// SlotList collects Slots into a slice; a closed day yields an empty,
// non-nil slice so it encodes as [].
func SlotList(h DayHours, stepMinutes int) []string {
	out := slices.Collect(Slots(h, stepMinutes))
	if out == nil {
		return []string{}
	}
	return out
}

// Label formats minutes since midnight as zero-padded "HH:MM".
func Label(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
