package schedule

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlots_NineToFive(t *testing.T) {
	h, err := ParseDayHours("9:00 AM - 5:00 PM")
	assert.NoError(t, err)

	got := SlotList(h, DefaultSlotMinutes)
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}, got)
}

func TestSlots_Granularity(t *testing.T) {
	got := SlotList(DayHours{Open: 9, Close: 11}, 30)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, got)

	got = SlotList(DayHours{Open: 9, Close: 10}, 45)
	assert.Equal(t, []string{"09:00", "09:45"}, got)
}

func TestSlots_DefaultsStep(t *testing.T) {
	assert.Equal(t, []string{"22:00", "23:00"}, SlotList(DayHours{Open: 22, Close: 24}, 0))
}

func TestSlots_Empty(t *testing.T) {
	assert.Equal(t, []string{}, SlotList(ClosedDay(), 60))
	assert.Equal(t, []string{}, SlotList(DayHours{Open: 10, Close: 10}, 60))
}

func TestSlots_Restartable(t *testing.T) {
	seq := Slots(DayHours{Open: 9, Close: 12}, 60)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)

	var taken []string
	for s := range seq {
		taken = append(taken, s)
		if len(taken) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"09:00", "10:00"}, taken)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "00:00", Label(0))
	assert.Equal(t, "09:05", Label(9*60+5))
	assert.Equal(t, "23:59", Label(23*60+59))
}
