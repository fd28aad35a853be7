package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayHours(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  DayHours
	}{
		{"standard day", "9:00 AM - 5:00 PM", DayHours{Open: 9, Close: 17}},
		{"no spaces", "9:00AM-5:00PM", DayHours{Open: 9, Close: 17}},
		{"lower case meridiem", "10:00 am - 6:00 pm", DayHours{Open: 10, Close: 18}},
		{"hour only", "8 AM - 12 PM", DayHours{Open: 8, Close: 12}},
		{"midnight open", "12:00 AM - 6:00 AM", DayHours{Open: 0, Close: 6}},
		{"noon open", "12:00 PM - 11:00 PM", DayHours{Open: 12, Close: 23}},
		{"zero padded hour", "09:00 AM - 05:00 PM", DayHours{Open: 9, Close: 17}},
		{"closed", "Closed", DayHours{Closed: true}},
		{"closed any case", "  cLoSeD ", DayHours{Closed: true}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDayHours(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDayHours_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no separator", "9:00 AM 5:00 PM"},
		{"missing meridiem", "9:00 - 17:00"},
		{"hour out of range", "13:00 PM - 5:00 PM"},
		{"hour zero", "0:00 AM - 5:00 PM"},
		{"bad minutes", "9:0 AM - 5:00 PM"},
		{"half hour", "9:30 AM - 5:00 PM"},
		{"close before open", "5:00 PM - 9:00 AM"},
		{"close equals open", "9:00 AM - 9:00 AM"},
		{"midnight close", "9:00 AM - 12:00 AM"},
		{"garbage", "open all day"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDayHours(tc.input)
			require.Error(t, err)

			var perr *ParseError
			assert.True(t, errors.As(err, &perr))
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestResolve(t *testing.T) {
	hours := domain.OperatingHours{
		"monday": "9:00 AM - 5:00 PM",
		"Sunday": "Closed",
		"friday": "nonsense",
	}

	got, err := Resolve(hours, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, DayHours{Open: 9, Close: 17}, got)

	got, err = Resolve(hours, time.Sunday)
	require.NoError(t, err)
	assert.True(t, got.Closed)

	got, err = Resolve(hours, time.Wednesday)
	require.NoError(t, err)
	assert.True(t, got.Closed, "missing weekday is closed")

	_, err = Resolve(hours, time.Friday)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewDayHours(t *testing.T) {
	h, err := NewDayHours(0, 24)
	require.NoError(t, err)
	assert.Equal(t, DayHours{Open: 0, Close: 24}, h)

	_, err = NewDayHours(10, 10)
	assert.Error(t, err)
	_, err = NewDayHours(-1, 10)
	assert.Error(t, err)
	_, err = NewDayHours(10, 25)
	assert.Error(t, err)
}
