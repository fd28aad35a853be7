package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/Domenick1991/salonbooking/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetAvailability(ctx context.Context, salonID int64, date string) ([]domain.DayAvailability, error) {
	args := m.Called(ctx, salonID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DayAvailability), args.Error(1)
}

func (m *MockCache) SetAvailability(ctx context.Context, salonID int64, date string, days []domain.DayAvailability) error {
	args := m.Called(ctx, salonID, date, days)
	return args.Error(0)
}

// monday is 2026-03-02.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newStore() *memory.Store {
	store := memory.NewStore()
	store.AddSalon(domain.Salon{
		ID:   1,
		Name: "Downtown",
		OperatingHours: domain.OperatingHours{
			"monday":    "9:00 AM - 5:00 PM",
			"tuesday":   "10 AM - 2 PM",
			"wednesday": "Closed",
			"thursday":  "9 AM - 7 PM",
			"friday":    "9 AM - 5 PM",
			"saturday":  "not a time",
		},
	})
	return store
}

func book(t *testing.T, store *memory.Store, start time.Time, status domain.AppointmentStatus) {
	t.Helper()
	appt := &domain.Appointment{SalonID: 1, StaffID: 1, UserID: 1, StartAt: start, EndAt: start.Add(time.Hour), Status: status}
	require.NoError(t, store.Create(context.Background(), appt))
}

func TestAvailabilityService_Window(t *testing.T) {
	store := newStore()
	service := NewAvailabilityService(store, store)

	days, err := service.GetAvailability(context.Background(), 1, monday.Add(15*time.Hour))
	require.NoError(t, err)
	require.Len(t, days, 7)

	assert.Equal(t, "2026-03-02", days[0].Date)
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}, days[0].Times)
	assert.Equal(t, []string{"10:00", "11:00", "12:00", "13:00"}, days[1].Times)
	// closed, unparseable and missing days are all empty
	assert.Empty(t, days[2].Times)
	assert.NotNil(t, days[2].Times)
	assert.Empty(t, days[5].Times)
	assert.Empty(t, days[6].Times)
	assert.Equal(t, "2026-03-08", days[6].Date)
}

func TestAvailabilityService_RemovesBookedStarts(t *testing.T) {
	store := newStore()
	book(t, store, monday.Add(10*time.Hour), domain.AppointmentStatusBooked)
	book(t, store, monday.Add(24*time.Hour+11*time.Hour), domain.AppointmentStatusBooked)
	service := NewAvailabilityService(store, store)

	days, err := service.GetAvailability(context.Background(), 1, monday)
	require.NoError(t, err)

	assert.NotContains(t, days[0].Times, "10:00")
	assert.Len(t, days[0].Times, 7)
	assert.NotContains(t, days[1].Times, "11:00")
}

func TestAvailabilityService_OnlyExactLabelBlocks(t *testing.T) {
	store := newStore()
	book(t, store, monday.Add(9*time.Hour+30*time.Minute), domain.AppointmentStatusBooked)
	service := NewAvailabilityService(store, store)

	days, err := service.GetAvailability(context.Background(), 1, monday)
	require.NoError(t, err)

	assert.Contains(t, days[0].Times, "09:00")
	assert.Len(t, days[0].Times, 8)
}

func TestAvailabilityService_IgnoresNonBooked(t *testing.T) {
	store := newStore()
	start := monday.Add(12 * time.Hour)
	appt := &domain.Appointment{SalonID: 1, StaffID: 1, UserID: 1, StartAt: start, EndAt: start.Add(time.Hour), Status: domain.AppointmentStatusBooked}
	require.NoError(t, store.Create(context.Background(), appt))
	_, err := store.UpdateStatus(context.Background(), appt.ID, domain.AppointmentStatusBooked, domain.AppointmentStatusCancelled)
	require.NoError(t, err)

	service := NewAvailabilityService(store, store)
	days, err := service.GetAvailability(context.Background(), 1, monday)
	require.NoError(t, err)
	assert.Contains(t, days[0].Times, "12:00")
}

func TestAvailabilityService_Options(t *testing.T) {
	store := newStore()
	service := NewAvailabilityService(store, store, WithSlotMinutes(30), WithWindowDays(2))

	days, err := service.GetAvailability(context.Background(), 1, monday)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Len(t, days[0].Times, 16)
	assert.Equal(t, "09:30", days[0].Times[1])
}

func TestAvailabilityService_Location(t *testing.T) {
	store := newStore()
	loc := time.FixedZone("UTC+2", 2*60*60)
	// 08:00 UTC is 10:00 local
	book(t, store, monday.Add(8*time.Hour), domain.AppointmentStatusBooked)
	service := NewAvailabilityService(store, store, WithLocation(loc))

	days, err := service.GetAvailability(context.Background(), 1, time.Date(2026, 3, 2, 0, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.NotContains(t, days[0].Times, "10:00")
	assert.Contains(t, days[0].Times, "09:00")
}

func TestAvailabilityService_UnknownSalon(t *testing.T) {
	store := newStore()
	service := NewAvailabilityService(store, store)

	_, err := service.GetAvailability(context.Background(), 42, monday)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAvailabilityService_CacheHit(t *testing.T) {
	store := newStore()
	mockCache := &MockCache{}
	cached := []domain.DayAvailability{{Date: "2026-03-02", Times: []string{"09:00"}}}
	ctx := context.Background()

	mockCache.On("GetAvailability", ctx, int64(1), "2026-03-02").Return(cached, nil).Once()

	service := NewAvailabilityService(store, store, WithCache(mockCache))
	days, err := service.GetAvailability(ctx, 1, monday)

	assert.NoError(t, err)
	assert.Equal(t, cached, days)
	mockCache.AssertExpectations(t)
}

func TestAvailabilityService_CacheMissStores(t *testing.T) {
	store := newStore()
	mockCache := &MockCache{}
	ctx := context.Background()

	mockCache.On("GetAvailability", ctx, int64(1), "2026-03-02").Return(nil, nil).Once()
	mockCache.On("SetAvailability", ctx, int64(1), "2026-03-02", mock.AnythingOfType("[]domain.DayAvailability")).Return(nil).Once()

	service := NewAvailabilityService(store, store, WithCache(mockCache))
	days, err := service.GetAvailability(ctx, 1, monday)

	assert.NoError(t, err)
	assert.Len(t, days, 7)
	mockCache.AssertExpectations(t)
}

func TestAvailabilityService_CacheErrorsAreIgnored(t *testing.T) {
	store := newStore()
	mockCache := &MockCache{}
	ctx := context.Background()

	mockCache.On("GetAvailability", ctx, int64(1), "2026-03-02").Return(nil, errors.New("redis down")).Once()
	mockCache.On("SetAvailability", ctx, int64(1), "2026-03-02", mock.Anything).Return(errors.New("redis down")).Once()

	service := NewAvailabilityService(store, store, WithCache(mockCache))
	days, err := service.GetAvailability(ctx, 1, monday)

	assert.NoError(t, err)
	assert.Len(t, days, 7)
}
