package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, n Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func payload(t *testing.T, e domain.AppointmentEvent) []byte {
	t.Helper()
	data, err := json.Marshal(e)
	require.NoError(t, err)
	return data
}

func TestDispatcher_Booked(t *testing.T) {
	sender := &MockSender{}
	d := NewDispatcher(sender, zap.NewNop(), time.UTC)
	ctx := context.Background()

	sender.On("Send", ctx, Notification{
		UserID:        7,
		AppointmentID: 3,
		Subject:       "Your appointment is booked",
		Body:          "See you on Mon, 01 Jan 2024 09:00. Total: 55.00.",
	}).Return(nil).Once()

	err := d.Handle(ctx, payload(t, domain.AppointmentEvent{
		ID: "e1", Type: domain.EventAppointmentBooked, AppointmentID: 3, UserID: 7,
		StartAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), TotalPrice: "55.00",
	}))
	assert.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestDispatcher_SkipsDuplicates(t *testing.T) {
	sender := &MockSender{}
	d := NewDispatcher(sender, zap.NewNop(), nil)
	ctx := context.Background()
	sender.On("Send", ctx, mock.Anything).Return(nil).Once()

	body := payload(t, domain.AppointmentEvent{ID: "e1", Type: domain.EventAppointmentCancelled})
	require.NoError(t, d.Handle(ctx, body))
	require.NoError(t, d.Handle(ctx, body))

	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestDispatcher_UnknownAndBadPayload(t *testing.T) {
	sender := &MockSender{}
	d := NewDispatcher(sender, zap.NewNop(), nil)

	assert.NoError(t, d.Handle(context.Background(), payload(t, domain.AppointmentEvent{ID: "x", Type: "appointment.moved"})))
	assert.Error(t, d.Handle(context.Background(), []byte("{")))
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDispatcher_DedupWindowIsBounded(t *testing.T) {
	d := NewDispatcher(&MockSender{}, zap.NewNop(), nil)
	for i := 0; i < dedupWindow+10; i++ {
		d.remember(time.Duration(i).String())
	}
	assert.Len(t, d.seen, dedupWindow)
	assert.Len(t, d.order, dedupWindow)
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, NewLogSender(zap.NewNop()).Send(context.Background(), Notification{Subject: "hi"}))
}
