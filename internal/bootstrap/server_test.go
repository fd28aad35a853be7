package bootstrap

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/salonbooking/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestServers_RunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.Address = "127.0.0.1:0"

	s := NewServers(cfg, http.NotFoundHandler(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("servers did not stop")
	}
}

func TestServers_ListenError(t *testing.T) {
	s := NewServers(config.Default(), http.NotFoundHandler(), zap.NewNop())
	err := s.Run(context.Background(), "256.0.0.1:bad")
	assert.Error(t, err)
}
