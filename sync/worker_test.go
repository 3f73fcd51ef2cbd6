package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"user-directory/models"
	"user-directory/netmon"
	"user-directory/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockDirectory is a mock implementation of Directory
type MockDirectory struct {
	mock.Mock
}

var _ Directory = (*MockDirectory)(nil)

func (m *MockDirectory) FetchUsers(ctx context.Context) (*services.FetchResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.FetchResult), args.Error(1)
}

func (m *MockDirectory) ReloadLocal(ctx context.Context) []models.User {
	args := m.Called(ctx)
	return args.Get(0).([]models.User)
}

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", want)
	}
}

func TestWorker_ReactsToAvailability(t *testing.T) {
	calls := make(chan string, 16)
	dir := new(MockDirectory)
	dir.On("ReloadLocal", mock.Anything).Return([]models.User{}).Run(func(mock.Arguments) { calls <- "reload" })
	dir.On("FetchUsers", mock.Anything).Return(&services.FetchResult{Imported: 1}, nil).Run(func(mock.Arguments) { calls <- "fetch" })

	monitor := netmon.NewMonitor(nil, time.Second, nil)
	w := NewWorker(dir, monitor, time.Hour, 2*time.Hour, nil)
	w.Start()
	defer w.Stop()

	// Initial level is unavailable
	waitFor(t, calls, "reload")

	monitor.Set(true)
	waitFor(t, calls, "fetch")

	monitor.Set(false)
	waitFor(t, calls, "reload")
}

func TestWorker_AdaptiveInterval(t *testing.T) {
	tests := []struct {
		name   string
		result *services.FetchResult
		err    error
		want   time.Duration
	}{
		{name: "Nothing imported backs off", result: &services.FetchResult{}, want: 2 * time.Hour},
		{name: "Imported users keep base interval", result: &services.FetchResult{Imported: 3}, want: time.Hour},
		{name: "Failure keeps base interval", err: errors.New("offline"), want: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := make(chan string, 16)
			dir := new(MockDirectory)
			dir.On("ReloadLocal", mock.Anything).Return([]models.User{}).Run(func(mock.Arguments) { calls <- "reload" })
			dir.On("FetchUsers", mock.Anything).Return(tt.result, tt.err).Run(func(mock.Arguments) { calls <- "fetch" })

			monitor := netmon.NewMonitor(nil, time.Second, nil)
			w := NewWorker(dir, monitor, time.Hour, 2*time.Hour, nil)
			w.Start()

			waitFor(t, calls, "reload")
			monitor.Set(true)
			waitFor(t, calls, "fetch")
			w.Stop()

			assert.Equal(t, tt.want, w.Interval())
		})
	}
}

func TestWorker_StartStopIdempotent(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("ReloadLocal", mock.Anything).Return([]models.User{}).Maybe()

	w := NewWorker(dir, netmon.NewMonitor(nil, time.Second, nil), 0, 0, nil)
	w.Stop()
	w.Start()
	w.Start()
	w.Stop()
	w.Stop()

	assert.Equal(t, 2*time.Minute, w.Interval())
}
