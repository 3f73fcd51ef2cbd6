package netmon

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"sync"
	"time"

	"user-directory/events"
)

// DefaultProbeInterval is how often reachability is checked
const DefaultProbeInterval = 10 * time.Second

// Prober reports whether the network is reachable
type Prober func(ctx context.Context) bool

// DialProber returns a Prober that opens a TCP connection to the host of rawURL
func DialProber(rawURL string, timeout time.Duration) (Prober, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid probe url: %w", err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("invalid probe url: missing host in %q", rawURL)
	}

	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}
	addr := net.JoinHostPort(u.Hostname(), port)

	dialer := &net.Dialer{Timeout: timeout}
	return func(ctx context.Context) bool {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, nil
}

// Monitor publishes network availability as a level-triggered signal.
// Only changes are published; new subscribers receive the current level.
type Monitor struct {
	probe    Prober
	interval time.Duration
	logger   *slog.Logger
	status   *events.Subject[bool]

	mu       sync.Mutex
	current  bool
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewMonitor creates a monitor that starts out unavailable
func NewMonitor(probe Prober, interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		probe:    probe,
		interval: interval,
		logger:   logger,
		status:   events.NewReplaySubject(false),
	}
}

// Subscribe returns the availability stream
func (m *Monitor) Subscribe() (<-chan bool, func()) {
	return m.status.Subscribe()
}

// Available returns the current level
func (m *Monitor) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Set records a new level and publishes it if it changed
func (m *Monitor) Set(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == available {
		return
	}
	m.current = available
	m.logger.Info("[Network Monitor] availability changed", "available", available)
	m.status.Publish(available)
}

// Start begins probing in the background
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running || m.probe == nil {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopChan = make(chan struct{})
	m.done = make(chan struct{})
	stop, done := m.stopChan, m.done
	m.mu.Unlock()

	go m.run(stop, done)
}

// Stop halts probing and waits for the probe loop to exit
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopChan)
	done := m.done
	m.mu.Unlock()

	<-done
}

func (m *Monitor) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.check(stop)
	for {
		select {
		case <-ticker.C:
			m.check(stop)
		case <-stop:
			return
		}
	}
}

func (m *Monitor) check(stop <-chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()

	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	m.Set(m.probe(ctx))
}
