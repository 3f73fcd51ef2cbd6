package app

import (
	"sync"
	"time"

	"user-directory/models"

	"github.com/google/uuid"
)

// ErrorEvent is a published error as reported by the status endpoint
type ErrorEvent struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// ErrorLog keeps the most recent errors from the error stream
type ErrorLog struct {
	mu      sync.Mutex
	entries []ErrorEvent
	limit   int
	cancel  func()
	done    chan struct{}
}

func NewErrorLog(limit int) *ErrorLog {
	if limit <= 0 {
		limit = 50
	}
	return &ErrorLog{limit: limit}
}

// Follow records every error from ch until it is closed.
// cancel ends the subscription behind ch and is called by Stop.
func (l *ErrorLog) Follow(ch <-chan error, cancel func()) {
	done := make(chan struct{})

	l.mu.Lock()
	l.cancel = cancel
	l.done = done
	l.mu.Unlock()

	go func() {
		defer close(done)
		for err := range ch {
			l.Record(err)
		}
	}()
}

// Stop cancels the followed subscription and waits for the follower to exit
func (l *ErrorLog) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (l *ErrorLog) Record(err error) {
	if err == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, ErrorEvent{
		ID:      uuid.New().String(),
		Kind:    models.KindName(err),
		Message: err.Error(),
		At:      time.Now(),
	})
	if len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
}

// Recent returns recorded errors, newest first
func (l *ErrorLog) Recent() []ErrorEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]ErrorEvent, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		out = append(out, l.entries[i])
	}
	return out
}
