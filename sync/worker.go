package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"user-directory/models"
	"user-directory/services"
)

// Directory is the part of the user service the worker drives
type Directory interface {
	FetchUsers(ctx context.Context) (*services.FetchResult, error)
	ReloadLocal(ctx context.Context) []models.User
}

// Availability is a level-triggered network signal
type Availability interface {
	Subscribe() (<-chan bool, func())
}

// Worker keeps the local user list reconciled with the remote list.
// See executor.go for what a single refresh does.
type Worker struct {
	directory       Directory
	availability    Availability
	logger          *slog.Logger
	baseInterval    time.Duration
	maxInterval     time.Duration
	currentInterval time.Duration
	running         bool
	mu              sync.Mutex
	stopChan        chan struct{}
	done            chan struct{}
}

// NewWorker creates a new sync worker instance
func NewWorker(directory Directory, availability Availability, baseInterval, maxInterval time.Duration, logger *slog.Logger) *Worker {
	if baseInterval <= 0 {
		baseInterval = 2 * time.Minute
	}
	if maxInterval < baseInterval {
		maxInterval = baseInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		directory:       directory,
		availability:    availability,
		logger:          logger,
		baseInterval:    baseInterval,
		maxInterval:     maxInterval,
		currentInterval: baseInterval,
	}
}

// Start begins the background sync worker
func (w *Worker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})
	stop, done := w.stopChan, w.done
	w.mu.Unlock()

	w.logger.Info("[Sync Worker] Starting background sync worker")

	go w.run(stop, done)
}

// Stop stops the worker and waits for an in-flight refresh to finish
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.logger.Info("[Sync Worker] Stopping background sync worker")
	close(w.stopChan)
	w.running = false
	done := w.done
	w.mu.Unlock()

	<-done
}

// Interval returns the current refresh interval
func (w *Worker) Interval() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentInterval
}

// run is the main worker loop with adaptive backoff
func (w *Worker) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	status, cancel := w.availability.Subscribe()
	defer cancel()

	ticker := time.NewTicker(w.Interval())
	defer ticker.Stop()

	available := false
	for {
		select {
		case up, ok := <-status:
			if !ok {
				status = nil
				continue
			}
			available = up
			if up {
				w.adjustInterval(ticker, w.refresh("network available"))
			} else {
				w.serveLocal()
			}
		case <-ticker.C:
			if !available {
				continue
			}
			w.adjustInterval(ticker, w.refresh("scheduled"))
		case <-stop:
			return
		}
	}
}

// adjustInterval resets to the base interval after work and backs off to the max when idle
func (w *Worker) adjustInterval(ticker *time.Ticker, hadWork bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if hadWork {
		if w.currentInterval != w.baseInterval {
			w.currentInterval = w.baseInterval
			ticker.Reset(w.currentInterval)
			w.logger.Debug("[Sync Worker] Work found, reset interval", "interval", w.currentInterval)
		}
		return
	}

	if w.currentInterval < w.maxInterval {
		w.currentInterval = w.maxInterval
		ticker.Reset(w.currentInterval)
		w.logger.Debug("[Sync Worker] No work, increased interval", "interval", w.currentInterval)
	}
}
