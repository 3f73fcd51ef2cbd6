package sync

import "context"

// ==================== SYNC EXECUTION ====================

// refresh reconciles the remote list into the store.
// Returns true if it imported users or failed, so the worker retries at the base interval.
func (w *Worker) refresh(reason string) bool {
	result, err := w.directory.FetchUsers(context.Background())
	if err != nil {
		w.logger.Warn("[Sync Worker] Refresh failed", "reason", reason, "error", err)
		return true
	}

	if result == nil {
		return false
	}
	if result.Imported > 0 {
		w.logger.Info("[Sync Worker] Refresh imported users", "reason", reason, "imported", result.Imported, "total", len(result.Users))
		return true
	}
	return false
}

// serveLocal republishes the last local snapshot while the network is unavailable
func (w *Worker) serveLocal() {
	users := w.directory.ReloadLocal(context.Background())
	w.logger.Info("[Sync Worker] Network unavailable, serving local users", "count", len(users))
}
