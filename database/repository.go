package database

import (
	"log/slog"
	"sync"

	"user-directory/validator"
)

// ErrorPublisher receives every error the store surfaces
type ErrorPublisher interface {
	Publish(err error)
}

// Repository is the local user store.
// All writes go through writeMu, the store's single mutation context.
type Repository struct {
	db      *DB
	emails  validator.EmailValidator
	errs    ErrorPublisher
	logger  *slog.Logger
	writeMu sync.Mutex
}

// NewRepository creates a store over db. errs may be nil.
func NewRepository(db *DB, errs ErrorPublisher, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		emails: validator.EmailFormat{},
		errs:   errs,
		logger: logger,
	}
}

// report logs and publishes err, then returns it
func (r *Repository) report(err error) error {
	r.logger.Warn("user store error", "error", err)
	if r.errs != nil {
		r.errs.Publish(err)
	}
	return err
}
