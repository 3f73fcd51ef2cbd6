package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"user-directory/events"
	"user-directory/models"
	"user-directory/validator"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FetchResult describes one remote reconciliation
type FetchResult struct {
	Users    []models.User `json:"users"`
	Imported int           `json:"imported"`
}

// UserService reconciles the remote user list into the local store and publishes
// the sorted user snapshot, success events and errors.
type UserService struct {
	store     UserStore
	fetcher   UserFetcher
	validator *validator.Validator
	logger    *slog.Logger

	users *events.Subject[[]models.User]
	errs  *events.Subject[error]
	added *events.Subject[models.User]

	fetches singleflight.Group

	// mu guards collator and snapshot read-modify-publish
	mu       sync.Mutex
	collator *collate.Collator
}

var _ Directory = (*UserService)(nil)

// NewUserService creates a service. errs must be the stream the store publishes on.
func NewUserService(store UserStore, fetcher UserFetcher, errs *events.Subject[error], locale language.Tag, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	if errs == nil {
		errs = events.NewSubject[error]()
	}
	return &UserService{
		store:     store,
		fetcher:   fetcher,
		validator: validator.New(),
		logger:    logger,
		users:     events.NewReplaySubject([]models.User{}),
		errs:      errs,
		added:     events.NewSubject[models.User](),
		collator:  collate.New(locale, collate.IgnoreCase),
	}
}

// Users streams sorted snapshots; a new subscriber first receives the current one
func (s *UserService) Users() (<-chan []models.User, func()) {
	return s.users.Subscribe()
}

// Errors streams every error surfaced by the service and the store
func (s *UserService) Errors() (<-chan error, func()) {
	return s.errs.Subscribe()
}

// Added streams users created through AddUser
func (s *UserService) Added() (<-chan models.User, func()) {
	return s.added.Subscribe()
}

// Snapshot returns the last published user list
func (s *UserService) Snapshot() []models.User {
	users, _ := s.users.Value()
	return slices.Clone(users)
}

// FetchUsers pulls the remote list, merges it into the store and publishes the
// re-read local list. On a transport failure the error is published and the
// local snapshot is reloaded and republished.
// Concurrent calls share one fetch. A started fetch is not cancelled with ctx.
func (s *UserService) FetchUsers(ctx context.Context) (*FetchResult, error) {
	ctx = context.WithoutCancel(ctx)

	v, err, _ := s.fetches.Do("fetch", func() (interface{}, error) {
		return s.fetch(ctx)
	})
	result, _ := v.(*FetchResult)
	return result, err
}

func (s *UserService) fetch(ctx context.Context) (*FetchResult, error) {
	remote, err := s.fetcher.FetchUsers(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrTransport) {
			err = models.NewTransportError("failed to fetch users", err)
		}
		s.logger.Warn("remote fetch failed, serving local snapshot", "error", err)
		s.errs.Publish(err)
		return &FetchResult{Users: s.ReloadLocal(ctx)}, err
	}

	// Store errors are already on the error stream
	imported, err := s.store.UpsertFromRemote(ctx, remote)
	result := &FetchResult{Users: s.ReloadLocal(ctx), Imported: imported}
	if err != nil {
		return result, err
	}

	s.logger.Info("users fetched", "received", len(remote), "imported", imported, "total", len(result.Users))
	return result, nil
}

// ReloadLocal re-reads the store, sorts by name and publishes the result.
// The read happens under mu so a concurrent DeleteUser cannot be overwritten by an older read.
func (s *UserService) ReloadLocal(ctx context.Context) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.store.FetchAll(ctx)

	slices.SortStableFunc(users, func(a, b models.User) int {
		return s.collator.CompareString(a.Name, b.Name)
	})
	s.users.Publish(users)
	return slices.Clone(users)
}

// AddUser validates the request, stores the user as locally created, reloads the
// snapshot and emits the new user on the Added stream.
func (s *UserService) AddUser(ctx context.Context, req models.AddUserRequest) (models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validate(ctx, req); err != nil {
		s.errs.Publish(err)
		return models.User{}, err
	}

	user, err := s.store.AddLocal(ctx, req.ToUser())
	if err != nil {
		return models.User{}, err
	}

	s.ReloadLocal(ctx)
	s.added.Publish(user)
	s.logger.Info("user added", "email", user.Email)
	return user, nil
}

func (s *UserService) validate(ctx context.Context, req models.AddUserRequest) error {
	if err := s.validator.Validate(&req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return models.NewValidationError(err.Error())
		}
		return models.NewValidationError(domainMessage(fieldErrs[0]))
	}

	for _, existing := range s.store.FetchAll(ctx) {
		if models.SameEmail(existing.Email, req.Email) {
			return models.NewValidationError(models.MsgEmailTaken)
		}
	}
	return nil
}

func domainMessage(fe validator.ValidationError) string {
	switch {
	case fe.Field == "name" && fe.Tag == "required":
		return models.MsgNameEmpty
	case fe.Field == "email" && fe.Tag == "required":
		return models.MsgEmailEmpty
	case fe.Field == "email" && fe.Tag == "useremail":
		return models.MsgEmailInvalid
	default:
		return fe.Message
	}
}

// DeleteUser removes user from the store and drops it from the published snapshot
// without re-reading the store. A started delete is not cancelled with ctx.
func (s *UserService) DeleteUser(ctx context.Context, user models.User) error {
	ctx = context.WithoutCancel(ctx)

	if err := s.store.Delete(ctx, user); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, _ := s.users.Value()
	remaining := make([]models.User, 0, len(current))
	for _, u := range current {
		if !models.SameEmail(u.Email, user.Email) {
			remaining = append(remaining, u)
		}
	}
	s.users.Publish(remaining)
	s.logger.Info("user deleted", "email", user.Email)
	return nil
}
