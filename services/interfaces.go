package services

import (
	"context"

	"user-directory/models"
)

// UserStore defines the local persistence used by UserService.
// Implementations publish their own errors on the shared error stream.
type UserStore interface {
	FetchAll(ctx context.Context) []models.User
	UpsertFromRemote(ctx context.Context, users []models.User) (int, error)
	AddLocal(ctx context.Context, user models.User) (models.User, error)
	Delete(ctx context.Context, user models.User) error
}

// UserFetcher retrieves the remote user list
type UserFetcher interface {
	FetchUsers(ctx context.Context) ([]models.User, error)
}

// Directory is the user-facing surface of UserService, used by handlers, commands and the sync worker
type Directory interface {
	FetchUsers(ctx context.Context) (*FetchResult, error)
	ReloadLocal(ctx context.Context) []models.User
	AddUser(ctx context.Context, req models.AddUserRequest) (models.User, error)
	DeleteUser(ctx context.Context, user models.User) error
	Snapshot() []models.User
}
