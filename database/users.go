package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"user-directory/models"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// ==================== READS ====================

// FetchAll returns every stored user in insertion order.
// A storage fault is published and degrades to an empty list.
func (r *Repository) FetchAll(ctx context.Context) []models.User {
	users, err := r.queryUsers(ctx)
	if err != nil {
		r.report(models.NewPersistenceError("failed to fetch local users", err))
		return []models.User{}
	}
	return users
}

// Count returns the number of stored users
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repository) queryUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, city, street, is_local, created_at
		FROM users
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Initialize with empty slice to avoid returning nil
	users := make([]models.User, 0)
	for rows.Next() {
		var (
			user      models.User
			city      sql.NullString
			street    sql.NullString
			isLocal   int
			createdAt sql.NullTime
		)
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &city, &street, &isLocal, &createdAt); err != nil {
			return nil, err
		}

		if city.Valid || street.Valid {
			user.Address = &models.Address{City: city.String}
			if street.Valid {
				s := street.String
				user.Address.Street = &s
			}
		}
		user.Origin = models.OriginRemote
		if isLocal == 1 {
			user.Origin = models.OriginLocal
		}
		if createdAt.Valid {
			user.CreatedAt = createdAt.Time
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *Repository) existingEmails(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT email FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make(map[string]struct{})
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails[models.EmailKey(email)] = struct{}{}
	}
	return emails, rows.Err()
}

// ==================== WRITES ====================

// UpsertFromRemote stores the users of a remote batch that have a valid email not already
// present. Survivors are written in one transaction; a failed batch is reported once.
// It returns the number of imported users.
func (r *Repository) UpsertFromRemote(ctx context.Context, users []models.User) (int, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	present, err := r.existingEmails(ctx)
	if err != nil {
		return 0, r.report(models.NewPersistenceError("failed to read existing emails", err))
	}

	survivors := make([]models.User, 0, len(users))
	for _, u := range users {
		if !r.emails.IsValid(u.Email) {
			r.logger.Debug("skipping remote user with invalid email", "email", u.Email)
			continue
		}
		key := models.EmailKey(u.Email)
		if _, ok := present[key]; ok {
			continue
		}
		present[key] = struct{}{}
		survivors = append(survivors, u)
	}

	// Nothing pending, nothing to commit
	if len(survivors) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, r.report(models.NewPersistenceError("failed to begin import", err))
	}

	for i := range survivors {
		survivors[i].Origin = models.OriginRemote
		if err := insertUser(ctx, tx, &survivors[i]); err != nil {
			tx.Rollback()
			return 0, r.report(models.NewPersistenceError("failed to import remote users", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, r.report(models.NewPersistenceError("failed to commit remote users", err))
	}

	r.logger.Info("imported remote users", "count", len(survivors), "received", len(users))
	return len(survivors), nil
}

// AddLocal stores a user created by this app. An invalid email is reported and nothing is written.
func (r *Repository) AddLocal(ctx context.Context, user models.User) (models.User, error) {
	if !r.emails.IsValid(user.Email) {
		return models.User{}, r.report(models.NewValidationError(models.MsgEmailInvalid))
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	user.Origin = models.OriginLocal
	if err := insertUser(ctx, r.db, &user); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, r.report(models.NewValidationError(models.MsgEmailTaken))
		}
		return models.User{}, r.report(models.NewPersistenceError("failed to save user", err))
	}

	return user, nil
}

// Delete removes the user whose email matches case-insensitively.
// A missing user is reported as not found and leaves the store untouched.
func (r *Repository) Delete(ctx context.Context, user models.User) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	var id string
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM users WHERE email = ? COLLATE NOCASE LIMIT 1
	`, user.Email).Scan(&id)
	if err == sql.ErrNoRows {
		return r.report(models.NewNotFoundError(models.MsgUserNotFound))
	}
	if err != nil {
		return r.report(models.NewPersistenceError("failed to look up user", err))
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return r.report(models.NewPersistenceError("failed to delete user", err))
	}

	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertUser(ctx context.Context, ex execer, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	var city, street sql.NullString
	if user.Address != nil {
		city = sql.NullString{String: user.Address.City, Valid: true}
		if user.Address.Street != nil {
			street = sql.NullString{String: *user.Address.Street, Valid: true}
		}
	}

	isLocal := 0
	if user.Origin == models.OriginLocal {
		isLocal = 1
	}

	_, err := ex.ExecContext(ctx, `
		INSERT INTO users (id, name, email, city, street, is_local, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Name, user.Email, city, street, isLocal, user.CreatedAt)
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
