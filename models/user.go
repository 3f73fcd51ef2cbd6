package models

import (
	"strings"
	"time"
)

// Origin records where a user record came from
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// DefaultCity is stored when a locally added user has no city
const DefaultCity = "N/A"

type Address struct {
	City   string  `json:"city"`
	Street *string `json:"street,omitempty"`
}

type User struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   *Address  `json:"address,omitempty"`
	Origin    Origin    `json:"origin,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SameEmail reports whether two emails identify the same user.
// Only ASCII letters fold, matching SQLite's NOCASE collation.
func SameEmail(a, b string) bool {
	return EmailKey(a) == EmailKey(b)
}

// EmailKey normalizes an email for set membership checks
func EmailKey(email string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, strings.TrimSpace(email))
}

type AddUserRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Email  string `json:"email" validate:"required,max=320,useremail"`
	City   string `json:"city" validate:"max=200"`
	Street string `json:"street" validate:"max=200"`
}

// ToUser builds the locally originated user described by the request
func (r AddUserRequest) ToUser() User {
	city := strings.TrimSpace(r.City)
	if city == "" {
		city = DefaultCity
	}

	address := &Address{City: city}
	if street := strings.TrimSpace(r.Street); street != "" {
		address.Street = &street
	}

	return User{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Address: address,
		Origin:  OriginLocal,
	}
}
