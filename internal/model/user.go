package model

import "time"

// User represents an account that can own catalog repositories.
// PasswordHash and TokenHash are opaque to the catalog core; they are
// produced and checked at the boundary (bootstrap script, identity
// middleware), never inside the service.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	TokenHash    string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
