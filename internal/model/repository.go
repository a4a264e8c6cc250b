// Package model defines domain entities for the application.
package model

import "time"

// Repository is a named catalog entry owned by exactly one user.
// Names are unique per owner: two repositories may share a name only
// if they belong to different owners. Version, Description and
// Taxonomy are optional and do not participate in the uniqueness rule;
// a nil pointer means the field was never set, which is distinct from
// an empty string.
type Repository struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Version     *string   `json:"version,omitempty"`
	Description *string   `json:"description,omitempty"`
	Taxonomy    *string   `json:"taxonomy,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether the repository belongs to the given user.
func (r *Repository) OwnedBy(userID string) bool {
	return r.OwnerID == userID
}
