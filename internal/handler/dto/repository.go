// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/repocat/repocat/internal/model"
)

// CreateRepositoryRequest represents the request body for creating a repository.
// Name is required; every other field is optional and absent when the
// pointer is nil.
type CreateRepositoryRequest struct {
	Name        string  `json:"name"`
	Version     *string `json:"version,omitempty"`
	Description *string `json:"description,omitempty"`
	Taxonomy    *string `json:"taxonomy,omitempty"`
}

// UpdateRepositoryRequest represents the request body for updating a repository.
// Nil fields are left unchanged.
type UpdateRepositoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Version     *string `json:"version,omitempty"`
	Description *string `json:"description,omitempty"`
	Taxonomy    *string `json:"taxonomy,omitempty"`
}

// RepositoryResponse represents a repository in API responses.
// Optional fields that were never set are omitted entirely rather than
// serialized as null, so callers comparing against absence keep working.
type RepositoryResponse struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Name        string    `json:"name"`
	Version     *string   `json:"version,omitempty"`
	Description *string   `json:"description,omitempty"`
	Taxonomy    *string   `json:"taxonomy,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RepositoryListResponse represents a repository listing.
type RepositoryListResponse struct {
	Repositories []RepositoryResponse `json:"repositories"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToRepositoryResponse converts a Repository model to a RepositoryResponse DTO.
func ToRepositoryResponse(repo *model.Repository) *RepositoryResponse {
	return &RepositoryResponse{
		ID:          repo.ID,
		Owner:       repo.OwnerID,
		Name:        repo.Name,
		Version:     repo.Version,
		Description: repo.Description,
		Taxonomy:    repo.Taxonomy,
		CreatedAt:   repo.CreatedAt,
		UpdatedAt:   repo.UpdatedAt,
	}
}

// ToRepositoryListResponse converts a slice of Repository models to a
// RepositoryListResponse. An empty catalog yields an empty (non-nil) list.
func ToRepositoryListResponse(repos []*model.Repository) *RepositoryListResponse {
	responses := make([]RepositoryResponse, len(repos))
	for i, repo := range repos {
		responses[i] = *ToRepositoryResponse(repo)
	}
	return &RepositoryListResponse{
		Repositories: responses,
	}
}
