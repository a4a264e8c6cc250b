// Package service provides business logic for the repository catalog.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/repocat/repocat/internal/metrics"
	"github.com/repocat/repocat/internal/model"
	"github.com/repocat/repocat/internal/store"
)

// Service errors.
var (
	ErrNameConflict       = errors.New("repository name already in use by this owner")
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrNotOwner           = errors.New("repository belongs to a different owner")
	ErrInvalidRequest     = errors.New("invalid repository request")
)

const maxNameLength = 255

// Store is the persistence contract the catalog service consumes.
// *store.Store satisfies it; tests substitute an in-memory fixture.
type Store interface {
	FindRepository(ctx context.Context, filter store.RepositoryFilter) (*model.Repository, error)
	GetRepositoryByID(ctx context.Context, id string) (*model.Repository, error)
	ListRepositories(ctx context.Context) ([]*model.Repository, error)
	ListRepositoriesByOwner(ctx context.Context, ownerID string) ([]*model.Repository, error)
	CreateRepository(ctx context.Context, repo *model.Repository) error
	UpdateRepository(ctx context.Context, repo *model.Repository) error
	DeleteRepository(ctx context.Context, id string) error
}

// ListingCache caches repository listings. An empty ownerID addresses
// the full-catalog listing.
type ListingCache interface {
	GetRepositoryList(ctx context.Context, ownerID string) ([]*model.Repository, error)
	SetRepositoryList(ctx context.Context, ownerID string, repos []*model.Repository) error
	InvalidateRepositoryLists(ctx context.Context, ownerID string) error
}

// CatalogService handles repository catalog business logic.
// It holds no mutable state between calls; all durable state lives in
// the store, and the (owner_id, name) unique constraint there is what
// makes concurrent creations with the same pair safe.
type CatalogService struct {
	store   Store
	cache   ListingCache
	metrics metrics.Recorder
}

// NewCatalogService creates a new CatalogService.
// cache may be nil; listing then always hits the store.
func NewCatalogService(st Store, cache ListingCache, recorder metrics.Recorder) *CatalogService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CatalogService{
		store:   st,
		cache:   cache,
		metrics: recorder,
	}
}

// CreateRepositoryInput defines input for creating a repository.
type CreateRepositoryInput struct {
	Name        string
	Version     *string
	Description *string
	Taxonomy    *string
}

// CreateNewRepository creates a repository owned by ownerID.
//
// The name must be unused among that owner's repositories. The lookup
// gives a clean rejection in the common case; the store's unique
// constraint closes the race when two creations with the same owner and
// name run concurrently, so at most one of them ever commits. On any
// failure no record is written.
func (s *CatalogService) CreateNewRepository(ctx context.Context, ownerID string, input CreateRepositoryInput) (*model.Repository, error) {
	// Names are normalized the same way on creation and rename, so the
	// uniqueness check always sees the form that gets stored.
	name := strings.TrimSpace(input.Name)
	if err := validateOwnerAndName(ownerID, name); err != nil {
		return nil, err
	}

	_, err := s.store.FindRepository(ctx, store.RepositoryFilter{
		OwnerID: ownerID,
		Name:    name,
	})
	if err == nil {
		return nil, ErrNameConflict
	}
	if !errors.Is(err, store.ErrRepositoryNotFound) {
		return nil, fmt.Errorf("failed to check name availability: %w", err)
	}

	now := time.Now().UTC()
	repo := &model.Repository{
		ID:          ulid.Make().String(),
		OwnerID:     ownerID,
		Name:        name,
		Version:     input.Version,
		Description: input.Description,
		Taxonomy:    input.Taxonomy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateRepository(ctx, repo); err != nil {
		if errors.Is(err, store.ErrNameTaken) {
			// Lost the race against a concurrent creation.
			return nil, ErrNameConflict
		}
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}

	s.metrics.IncRepositoryCreated()
	s.invalidateListings(ctx, ownerID)

	return repo, nil
}

// ListRepositories returns every repository in the catalog.
// An empty catalog yields an empty slice, never an error.
func (s *CatalogService) ListRepositories(ctx context.Context) ([]*model.Repository, error) {
	return s.listRepositories(ctx, "")
}

// ListOwnerRepositories returns the repositories owned by ownerID.
func (s *CatalogService) ListOwnerRepositories(ctx context.Context, ownerID string) ([]*model.Repository, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidRequest)
	}
	return s.listRepositories(ctx, ownerID)
}

func (s *CatalogService) listRepositories(ctx context.Context, ownerID string) ([]*model.Repository, error) {
	if s.cache != nil {
		if repos, err := s.cache.GetRepositoryList(ctx, ownerID); err == nil && repos != nil {
			s.metrics.IncListingCacheHit()
			return repos, nil
		}
		s.metrics.IncListingCacheMiss()
	}

	var (
		repos []*model.Repository
		err   error
	)
	if ownerID == "" {
		repos, err = s.store.ListRepositories(ctx)
	} else {
		repos, err = s.store.ListRepositoriesByOwner(ctx, ownerID)
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Best effort; a stale or missing cache entry only costs a store read.
		_ = s.cache.SetRepositoryList(ctx, ownerID, repos)
	}

	return repos, nil
}

// GetRepository retrieves a single repository by ID.
func (s *CatalogService) GetRepository(ctx context.Context, id string) (*model.Repository, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidRequest)
	}

	repo, err := s.store.GetRepositoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRepositoryNotFound) {
			return nil, ErrRepositoryNotFound
		}
		return nil, err
	}

	return repo, nil
}

// UpdateRepositoryInput defines input for updating a repository.
// Nil pointers leave the corresponding field unchanged.
type UpdateRepositoryInput struct {
	Name        *string
	Version     *string
	Description *string
	Taxonomy    *string
}

// UpdateRepository applies owner-scoped updates to a repository.
// A rename re-checks the per-owner name uniqueness invariant exactly
// like creation does.
func (s *CatalogService) UpdateRepository(ctx context.Context, ownerID, id string, input UpdateRepositoryInput) (*model.Repository, error) {
	repo, err := s.getOwnedRepository(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		// Same normalization as creation; comparing the trimmed form
		// also keeps a rename to the current name from conflicting
		// with itself.
		name := strings.TrimSpace(*input.Name)
		if name != repo.Name {
			if err := validateOwnerAndName(ownerID, name); err != nil {
				return nil, err
			}

			_, err := s.store.FindRepository(ctx, store.RepositoryFilter{
				OwnerID: ownerID,
				Name:    name,
			})
			if err == nil {
				return nil, ErrNameConflict
			}
			if !errors.Is(err, store.ErrRepositoryNotFound) {
				return nil, fmt.Errorf("failed to check name availability: %w", err)
			}

			repo.Name = name
		}
	}

	if input.Version != nil {
		repo.Version = input.Version
	}
	if input.Description != nil {
		repo.Description = input.Description
	}
	if input.Taxonomy != nil {
		repo.Taxonomy = input.Taxonomy
	}

	repo.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateRepository(ctx, repo); err != nil {
		if errors.Is(err, store.ErrNameTaken) {
			return nil, ErrNameConflict
		}
		if errors.Is(err, store.ErrRepositoryNotFound) {
			return nil, ErrRepositoryNotFound
		}
		return nil, fmt.Errorf("failed to update repository: %w", err)
	}

	s.metrics.IncRepositoryUpdated()
	s.invalidateListings(ctx, ownerID)

	return repo, nil
}

// DeleteRepository removes a single repository owned by ownerID.
func (s *CatalogService) DeleteRepository(ctx context.Context, ownerID, id string) error {
	repo, err := s.getOwnedRepository(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteRepository(ctx, repo.ID); err != nil {
		if errors.Is(err, store.ErrRepositoryNotFound) {
			return ErrRepositoryNotFound
		}
		return fmt.Errorf("failed to delete repository: %w", err)
	}

	s.metrics.IncRepositoryDeleted()
	s.invalidateListings(ctx, ownerID)

	return nil
}

// getOwnedRepository loads a repository and checks it belongs to ownerID.
func (s *CatalogService) getOwnedRepository(ctx context.Context, ownerID, id string) (*model.Repository, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidRequest)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidRequest)
	}

	repo, err := s.store.GetRepositoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRepositoryNotFound) {
			return nil, ErrRepositoryNotFound
		}
		return nil, err
	}

	if !repo.OwnedBy(ownerID) {
		return nil, ErrNotOwner
	}

	return repo, nil
}

// invalidateListings drops the cached full and per-owner listings after
// a mutation. Best effort: a failed invalidation only leaves a listing
// stale until its TTL runs out.
func (s *CatalogService) invalidateListings(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateRepositoryLists(ctx, ownerID)
}

// validateOwnerAndName fast-fails malformed input before any store call.
// The boundary normally rejects these already; this is the last line.
func validateOwnerAndName(ownerID, name string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidRequest, maxNameLength)
	}
	return nil
}
