package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/repocat/repocat/internal/model"
)

// Common errors for repository store operations.
var (
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrNameTaken          = errors.New("repository name already taken for this owner")
)

// RepositoryFilter selects a single repository by owner and/or name.
type RepositoryFilter struct {
	OwnerID string
	Name    string
}

// CreateRepository inserts a new repository into the database.
// The repositories table carries a unique constraint on (owner_id, name),
// so two concurrent creations with the same owner and name cannot both
// succeed; the loser observes ErrNameTaken and no row is written.
func (s *Store) CreateRepository(ctx context.Context, repo *model.Repository) error {
	query := `
		INSERT INTO repositories (id, owner_id, name, version, description, taxonomy, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		repo.ID,
		repo.OwnerID,
		repo.Name,
		repo.Version,
		repo.Description,
		repo.Taxonomy,
		repo.CreatedAt,
		repo.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		return fmt.Errorf("failed to create repository: %w", err)
	}

	return nil
}

// GetRepositoryByID retrieves a repository by its ID.
func (s *Store) GetRepositoryByID(ctx context.Context, id string) (*model.Repository, error) {
	query := `
		SELECT id, owner_id, name, version, description, taxonomy, created_at, updated_at
		FROM repositories
		WHERE id = $1
	`

	repo, err := scanRepository(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRepositoryNotFound
		}
		return nil, fmt.Errorf("failed to get repository by ID: %w", err)
	}

	return repo, nil
}

// FindRepository looks up a single repository matching the filter.
// Returns ErrRepositoryNotFound when no row matches.
func (s *Store) FindRepository(ctx context.Context, filter RepositoryFilter) (*model.Repository, error) {
	query := `
		SELECT id, owner_id, name, version, description, taxonomy, created_at, updated_at
		FROM repositories
		WHERE ($1 = '' OR owner_id = $1)
		  AND ($2 = '' OR name = $2)
		LIMIT 1
	`

	repo, err := scanRepository(s.pool.QueryRow(ctx, query, filter.OwnerID, filter.Name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRepositoryNotFound
		}
		return nil, fmt.Errorf("failed to find repository: %w", err)
	}

	return repo, nil
}

// ListRepositories retrieves every repository in the catalog.
// An empty catalog yields an empty slice, not an error.
func (s *Store) ListRepositories(ctx context.Context) ([]*model.Repository, error) {
	query := `
		SELECT id, owner_id, name, version, description, taxonomy, created_at, updated_at
		FROM repositories
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	defer rows.Close()

	return collectRepositories(rows)
}

// ListRepositoriesByOwner retrieves all repositories owned by the given user.
func (s *Store) ListRepositoriesByOwner(ctx context.Context, ownerID string) ([]*model.Repository, error) {
	query := `
		SELECT id, owner_id, name, version, description, taxonomy, created_at, updated_at
		FROM repositories
		WHERE owner_id = $1
	`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories by owner: %w", err)
	}
	defer rows.Close()

	return collectRepositories(rows)
}

// UpdateRepository updates a repository's mutable fields.
// A rename is subject to the same (owner_id, name) unique constraint as
// creation and fails with ErrNameTaken on collision.
func (s *Store) UpdateRepository(ctx context.Context, repo *model.Repository) error {
	query := `
		UPDATE repositories
		SET name = $2, version = $3, description = $4, taxonomy = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		repo.ID,
		repo.Name,
		repo.Version,
		repo.Description,
		repo.Taxonomy,
		repo.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		return fmt.Errorf("failed to update repository: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRepositoryNotFound
	}

	return nil
}

// DeleteRepository removes a single repository by ID.
func (s *Store) DeleteRepository(ctx context.Context, id string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM repositories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete repository: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRepositoryNotFound
	}

	return nil
}

// DeleteAllRepositories removes every repository record.
func (s *Store) DeleteAllRepositories(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM repositories`); err != nil {
		return fmt.Errorf("failed to delete repositories: %w", err)
	}
	return nil
}

// scanRepository scans a single row into a Repository model.
func scanRepository(row pgx.Row) (*model.Repository, error) {
	var repo model.Repository
	err := row.Scan(
		&repo.ID,
		&repo.OwnerID,
		&repo.Name,
		&repo.Version,
		&repo.Description,
		&repo.Taxonomy,
		&repo.CreatedAt,
		&repo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &repo, nil
}

// collectRepositories drains rows into a slice of Repository models.
func collectRepositories(rows pgx.Rows) ([]*model.Repository, error) {
	repos := make([]*model.Repository, 0)
	for rows.Next() {
		var repo model.Repository
		err := rows.Scan(
			&repo.ID,
			&repo.OwnerID,
			&repo.Name,
			&repo.Version,
			&repo.Description,
			&repo.Taxonomy,
			&repo.CreatedAt,
			&repo.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repository: %w", err)
		}
		repos = append(repos, &repo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating repositories: %w", err)
	}

	return repos, nil
}
