package testutil

import (
	"context"
	"sync"

	"github.com/repocat/repocat/internal/model"
	"github.com/repocat/repocat/internal/store"
)

// MemStore is an in-memory stand-in for the persistence store, used by
// tests that exercise the catalog core without a database. It enforces
// the same invariants the database schema does: per-owner repository
// name uniqueness and global email uniqueness, both checked atomically
// under one lock so concurrent creations behave like they would against
// the real unique constraints. It returns the store package's sentinel
// errors so callers cannot tell the difference.
type MemStore struct {
	mu    sync.Mutex
	repos map[string]*model.Repository
	users map[string]*model.User
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		repos: make(map[string]*model.Repository),
		users: make(map[string]*model.User),
	}
}

// FindRepository looks up a single repository matching the filter.
func (m *MemStore) FindRepository(ctx context.Context, filter store.RepositoryFilter) (*model.Repository, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, repo := range m.repos {
		if filter.OwnerID != "" && repo.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Name != "" && repo.Name != filter.Name {
			continue
		}
		return copyRepository(repo), nil
	}

	return nil, store.ErrRepositoryNotFound
}

// GetRepositoryByID retrieves a repository by its ID.
func (m *MemStore) GetRepositoryByID(ctx context.Context, id string) (*model.Repository, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	repo, ok := m.repos[id]
	if !ok {
		return nil, store.ErrRepositoryNotFound
	}
	return copyRepository(repo), nil
}

// ListRepositories retrieves every repository.
func (m *MemStore) ListRepositories(ctx context.Context) ([]*model.Repository, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	repos := make([]*model.Repository, 0, len(m.repos))
	for _, repo := range m.repos {
		repos = append(repos, copyRepository(repo))
	}
	return repos, nil
}

// ListRepositoriesByOwner retrieves all repositories owned by ownerID.
func (m *MemStore) ListRepositoriesByOwner(ctx context.Context, ownerID string) ([]*model.Repository, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	repos := make([]*model.Repository, 0)
	for _, repo := range m.repos {
		if repo.OwnerID == ownerID {
			repos = append(repos, copyRepository(repo))
		}
	}
	return repos, nil
}

// CreateRepository inserts a repository, rejecting duplicate
// (owner, name) pairs atomically.
func (m *MemStore) CreateRepository(ctx context.Context, repo *model.Repository) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.repos {
		if existing.OwnerID == repo.OwnerID && existing.Name == repo.Name {
			return store.ErrNameTaken
		}
	}

	m.repos[repo.ID] = copyRepository(repo)
	return nil
}

// UpdateRepository updates a repository's mutable fields with the same
// uniqueness check a rename gets from the database constraint.
func (m *MemStore) UpdateRepository(ctx context.Context, repo *model.Repository) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.repos[repo.ID]
	if !ok {
		return store.ErrRepositoryNotFound
	}

	for id, other := range m.repos {
		if id != repo.ID && other.OwnerID == existing.OwnerID && other.Name == repo.Name {
			return store.ErrNameTaken
		}
	}

	m.repos[repo.ID] = copyRepository(repo)
	return nil
}

// DeleteRepository removes a single repository by ID.
func (m *MemStore) DeleteRepository(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.repos[id]; !ok {
		return store.ErrRepositoryNotFound
	}
	delete(m.repos, id)
	return nil
}

// DeleteAllRepositories removes every repository record.
func (m *MemStore) DeleteAllRepositories(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.repos = make(map[string]*model.Repository)
	return nil
}

// CreateUser inserts a user, rejecting duplicate emails.
func (m *MemStore) CreateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	copied := *user
	m.users[user.ID] = &copied
	return nil
}

// GetUserByID retrieves a user by ID.
func (m *MemStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetUserByTokenHash retrieves a user by API token hash.
func (m *MemStore) GetUserByTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.TokenHash != "" && user.TokenHash == tokenHash {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// DeleteAllUsers removes every user record.
func (m *MemStore) DeleteAllUsers(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[string]*model.User)
	return nil
}

// copyRepository clones a repository so callers never alias internal state.
func copyRepository(repo *model.Repository) *model.Repository {
	copied := *repo
	return &copied
}
