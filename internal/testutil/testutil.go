// Package testutil provides helpers for database-backed tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/repocat/repocat/internal/auth"
	"github.com/repocat/repocat/internal/model"
	"github.com/repocat/repocat/internal/store"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 730731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates the full schema for tests.
// Down migrations run dependents-first (repositories before users),
// up migrations run in creation order.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downs := []string{
		"000002_repositories.down.sql",
		"000001_users.down.sql",
	}
	ups := []string{
		"000001_users.up.sql",
		"000002_repositories.up.sql",
	}

	for _, name := range append(downs, ups...) {
		sql, err := os.ReadFile(filepath.Join(root, "migrations", name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// DB Fixture
// ============================================================================

// Fixture wraps a store connection for integration tests. It replaces
// the old process-wide test-utility singleton with an explicit value
// that each test sets up and tears down, so tests cannot couple through
// shared state or ordering.
type Fixture struct {
	Store *store.Store
}

// NewFixture connects to the test database, serializes against other
// DB tests, resets the schema and registers cleanup. Tests skip when
// DATABASE_URL is not set.
func NewFixture(t *testing.T, ctx context.Context) *Fixture {
	t.Helper()

	dbURL := RequireEnv(t, "DATABASE_URL")
	st, err := store.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(st.Close)

	unlock, err := AcquireDBLock(ctx, st.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := ResetSchema(ctx, st.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return &Fixture{Store: st}
}

// Wipe deletes all repositories, then all users. The order matters:
// repositories reference their owner, so dependents go first.
func (f *Fixture) Wipe(t *testing.T, ctx context.Context) {
	t.Helper()

	if err := f.Store.DeleteAllRepositories(ctx); err != nil {
		t.Fatalf("wipe repositories: %v", err)
	}
	if err := f.Store.DeleteAllUsers(ctx); err != nil {
		t.Fatalf("wipe users: %v", err)
	}
}

// CreateUser inserts a user with a hashed password and a fresh API token.
// The hash function does not have to match production exactly; argon2id
// is used so the stored value is shaped like the real thing.
func (f *Fixture) CreateUser(t *testing.T, ctx context.Context, id, name, email, password string) *model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	token, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	user := &model.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		TokenHash:    token.Hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := f.Store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	return user
}

// CreateRepository inserts a repository for an existing user.
func (f *Fixture) CreateRepository(t *testing.T, ctx context.Context, ownerID, name string, description *string) *model.Repository {
	t.Helper()

	now := time.Now().UTC()
	repo := &model.Repository{
		ID:          ulid.Make().String(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := f.Store.CreateRepository(ctx, repo); err != nil {
		t.Fatalf("create repository: %v", err)
	}

	return repo
}

// ============================================================================
// Test Data Helpers
// ============================================================================

// StrPtr returns a pointer to the given string.
func StrPtr(s string) *string {
	return &s
}

// UniqueName generates a unique repository name for tests.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// UniqueEmail generates a unique email for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
}
