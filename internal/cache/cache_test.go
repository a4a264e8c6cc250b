package cache

import (
	"context"
	"testing"

	"github.com/repocat/repocat/internal/model"
	"github.com/repocat/repocat/internal/testutil"
)

func TestListingKey(t *testing.T) {
	if got := listingKey(""); got != "catalog:repos:all" {
		t.Errorf("listingKey(\"\") = %q, want %q", got, "catalog:repos:all")
	}
	if got := listingKey("user-1"); got != "catalog:repos:owner:user-1" {
		t.Errorf("listingKey(\"user-1\") = %q, want %q", got, "catalog:repos:owner:user-1")
	}
}

// newTestCache connects to Redis or skips when REDIS_URL is not set.
func newTestCache(t *testing.T, ctx context.Context) *Cache {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "REDIS_URL")
	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("create cache: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return c
}

func TestRepositoryListCaching(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, ctx)

	repos, err := c.GetRepositoryList(ctx, "user-1")
	if err != nil {
		t.Fatalf("get on empty cache: %v", err)
	}
	if repos != nil {
		t.Fatalf("expected miss (nil), got %v", repos)
	}

	want := []*model.Repository{
		{ID: "01HX", OwnerID: "user-1", Name: "toolbox"},
	}
	if err := c.SetRepositoryList(ctx, "user-1", want); err != nil {
		t.Fatalf("set listing: %v", err)
	}

	got, err := c.GetRepositoryList(ctx, "user-1")
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if len(got) != 1 || got[0].ID != want[0].ID || got[0].Name != want[0].Name {
		t.Fatalf("cached listing = %+v, want %+v", got, want)
	}
}

func TestInvalidateRepositoryLists(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, ctx)

	repos := []*model.Repository{{ID: "01HX", OwnerID: "user-1", Name: "toolbox"}}
	if err := c.SetRepositoryList(ctx, "", repos); err != nil {
		t.Fatalf("set catalog listing: %v", err)
	}
	if err := c.SetRepositoryList(ctx, "user-1", repos); err != nil {
		t.Fatalf("set owner listing: %v", err)
	}

	if err := c.InvalidateRepositoryLists(ctx, "user-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if got, _ := c.GetRepositoryList(ctx, ""); got != nil {
		t.Errorf("catalog listing survived invalidation: %v", got)
	}
	if got, _ := c.GetRepositoryList(ctx, "user-1"); got != nil {
		t.Errorf("owner listing survived invalidation: %v", got)
	}
}

func TestIdentityCaching(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, ctx)

	const tokenHash = "a3f5c6d7"

	if _, err := c.GetIdentity(ctx, tokenHash); err != ErrCacheMiss {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	if err := c.SetIdentity(ctx, tokenHash, "user-1"); err != nil {
		t.Fatalf("set identity: %v", err)
	}
	userID, err := c.GetIdentity(ctx, tokenHash)
	if err != nil {
		t.Fatalf("get identity: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("identity = %q, want %q", userID, "user-1")
	}

	if err := c.DeleteIdentity(ctx, tokenHash); err != nil {
		t.Fatalf("delete identity: %v", err)
	}
	if _, err := c.GetIdentity(ctx, tokenHash); err != ErrCacheMiss {
		t.Fatalf("expected ErrCacheMiss after delete, got %v", err)
	}
}
