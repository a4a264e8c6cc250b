package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RepositoriesCreated uint64
	RepositoriesUpdated uint64
	RepositoriesDeleted uint64
	ListingCacheHits    uint64
	ListingCacheMisses  uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	repositoriesCreated uint64
	repositoriesUpdated uint64
	repositoriesDeleted uint64
	listingCacheHits    uint64
	listingCacheMisses  uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		RepositoriesCreated: atomic.LoadUint64(&m.repositoriesCreated),
		RepositoriesUpdated: atomic.LoadUint64(&m.repositoriesUpdated),
		RepositoriesDeleted: atomic.LoadUint64(&m.repositoriesDeleted),
		ListingCacheHits:    atomic.LoadUint64(&m.listingCacheHits),
		ListingCacheMisses:  atomic.LoadUint64(&m.listingCacheMisses),
	}
}

// IncRepositoryCreated increments the repository created counter.
func (m *InMemoryRecorder) IncRepositoryCreated() {
	atomic.AddUint64(&m.repositoriesCreated, 1)
}

// IncRepositoryUpdated increments the repository updated counter.
func (m *InMemoryRecorder) IncRepositoryUpdated() {
	atomic.AddUint64(&m.repositoriesUpdated, 1)
}

// IncRepositoryDeleted increments the repository deleted counter.
func (m *InMemoryRecorder) IncRepositoryDeleted() {
	atomic.AddUint64(&m.repositoriesDeleted, 1)
}

// IncListingCacheHit increments the listing cache hit counter.
func (m *InMemoryRecorder) IncListingCacheHit() {
	atomic.AddUint64(&m.listingCacheHits, 1)
}

// IncListingCacheMiss increments the listing cache miss counter.
func (m *InMemoryRecorder) IncListingCacheMiss() {
	atomic.AddUint64(&m.listingCacheMisses, 1)
}
