// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Catalog management metrics
	IncRepositoryCreated()
	IncRepositoryUpdated()
	IncRepositoryDeleted()

	// Listing cache metrics
	IncListingCacheHit()
	IncListingCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
