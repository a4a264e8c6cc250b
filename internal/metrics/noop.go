package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRepositoryCreated is a no-op.
func (n *NoopRecorder) IncRepositoryCreated() {}

// IncRepositoryUpdated is a no-op.
func (n *NoopRecorder) IncRepositoryUpdated() {}

// IncRepositoryDeleted is a no-op.
func (n *NoopRecorder) IncRepositoryDeleted() {}

// IncListingCacheHit is a no-op.
func (n *NoopRecorder) IncListingCacheHit() {}

// IncListingCacheMiss is a no-op.
func (n *NoopRecorder) IncListingCacheMiss() {}
