package gpucmd

// Batch is a self-describing draw that generates its own geometry.
// Batches carry their primitive identity, so their state records have no
// Primitive.
type Batch interface {
	// InitBatchTracker prepares the batch for the pipeline it will draw with.
	InitBatchTracker(init TrackerInit)

	// CombineIfPossible folds other into the receiver and reports whether it
	// did. A batch that returns false is left unchanged.
	CombineIfPossible(other Batch) bool

	// GenerateGeometry writes vertex data and queues draws on target.
	GenerateGeometry(target BatchTarget, pipeline Pipeline)

	// NumberOfDraws and SetNumberOfDraws hold the draw count measured by
	// the flush precompute pass.
	NumberOfDraws() int
	SetNumberOfDraws(n int)
}

// BatchTarget receives the geometry batches generate and issues their draws
// during flush.
type BatchTarget interface {
	ResetNumberOfDraws()
	NumberOfDraws() int

	// PreFlush and PostFlush bracket the main flush traversal.
	PreFlush()
	PostFlush()

	// FlushNext issues the next n queued draws.
	FlushNext(n int)
}
