package gpucmd

import "image"

// BatchTracker is per-draw data a primitive derives from the pipeline it is
// drawn with. Its contents are owned by the primitive; the recorder only
// stores it and hands it back for equality checks and dispatch.
type BatchTracker any

// TrackerInit is the shape of tracking data a pipeline requires, the input
// from which primitives and batches initialize their trackers.
type TrackerInit struct {
	OverrideColor   Color
	ColorIgnored    bool
	CoverageIgnored bool
	UsesLocalCoords bool
}

// Primitive is the geometry/primitive processor identity of a draw.
type Primitive interface {
	// Name identifies the primitive kind for logging and tracing.
	Name() string

	// InitBatchTracker derives tracking data for a pipeline.
	InitBatchTracker(init TrackerInit) BatchTracker

	// CanMakeEqual reports whether other (with theirs) can be drawn with
	// the same program as the receiver (with mine).
	CanMakeEqual(mine BatchTracker, other Primitive, theirs BatchTracker) bool
}

// PathPrimitive is a primitive that draws paths with a view matrix.
type PathPrimitive interface {
	Primitive
	ViewMatrix() Matrix
}

// Pipeline is a materialized backend pipeline.
type Pipeline interface {
	TrackerInit() TrackerInit
}

// PipelineInfo is the caller's pipeline description for one request.
type PipelineInfo struct {
	// Target is the render target the request draws into.
	Target Surface

	// HWAntialias requests multisampled rasterization.
	HWAntialias bool

	// DevBounds, when non-nil, bounds the request in device space.
	DevBounds *image.Rectangle

	// Desc is opaque to this package and interpreted by the PipelineLayer.
	Desc any
}

// PipelineLayer builds and compares pipelines.
type PipelineLayer interface {
	// MaterializePipeline builds the pipeline for info. mustSkip reports
	// that the draw contributes nothing (fully clipped or a no-op blend).
	MaterializePipeline(info PipelineInfo) (p Pipeline, mustSkip bool)

	// PipelinesEqual reports whether a and b configure the device identically.
	PipelinesEqual(a, b Pipeline) bool

	// WillBlendWithDst reports whether drawing prim with info reads the
	// destination contents.
	WillBlendWithDst(info PipelineInfo, prim Primitive) bool
}
