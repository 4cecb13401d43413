package gpucmd

import "image"

// Backend executes the primitive operations a flush dispatches.
// Implementations translate them into device work (see backend/halgpu) or
// observe them (see backend/trace).
//
// Methods have no return values: by the time a record reaches the backend
// every skip decision has already been made at record time.
type Backend interface {
	// Draw issues a non-indexed or indexed vertex draw.
	Draw(args DrawArgs, info DrawInfo)

	// StencilPath writes path coverage into the stencil buffer only.
	StencilPath(path Path, state StencilPathState)

	// DrawPath stencils and covers a single path.
	DrawPath(args DrawArgs, path Path, stencil StencilSettings)

	// DrawPaths stencils and covers count paths of a path range. indices
	// holds count indices of indexType; transforms holds
	// count*PathTransformSize(transformType) values.
	DrawPaths(args DrawArgs, pathRange PathRange, indices []byte, indexType PathIndexType,
		transforms []float32, transformType PathTransformType, count int, stencil StencilSettings)

	// Clear fills rect of target with color. When canIgnoreRect is true the
	// backend may clear the whole target instead.
	Clear(rect image.Rectangle, color Color, canIgnoreRect bool, target Surface)

	// ClearStencilClip sets or clears the clip bit of the stencil buffer
	// inside rect.
	ClearStencilClip(rect image.Rectangle, insideClip bool, target Surface)

	// Discard tells the device the target contents are no longer needed.
	Discard(target Surface)

	// CopySurface copies srcRect of src to dst at dstPoint.
	CopySurface(dst, src Surface, srcRect image.Rectangle, dstPoint image.Point)

	// BuildProgramDesc fills desc with the program key for the given state.
	BuildProgramDesc(desc *ProgramDesc, prim Primitive, pipeline Pipeline, tracker BatchTracker)

	// PushTraceMarker and PopTraceMarker bracket the execution of a traced
	// record.
	PushTraceMarker(marker string)
	PopTraceMarker(marker string)
}

// Surface is a render target or texture addressed by commands.
type Surface interface {
	Width() int
	Height() int
}

// Path is a backend path object that can be stenciled and covered.
type Path interface {
	ID() uint64
}

// PathRange is a backend collection of paths addressed by index, typically
// the glyphs of one font. Implementations must be comparable (usually
// pointers): two DrawPaths requests merge only when their ranges are ==.
type PathRange interface {
	ID() uint64
	Len() int
}

// PrimitiveType selects how vertices are assembled.
type PrimitiveType uint8

const (
	PrimitiveTriangles PrimitiveType = iota
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
	PrimitivePoints
	PrimitiveLines
	PrimitiveLineStrip
)

// DrawInfo describes one vertex draw.
type DrawInfo struct {
	Type          PrimitiveType
	StartVertex   int
	StartIndex    int
	VertexCount   int
	IndexCount    int
	InstanceCount int

	// Bounds, when non-nil, is a conservative device-space bound.
	Bounds *image.Rectangle
}

// IsIndexed reports whether the draw uses an index buffer.
func (d DrawInfo) IsIndexed() bool { return d.IndexCount > 0 }

// ScissorState is an optional scissor rectangle.
type ScissorState struct {
	Enabled bool
	Rect    image.Rectangle
}

// StencilPathState is the payload of a StencilPath record.
type StencilPathState struct {
	Target     Surface
	Scissor    ScissorState
	Stencil    StencilSettings
	UseHWAA    bool
	ViewMatrix Matrix
}

// ProgramDesc is the program key the backend derives from a state record.
// It is filled during flush and referenced by every draw that uses the state.
type ProgramDesc struct {
	Key []uint32
}

// DrawArgs bundles the active state handed to draw-family dispatches.
type DrawArgs struct {
	Primitive Primitive
	Pipeline  Pipeline
	Desc      *ProgramDesc
	Tracker   BatchTracker
}
