// Package trace provides a gpucmd backend that records and logs every
// dispatch instead of executing it.
//
// The trace backend serves two purposes:
//   - Reference backend for tests and the replay tool
//   - Debug aid: with a debug-level logger each dispatch becomes a log line
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/gpucmd/backend/trace"
//
//	// Create via registry
//	backend, _ := gpucmd.NewBackend("trace")
//
//	// Or create directly
//	backend := trace.New(slog.Default())
//
//	cmds.Flush(backend)
//	backend.WriteTo(os.Stdout)
package trace

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"

	"github.com/gogpu/gpucmd"
)

func init() {
	gpucmd.Register("trace", func() gpucmd.Backend {
		return New(nil)
	})
}

// Call is one recorded dispatch.
type Call struct {
	// Op is the Backend method name.
	Op string

	// Detail summarizes the arguments.
	Detail string

	// Depth is the trace marker nesting depth at dispatch time.
	Depth int
}

func (c Call) String() string {
	if c.Detail == "" {
		return c.Op
	}
	return c.Op + " " + c.Detail
}

// Backend is a gpucmd.Backend that records calls.
//
// Backend is not safe for concurrent use.
type Backend struct {
	logger *slog.Logger
	calls  []Call
	depth  int
	descs  int
}

// New creates a trace backend. A nil logger uses gpucmd.Logger() at the time
// of each call.
func New(logger *slog.Logger) *Backend {
	return &Backend{logger: logger}
}

func (b *Backend) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return gpucmd.Logger()
}

func (b *Backend) record(op, detail string) {
	b.calls = append(b.calls, Call{Op: op, Detail: detail, Depth: b.depth})
	b.log().Debug("trace: "+op, "detail", detail, "depth", b.depth)
}

// Calls returns the recorded calls in dispatch order.
func (b *Backend) Calls() []Call {
	return b.calls
}

// Ops returns the method names of the recorded calls.
func (b *Backend) Ops() []string {
	ops := make([]string, len(b.calls))
	for i, c := range b.calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how many times op was called.
func (b *Backend) Count(op string) int {
	n := 0
	for _, c := range b.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets the recorded calls.
func (b *Backend) Reset() {
	b.calls = b.calls[:0]
	b.depth = 0
}

// WriteTo writes one line per call, indented by marker depth.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, c := range b.calls {
		n, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", c.Depth), c)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func args(a gpucmd.DrawArgs) string {
	name := "<batch>"
	if a.Primitive != nil {
		name = a.Primitive.Name()
	}
	key := "-"
	if a.Desc != nil && len(a.Desc.Key) > 0 {
		key = fmt.Sprint(a.Desc.Key)
	}
	return fmt.Sprintf("prim=%s program=%s", name, key)
}

func fill(s gpucmd.StencilSettings) string {
	if s.IsWinding() {
		return "winding"
	}
	return "evenodd"
}

// Draw implements gpucmd.Backend.
func (b *Backend) Draw(a gpucmd.DrawArgs, info gpucmd.DrawInfo) {
	b.record("Draw", fmt.Sprintf("%s vertices=%d indices=%d", args(a), info.VertexCount, info.IndexCount))
}

// StencilPath implements gpucmd.Backend.
func (b *Backend) StencilPath(path gpucmd.Path, state gpucmd.StencilPathState) {
	b.record("StencilPath", fmt.Sprintf("path=%d fill=%s hwaa=%t", path.ID(), fill(state.Stencil), state.UseHWAA))
}

// DrawPath implements gpucmd.Backend.
func (b *Backend) DrawPath(a gpucmd.DrawArgs, path gpucmd.Path, stencil gpucmd.StencilSettings) {
	b.record("DrawPath", fmt.Sprintf("%s path=%d fill=%s", args(a), path.ID(), fill(stencil)))
}

// DrawPaths implements gpucmd.Backend.
func (b *Backend) DrawPaths(a gpucmd.DrawArgs, pathRange gpucmd.PathRange, indices []byte, indexType gpucmd.PathIndexType,
	transforms []float32, transformType gpucmd.PathTransformType, count int, stencil gpucmd.StencilSettings) {
	b.record("DrawPaths", fmt.Sprintf("%s range=%d count=%d indices=%d%s transforms=%d%s fill=%s",
		args(a), pathRange.ID(), count, len(indices), indexType, len(transforms), transformType, fill(stencil)))
}

// Clear implements gpucmd.Backend.
func (b *Backend) Clear(rect image.Rectangle, color gpucmd.Color, canIgnoreRect bool, target gpucmd.Surface) {
	b.record("Clear", fmt.Sprintf("rect=%v color=%08x ignorable=%t", rect, uint32(color), canIgnoreRect))
}

// ClearStencilClip implements gpucmd.Backend.
func (b *Backend) ClearStencilClip(rect image.Rectangle, insideClip bool, target gpucmd.Surface) {
	b.record("ClearStencilClip", fmt.Sprintf("rect=%v inside=%t", rect, insideClip))
}

// Discard implements gpucmd.Backend.
func (b *Backend) Discard(target gpucmd.Surface) {
	b.record("Discard", fmt.Sprintf("size=%dx%d", target.Width(), target.Height()))
}

// CopySurface implements gpucmd.Backend.
func (b *Backend) CopySurface(dst, src gpucmd.Surface, srcRect image.Rectangle, dstPoint image.Point) {
	b.record("CopySurface", fmt.Sprintf("src=%v dst=%v", srcRect, dstPoint))
}

// BuildProgramDesc assigns sequential program keys.
func (b *Backend) BuildProgramDesc(desc *gpucmd.ProgramDesc, prim gpucmd.Primitive, _ gpucmd.Pipeline, _ gpucmd.BatchTracker) {
	b.descs++
	desc.Key = append(desc.Key[:0], uint32(b.descs))
	b.record("BuildProgramDesc", fmt.Sprintf("prim=%s key=%d", prim.Name(), b.descs))
}

// PushTraceMarker implements gpucmd.Backend.
func (b *Backend) PushTraceMarker(marker string) {
	b.record("PushTraceMarker", marker)
	b.depth++
}

// PopTraceMarker implements gpucmd.Backend.
func (b *Backend) PopTraceMarker(marker string) {
	if b.depth > 0 {
		b.depth--
	}
	b.record("PopTraceMarker", marker)
}

var _ gpucmd.Backend = (*Backend)(nil)
