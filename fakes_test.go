package gpucmd

import (
	"fmt"
	"image"
)

// testSurface is a fixed-size render target.
type testSurface struct {
	w, h int
}

func (s testSurface) Width() int  { return s.w }
func (s testSurface) Height() int { return s.h }

type testPath struct{ id uint64 }

func (p *testPath) ID() uint64 { return p.id }

type testPathRange struct {
	id uint64
	n  int
}

func (r *testPathRange) ID() uint64 { return r.id }
func (r *testPathRange) Len() int   { return r.n }

// testDesc is the PipelineInfo.Desc understood by testLayer.
type testDesc struct {
	key   string
	skip  bool
	blend bool
}

type testPipeline struct {
	key  string
	init TrackerInit
}

func (p *testPipeline) TrackerInit() TrackerInit { return p.init }

// testLayer materializes a testPipeline per request. Pipelines with the same
// key are equal.
type testLayer struct{}

func desc(info PipelineInfo) testDesc {
	d, _ := info.Desc.(testDesc)
	return d
}

func (testLayer) MaterializePipeline(info PipelineInfo) (Pipeline, bool) {
	d := desc(info)
	if d.skip {
		return nil, true
	}
	return &testPipeline{key: d.key}, false
}

func (testLayer) PipelinesEqual(a, b Pipeline) bool {
	pa, okA := a.(*testPipeline)
	pb, okB := b.(*testPipeline)
	return okA && okB && pa.key == pb.key
}

func (testLayer) WillBlendWithDst(info PipelineInfo, _ Primitive) bool {
	return desc(info).blend
}

// testPrim can share a program with any testPrim of the same group.
type testPrim struct {
	name  string
	group int
	view  Matrix
}

func (p *testPrim) Name() string                                { return p.name }
func (p *testPrim) InitBatchTracker(i TrackerInit) BatchTracker { return i }
func (p *testPrim) ViewMatrix() Matrix                          { return p.view }

func (p *testPrim) CanMakeEqual(mine BatchTracker, other Primitive, theirs BatchTracker) bool {
	o, ok := other.(*testPrim)
	return ok && o.group == p.group && mine == theirs
}

// testPool is an append-only PathDataPool. gap inserts padding before each
// append so consecutive requests are never contiguous; xformGap pads only
// the transforms.
type testPool struct {
	indices    []byte
	transforms []float32
	gap        bool
	xformGap   bool
	unmaps     int
	resets     int
}

func (p *testPool) AppendIndicesAndTransforms(indices []byte, indexType PathIndexType,
	transforms []float32, transformType PathTransformType, count int) (int, int) {
	if p.gap {
		p.indices = append(p.indices, 0xEE)
	}
	if p.gap || p.xformGap {
		p.transforms = append(p.transforms, -1)
	}
	idx, xf := len(p.indices), len(p.transforms)
	p.indices = append(p.indices, indices[:count*PathIndexSize(indexType)]...)
	p.transforms = append(p.transforms, transforms[:count*PathTransformSize(transformType)]...)
	return idx, xf
}

func (p *testPool) Indices(offset, n int) []byte       { return p.indices[offset : offset+n] }
func (p *testPool) Transforms(offset, n int) []float32 { return p.transforms[offset : offset+n] }
func (p *testPool) Unmap()                             { p.unmaps++ }

func (p *testPool) Reset() {
	p.indices, p.transforms = p.indices[:0], p.transforms[:0]
	p.resets++
}

// testTarget logs the hooks a flush calls on it.
type testTarget struct {
	draws  int
	events []string
}

func (t *testTarget) ResetNumberOfDraws() { t.draws = 0; t.events = append(t.events, "reset") }
func (t *testTarget) NumberOfDraws() int  { return t.draws }
func (t *testTarget) PreFlush()           { t.events = append(t.events, "pre") }
func (t *testTarget) PostFlush()          { t.events = append(t.events, "post") }
func (t *testTarget) FlushNext(n int)     { t.events = append(t.events, fmt.Sprintf("flush %d", n)) }

// testBatch draws one quad per rect and combines with batches of the same
// color.
type testBatch struct {
	color  Color
	rects  int
	draws  int
	inited bool
}

func (b *testBatch) InitBatchTracker(TrackerInit) { b.inited = true }

func (b *testBatch) CombineIfPossible(other Batch) bool {
	o, ok := other.(*testBatch)
	if !ok || o.color != b.color {
		return false
	}
	b.rects += o.rects
	return true
}

func (b *testBatch) GenerateGeometry(target BatchTarget, _ Pipeline) {
	t := target.(*testTarget)
	t.draws += b.rects
	t.events = append(t.events, "gen")
}

func (b *testBatch) NumberOfDraws() int     { return b.draws }
func (b *testBatch) SetNumberOfDraws(n int) { b.draws = n }

// testMarkers reports marker id while on is set.
type testMarkers struct {
	id int
	on bool
}

func (m *testMarkers) CurrentMarker() (int, bool) { return m.id, m.on }
func (m *testMarkers) MarkerString(id int) string { return fmt.Sprintf("m%d", id) }

// fakeBackend logs every dispatch.
type fakeBackend struct {
	calls []string

	clears     []image.Rectangle
	pathsCount []int
	pathsIdx   [][]byte
	pathsXform [][]float32
	descs      []*ProgramDesc
	stencils   []StencilPathState
}

func (b *fakeBackend) log(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *fakeBackend) Draw(args DrawArgs, info DrawInfo) {
	b.descs = append(b.descs, args.Desc)
	b.log("Draw %d", info.VertexCount)
}

func (b *fakeBackend) StencilPath(path Path, state StencilPathState) {
	b.stencils = append(b.stencils, state)
	b.log("StencilPath %d", path.ID())
}

func (b *fakeBackend) DrawPath(args DrawArgs, path Path, _ StencilSettings) {
	b.descs = append(b.descs, args.Desc)
	b.log("DrawPath %d", path.ID())
}

func (b *fakeBackend) DrawPaths(args DrawArgs, pathRange PathRange, indices []byte, _ PathIndexType,
	transforms []float32, _ PathTransformType, count int, _ StencilSettings) {
	b.descs = append(b.descs, args.Desc)
	b.pathsCount = append(b.pathsCount, count)
	b.pathsIdx = append(b.pathsIdx, append([]byte(nil), indices...))
	b.pathsXform = append(b.pathsXform, append([]float32(nil), transforms...))
	b.log("DrawPaths %d", count)
}

func (b *fakeBackend) Clear(rect image.Rectangle, color Color, _ bool, _ Surface) {
	b.clears = append(b.clears, rect)
	b.log("Clear %08x", uint32(color))
}

func (b *fakeBackend) ClearStencilClip(_ image.Rectangle, insideClip bool, _ Surface) {
	b.log("ClearStencilClip %t", insideClip)
}

func (b *fakeBackend) Discard(Surface) { b.log("Discard") }

func (b *fakeBackend) CopySurface(_, _ Surface, srcRect image.Rectangle, dstPoint image.Point) {
	b.log("CopySurface %v %v", srcRect, dstPoint)
}

func (b *fakeBackend) BuildProgramDesc(desc *ProgramDesc, prim Primitive, _ Pipeline, _ BatchTracker) {
	desc.Key = []uint32{uint32(len(b.calls))}
	b.log("BuildProgramDesc %s", prim.Name())
}

func (b *fakeBackend) PushTraceMarker(marker string) { b.log("Push %s", marker) }
func (b *fakeBackend) PopTraceMarker(marker string)  { b.log("Pop %s", marker) }

// newTestCommands returns Commands wired to a fresh pool and batch target.
func newTestCommands(opts ...Option) (*Commands, *testPool, *testTarget) {
	pool := &testPool{}
	target := &testTarget{}
	return New(testLayer{}, pool, target, opts...), pool, target
}

// pinfo returns a PipelineInfo drawing into a 16x16 target.
func pinfo(key string) PipelineInfo {
	return PipelineInfo{Target: testSurface{w: 16, h: 16}, Desc: testDesc{key: key}}
}

// recordTypes returns the kinds of the recorded records in order.
func recordTypes(c *Commands) []CommandType {
	var types []CommandType
	for _, cmd := range c.Buffer().All() {
		types = append(types, cmd.Type())
	}
	return types
}
