package gpucmd

import "image"

// Commands records drawing requests as command records and replays them
// against a Backend in one flush.
//
// Requests that contribute nothing are dropped at record time, redundant
// state records are elided, and compatible DrawBatch and DrawPaths requests
// are folded into the trailing record. Flush then visits the surviving
// records exactly once, in order.
//
// Commands is not safe for concurrent use, and recording must not be
// interleaved with a flush of the same Commands.
type Commands struct {
	buf CommandBuffer

	pipelines PipelineLayer
	pool      PathDataPool
	target    BatchTarget

	// prevState is the state record draws recorded next will execute with.
	prevState *SetStateCmd

	// drawBatch is the trailing DrawBatch record, candidate for combining.
	drawBatch *DrawBatchCmd

	mode    FlushMode
	markers TraceMarkerSource
	pools   []GeometryPool
	metrics *Metrics

	// flushed is set by Flush and cleared by Reset.
	flushed bool
}

// New creates an empty Commands.
//
// pipelines materializes and compares pipelines, pool stores DrawPaths data,
// and target receives batch geometry. pool may be nil when DrawPaths is
// never recorded; target may be nil when DrawBatch is never recorded.
func New(pipelines PipelineLayer, pool PathDataPool, target BatchTarget, opts ...Option) *Commands {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Commands{
		pipelines: pipelines,
		pool:      pool,
		target:    target,
		mode:      o.mode,
		markers:   o.markers,
		pools:     o.pools,
		metrics:   o.metrics,
	}
	if gp, ok := pool.(GeometryPool); ok {
		c.pools = append(c.pools, gp)
	}
	return c
}

// Buffer returns the recorded records. The buffer must not be modified.
func (c *Commands) Buffer() *CommandBuffer {
	return &c.buf
}

// Len returns the number of recorded records.
func (c *Commands) Len() int {
	return c.buf.Len()
}

// Reset destroys every record of the session, forgets the active state and
// batch, and rewinds the geometry pools so recording can start again. A
// flush after Reset makes no backend calls.
func (c *Commands) Reset() {
	c.buf.Reset()
	c.prevState = nil
	c.drawBatch = nil
	c.flushed = false
	for _, p := range c.pools {
		p.Reset()
	}
}

// append adds a non-state record and stamps its trace marker.
func (c *Commands) append(cmd Command) {
	c.buf.Append(cmd)
	c.stampMarker(cmd)
	c.metrics.append(cmd.Type())
}

// stampMarker attaches the current trace marker to cmd.
func (c *Commands) stampMarker(cmd Command) {
	if c.markers == nil {
		return
	}
	if id, ok := c.markers.CurrentMarker(); ok {
		b := cmd.base()
		b.marker, b.traced = id, true
	}
}

// RecordDraw records a vertex draw. It returns the new record, or nil when
// the pipeline must be skipped.
func (c *Commands) RecordDraw(prim Primitive, info DrawInfo, pi PipelineInfo) Command {
	if !c.setupState(prim, pi) {
		return nil
	}
	cmd := &DrawCmd{Info: info}
	c.append(cmd)
	return cmd
}

// RecordStencilPath records writing path into the stencil buffer of the
// pipeline's target. It returns the new record, or nil when the pipeline
// must be skipped.
func (c *Commands) RecordStencilPath(prim PathPrimitive, path Path, scissor ScissorState,
	stencil StencilSettings, pi PipelineInfo) Command {
	if !c.setupState(prim, pi) {
		return nil
	}
	cmd := &StencilPathCmd{
		Path: path,
		State: StencilPathState{
			Target:     pi.Target,
			Scissor:    scissor,
			Stencil:    stencil,
			UseHWAA:    pi.HWAntialias,
			ViewMatrix: prim.ViewMatrix(),
		},
	}
	c.append(cmd)
	return cmd
}

// RecordDrawPath records stenciling and covering a single path. It returns
// the new record, or nil when the pipeline must be skipped.
func (c *Commands) RecordDrawPath(prim PathPrimitive, path Path, stencil StencilSettings, pi PipelineInfo) Command {
	if !c.setupState(prim, pi) {
		return nil
	}
	cmd := &DrawPathCmd{Path: path, Stencil: stencil}
	c.append(cmd)
	return cmd
}

// RecordDrawPaths records stenciling and covering count paths of pathRange.
// indices holds count indices of indexType and transforms holds
// count*PathTransformSize(transformType) values; both are copied into the
// PathDataPool.
//
// The request is folded into the trailing DrawPaths record when it draws
// the same range with the same index type, transform type and stencil
// settings, the fill is winding, the draw does not read the destination,
// and its pool data directly follows the trailing record's data. Overlapping
// even-odd paths would cancel each other's coverage and blended draws depend
// on draw order, so neither is ever folded.
//
// It returns the new record, or nil when the request was folded or the
// pipeline must be skipped.
func (c *Commands) RecordDrawPaths(prim PathPrimitive, pathRange PathRange,
	indices []byte, indexType PathIndexType,
	transforms []float32, transformType PathTransformType,
	count int, stencil StencilSettings, pi PipelineInfo) Command {
	assert(pathRange != nil, "DrawPaths without a path range")
	assert(count > 0, "DrawPaths with no paths")

	if !c.setupState(prim, pi) {
		return nil
	}

	idxOff, xformOff := c.pool.AppendIndicesAndTransforms(indices, indexType,
		transforms, transformType, count)

	if prev, ok := c.buf.Back().(*DrawPathsCmd); ok &&
		prev.PathRange == pathRange &&
		prev.IndexType == indexType &&
		prev.TransformType == transformType &&
		prev.Stencil == stencil &&
		stencil.IsWinding() &&
		!c.pipelines.WillBlendWithDst(pi, prim) {
		xformSize := PathTransformSize(transformType)
		if prev.IndexOffset+prev.indexBytes() == idxOff &&
			(xformSize == 0 || prev.TransformOffset+prev.transformValues() == xformOff) {
			prev.Count += count
			c.metrics.merge(CmdDrawPaths)
			return nil
		}
	}

	cmd := &DrawPathsCmd{
		PathRange:       pathRange,
		IndexOffset:     idxOff,
		IndexType:       indexType,
		TransformOffset: xformOff,
		TransformType:   transformType,
		Count:           count,
		Stencil:         stencil,
	}
	c.append(cmd)
	return cmd
}

// RecordDrawBatch records drawing batch. When the trailing record is the
// tracked DrawBatch and its batch absorbs the new one, no record is added.
//
// It returns the DrawBatch record that will draw batch, or nil when the
// pipeline must be skipped.
func (c *Commands) RecordDrawBatch(batch Batch, pi PipelineInfo) Command {
	if !c.setupBatchState(batch, pi) {
		return nil
	}

	if _, ok := c.buf.Back().(*DrawBatchCmd); !ok || c.drawBatch == nil {
		c.drawBatch = &DrawBatchCmd{Batch: batch}
		c.append(c.drawBatch)
		return c.drawBatch
	}

	assert(c.buf.Back() == Command(c.drawBatch), "trailing DrawBatch is not the tracked batch")
	if c.drawBatch.Batch.CombineIfPossible(batch) {
		c.metrics.merge(CmdDrawBatch)
		return c.drawBatch
	}

	c.drawBatch = &DrawBatchCmd{Batch: batch}
	c.append(c.drawBatch)
	return c.drawBatch
}

// RecordClear records clearing rect of target to color. A nil rect clears
// the whole target. color must be premultiplied.
func (c *Commands) RecordClear(rect *image.Rectangle, color Color, canIgnoreRect bool, target Surface) Command {
	assert(target != nil, "Clear without a target")
	assert(color.IsPremultiplied(), "Clear color is not premultiplied")

	r := image.Rect(0, 0, target.Width(), target.Height())
	if rect != nil {
		r = *rect
	}
	cmd := &ClearCmd{
		Rect:          r,
		Color:         color,
		CanIgnoreRect: canIgnoreRect,
		Target:        target,
	}
	c.append(cmd)
	return cmd
}

// RecordClearStencilClip records setting (insideClip) or clearing the
// stencil clip bit inside rect of target.
func (c *Commands) RecordClearStencilClip(rect image.Rectangle, insideClip bool, target Surface) Command {
	assert(target != nil, "ClearStencilClip without a target")

	cmd := &ClearStencilClipCmd{
		Rect:       rect,
		InsideClip: insideClip,
		Target:     target,
	}
	c.append(cmd)
	return cmd
}

// RecordDiscard records discarding the contents of target. It is stored as
// a Clear record whose color is ColorIllegal.
func (c *Commands) RecordDiscard(target Surface) Command {
	assert(target != nil, "Discard without a target")

	cmd := &ClearCmd{
		Color:  ColorIllegal,
		Target: target,
	}
	c.append(cmd)
	return cmd
}

// RecordCopySurface records copying srcRect of src into dst at dstPoint.
func (c *Commands) RecordCopySurface(dst, src Surface, srcRect image.Rectangle, dstPoint image.Point) Command {
	cmd := &CopySurfaceCmd{
		Dst:      dst,
		Src:      src,
		SrcRect:  srcRect,
		DstPoint: dstPoint,
	}
	c.append(cmd)
	return cmd
}
