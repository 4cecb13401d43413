package gpucmd

// Flush replays every recorded record against backend in recorded order. It
// is a no-op on an empty buffer. A session is flushed once: call Reset
// before recording and flushing again. Debug builds panic on a second
// Flush of the same session.
//
// Before the main traversal the geometry pools are unmapped and the batch
// target's PreFlush hook runs; PostFlush runs afterwards. With
// FlushPrecompute (the default) a first pass generates the geometry of every
// batch and stores its draw count without calling the backend.
//
// Flush neither adds nor removes records, so the buffer can still be
// inspected until Reset.
func (c *Commands) Flush(backend Backend) {
	if c.buf.Empty() {
		return
	}
	assert(!c.flushed, "session flushed twice without Reset")
	c.flushed = true

	if c.mode == FlushPrecompute {
		c.precomputeBatches()
	}

	for _, p := range c.pools {
		p.Unmap()
	}
	if c.target != nil {
		c.target.PreFlush()
	}

	// current is the state record most recently reached by the traversal.
	var current *SetStateCmd
	for _, cmd := range c.buf.All() {
		current = c.executeTraced(backend, cmd, current)
	}

	if c.target != nil {
		c.target.PostFlush()
	}

	c.metrics.flush()
	Logger().Debug("gpucmd: flush",
		"records", c.buf.Len(),
		"mode", c.mode.String())
}

// precomputeBatches generates the geometry of every batch against the
// pipeline of its state and records the resulting draw count on the batch.
func (c *Commands) precomputeBatches() {
	var current *SetStateCmd
	for _, cmd := range c.buf.All() {
		switch cmd := cmd.(type) {
		case *SetStateCmd:
			current = cmd
		case *DrawBatchCmd:
			assert(current != nil, "DrawBatch record without an active state")
			c.target.ResetNumberOfDraws()
			cmd.Batch.GenerateGeometry(c.target, current.pipeline())
			cmd.Batch.SetNumberOfDraws(c.target.NumberOfDraws())
		}
	}
}

// executeTraced executes cmd inside its trace marker, if it has one.
func (c *Commands) executeTraced(backend Backend, cmd Command, current *SetStateCmd) *SetStateCmd {
	id, traced := cmd.MarkerID()
	if !traced || c.markers == nil {
		return c.execute(backend, cmd, current)
	}
	marker := c.markers.MarkerString(id)
	backend.PushTraceMarker(marker)
	next := c.execute(backend, cmd, current)
	backend.PopTraceMarker(marker)
	return next
}

// execute dispatches one record and returns the state active after it.
func (c *Commands) execute(backend Backend, cmd Command, current *SetStateCmd) *SetStateCmd {
	c.metrics.dispatch(cmd.Type())

	switch cmd := cmd.(type) {
	case *SetStateCmd:
		// Batch states have no primitive; the batch builds its own program.
		if cmd.Primitive != nil {
			backend.BuildProgramDesc(&cmd.Desc, cmd.Primitive, cmd.Pipeline, cmd.Tracker)
		}
		return cmd

	case *DrawBatchCmd:
		assert(current != nil, "DrawBatch record without an active state")
		if c.mode == FlushInterleaved {
			c.target.ResetNumberOfDraws()
			cmd.Batch.GenerateGeometry(c.target, current.pipeline())
			cmd.Batch.SetNumberOfDraws(c.target.NumberOfDraws())
		}
		c.target.FlushNext(cmd.Batch.NumberOfDraws())

	case *DrawCmd:
		assert(current != nil, "Draw record without an active state")
		backend.Draw(current.drawArgs(), cmd.Info)

	case *StencilPathCmd:
		backend.StencilPath(cmd.Path, cmd.State)

	case *DrawPathCmd:
		assert(current != nil, "DrawPath record without an active state")
		backend.DrawPath(current.drawArgs(), cmd.Path, cmd.Stencil)

	case *DrawPathsCmd:
		assert(current != nil, "DrawPaths record without an active state")
		backend.DrawPaths(current.drawArgs(), cmd.PathRange,
			c.pool.Indices(cmd.IndexOffset, cmd.indexBytes()), cmd.IndexType,
			c.pool.Transforms(cmd.TransformOffset, cmd.transformValues()), cmd.TransformType,
			cmd.Count, cmd.Stencil)

	case *ClearCmd:
		if cmd.IsDiscard() {
			backend.Discard(cmd.Target)
		} else {
			backend.Clear(cmd.Rect, cmd.Color, cmd.CanIgnoreRect, cmd.Target)
		}

	case *ClearStencilClipCmd:
		backend.ClearStencilClip(cmd.Rect, cmd.InsideClip, cmd.Target)

	case *CopySurfaceCmd:
		backend.CopySurface(cmd.Dst, cmd.Src, cmd.SrcRect, cmd.DstPoint)
	}
	return current
}
