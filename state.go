package gpucmd

// statesEqual reports whether cand configures the backend exactly like prev,
// in which case cand is redundant and prev stays active.
//
// Two primitive states are equal when the primitives can share a program
// given their trackers and the pipelines are equal. Two batch states (no
// primitive) are equal when their pipelines are. A primitive state never
// equals a batch state.
func statesEqual(prev, cand *SetStateCmd, pipelines PipelineLayer) bool {
	if prev == nil || cand == nil {
		return false
	}
	switch {
	case prev.Primitive != nil && cand.Primitive != nil:
		return prev.Primitive.CanMakeEqual(prev.Tracker, cand.Primitive, cand.Tracker) &&
			pipelines.PipelinesEqual(prev.Pipeline, cand.Pipeline)
	case prev.Primitive == nil && cand.Primitive == nil:
		return pipelines.PipelinesEqual(prev.Pipeline, cand.Pipeline)
	default:
		return false
	}
}

// setupState resolves the active state for a primitive draw. It reports
// false when the pipeline must be skipped, in which case no draw may be
// recorded for the request.
func (c *Commands) setupState(prim Primitive, info PipelineInfo) bool {
	ss := &SetStateCmd{Primitive: prim}
	c.buf.Append(ss)

	p, mustSkip := c.pipelines.MaterializePipeline(info)
	if mustSkip {
		c.buf.RemoveLast()
		c.metrics.skip()
		Logger().Debug("gpucmd: pipeline skipped", "primitive", prim.Name())
		return false
	}
	ss.Pipeline = p
	ss.Tracker = prim.InitBatchTracker(p.TrackerInit())

	return c.activate(ss)
}

// setupBatchState resolves the active state for a batch draw. The batch
// supplies its own identity, so the state record carries no primitive.
func (c *Commands) setupBatchState(batch Batch, info PipelineInfo) bool {
	ss := &SetStateCmd{}
	c.buf.Append(ss)

	p, mustSkip := c.pipelines.MaterializePipeline(info)
	if mustSkip {
		c.buf.RemoveLast()
		c.metrics.skip()
		Logger().Debug("gpucmd: batch pipeline skipped")
		return false
	}
	ss.Pipeline = p
	batch.InitBatchTracker(p.TrackerInit())

	return c.activate(ss)
}

// activate keeps ss as the new active state unless it equals the previous
// one, in which case the candidate record is dropped again.
func (c *Commands) activate(ss *SetStateCmd) bool {
	if statesEqual(c.prevState, ss, c.pipelines) {
		c.buf.RemoveLast()
		c.metrics.merge(CmdSetState)
		return true
	}
	c.prevState = ss
	c.stampMarker(ss)
	c.metrics.append(CmdSetState)
	return true
}
