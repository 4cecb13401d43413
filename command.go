package gpucmd

import "image"

// CommandType identifies the kind of a command record.
type CommandType uint8

const (
	CmdDraw             CommandType = iota // Vertex draw
	CmdStencilPath                         // Stencil-only path
	CmdDrawPath                            // Stencil-and-cover single path
	CmdDrawPaths                           // Stencil-and-cover instanced paths
	CmdSetState                            // Pipeline/program state
	CmdClear                               // Clear or discard
	CmdClearStencilClip                    // Stencil clip bit clear
	CmdCopySurface                         // Surface to surface copy
	CmdDrawBatch                           // Self-generating batch
)

var commandTypeNames = [...]string{
	CmdDraw:             "Draw",
	CmdStencilPath:      "StencilPath",
	CmdDrawPath:         "DrawPath",
	CmdDrawPaths:        "DrawPaths",
	CmdSetState:         "SetState",
	CmdClear:            "Clear",
	CmdClearStencilClip: "ClearStencilClip",
	CmdCopySurface:      "CopySurface",
	CmdDrawBatch:        "DrawBatch",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is a record in a CommandBuffer. The set of implementations is
// closed: the pointer types declared in this file.
type Command interface {
	// Type returns the kind of the record.
	Type() CommandType

	// MarkerID returns the trace marker attached at record time, if any.
	MarkerID() (id int, ok bool)

	base() *cmdBase
}

// cmdBase holds the fields common to every record.
type cmdBase struct {
	marker int
	traced bool
}

func (b *cmdBase) MarkerID() (int, bool) { return b.marker, b.traced }
func (b *cmdBase) base() *cmdBase        { return b }

// DrawCmd draws vertices with the active state.
type DrawCmd struct {
	cmdBase
	Info DrawInfo
}

// Type implements Command.
func (*DrawCmd) Type() CommandType { return CmdDraw }

// StencilPathCmd writes a path into the stencil buffer.
type StencilPathCmd struct {
	cmdBase
	Path  Path
	State StencilPathState
}

// Type implements Command.
func (*StencilPathCmd) Type() CommandType { return CmdStencilPath }

// DrawPathCmd stencils and covers one path with the active state.
type DrawPathCmd struct {
	cmdBase
	Path    Path
	Stencil StencilSettings
}

// Type implements Command.
func (*DrawPathCmd) Type() CommandType { return CmdDrawPath }

// DrawPathsCmd stencils and covers Count paths of a range. Its index and
// transform data live in the PathDataPool; Count grows when later requests
// are folded into the record.
type DrawPathsCmd struct {
	cmdBase
	PathRange       PathRange
	IndexOffset     int
	IndexType       PathIndexType
	TransformOffset int
	TransformType   PathTransformType
	Count           int
	Stencil         StencilSettings
}

// Type implements Command.
func (*DrawPathsCmd) Type() CommandType { return CmdDrawPaths }

// indexBytes returns the length in bytes of the record's index data.
func (c *DrawPathsCmd) indexBytes() int {
	return c.Count * PathIndexSize(c.IndexType)
}

// transformValues returns the number of transform values of the record.
func (c *DrawPathsCmd) transformValues() int {
	return c.Count * PathTransformSize(c.TransformType)
}

// SetStateCmd makes a pipeline configuration active for the records that
// follow it. Primitive is nil for state set up by a Batch.
type SetStateCmd struct {
	cmdBase
	Primitive Primitive
	Pipeline  Pipeline
	Tracker   BatchTracker

	// Desc is filled by the backend when the record is flushed.
	Desc ProgramDesc
}

// Type implements Command.
func (*SetStateCmd) Type() CommandType { return CmdSetState }

// pipeline returns the state's pipeline, or nil for a nil state.
func (c *SetStateCmd) pipeline() Pipeline {
	if c == nil {
		return nil
	}
	return c.Pipeline
}

// drawArgs returns the dispatch arguments of the state.
func (c *SetStateCmd) drawArgs() DrawArgs {
	if c == nil {
		return DrawArgs{}
	}
	return DrawArgs{
		Primitive: c.Primitive,
		Pipeline:  c.Pipeline,
		Desc:      &c.Desc,
		Tracker:   c.Tracker,
	}
}

// ClearCmd clears a rectangle of a target. A Color of ColorIllegal turns the
// record into a discard of the whole target.
type ClearCmd struct {
	cmdBase
	Rect          image.Rectangle
	Color         Color
	CanIgnoreRect bool
	Target        Surface
}

// Type implements Command.
func (*ClearCmd) Type() CommandType { return CmdClear }

// IsDiscard reports whether the record discards instead of clearing.
func (c *ClearCmd) IsDiscard() bool { return c.Color == ColorIllegal }

// ClearStencilClipCmd sets or clears the stencil clip bit inside Rect.
type ClearStencilClipCmd struct {
	cmdBase
	Rect       image.Rectangle
	InsideClip bool
	Target     Surface
}

// Type implements Command.
func (*ClearStencilClipCmd) Type() CommandType { return CmdClearStencilClip }

// CopySurfaceCmd copies SrcRect of Src into Dst at DstPoint.
type CopySurfaceCmd struct {
	cmdBase
	Dst      Surface
	Src      Surface
	SrcRect  image.Rectangle
	DstPoint image.Point
}

// Type implements Command.
func (*CopySurfaceCmd) Type() CommandType { return CmdCopySurface }

// DrawBatchCmd draws a batch with the active state. Several requests may
// share one record when their batches combine.
type DrawBatchCmd struct {
	cmdBase
	Batch Batch
}

// Type implements Command.
func (*DrawBatchCmd) Type() CommandType { return CmdDrawBatch }
