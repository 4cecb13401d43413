package synth

import "github.com/gogpu/gpucmd"

// Primitive is a geometry processor identified by kind. Two primitives of
// the same kind and view matrix share a program when their trackers match.
type Primitive struct {
	Kind   string
	Matrix gpucmd.Matrix
}

// NewPrimitive creates a primitive with the identity view matrix.
func NewPrimitive(kind string) *Primitive {
	return &Primitive{Kind: kind, Matrix: gpucmd.Identity()}
}

// Tracker is the per-draw data a Primitive derives from its pipeline.
type Tracker struct {
	Color        gpucmd.Color
	UsesCoverage bool
}

func (p *Primitive) Name() string { return p.Kind }

func (p *Primitive) InitBatchTracker(init gpucmd.TrackerInit) gpucmd.BatchTracker {
	return Tracker{Color: init.OverrideColor, UsesCoverage: !init.CoverageIgnored}
}

func (p *Primitive) CanMakeEqual(mine gpucmd.BatchTracker, other gpucmd.Primitive, theirs gpucmd.BatchTracker) bool {
	o, ok := other.(*Primitive)
	if !ok || o.Kind != p.Kind || o.Matrix != p.Matrix {
		return false
	}
	return mine == theirs
}

func (p *Primitive) ViewMatrix() gpucmd.Matrix { return p.Matrix }

var _ gpucmd.PathPrimitive = (*Primitive)(nil)
