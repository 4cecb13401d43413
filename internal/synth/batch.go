package synth

import (
	"image"

	"github.com/gogpu/gpucmd"
)

// QuadsPerDraw is the number of rectangles one generated draw covers.
const QuadsPerDraw = 64

// RectBatch fills rectangles with one color. Batches of the same color
// combine.
type RectBatch struct {
	Color gpucmd.Color
	Rects []image.Rectangle

	init  gpucmd.TrackerInit
	draws int
}

// NewRectBatch creates a batch filling rects with color.
func NewRectBatch(color gpucmd.Color, rects ...image.Rectangle) *RectBatch {
	return &RectBatch{Color: color, Rects: rects}
}

// InitBatchTracker implements gpucmd.Batch.
func (b *RectBatch) InitBatchTracker(init gpucmd.TrackerInit) {
	b.init = init
}

// CombineIfPossible absorbs other when it is a RectBatch of the same color
// prepared for the same pipeline shape.
func (b *RectBatch) CombineIfPossible(other gpucmd.Batch) bool {
	o, ok := other.(*RectBatch)
	if !ok || o.Color != b.Color || o.init != b.init {
		return false
	}
	b.Rects = append(b.Rects, o.Rects...)
	return true
}

// GenerateGeometry writes four vertices per rectangle and queues one draw
// per QuadsPerDraw rectangles.
func (b *RectBatch) GenerateGeometry(target gpucmd.BatchTarget, _ gpucmd.Pipeline) {
	t, ok := target.(*Target)
	if !ok {
		return
	}
	for start := 0; start < len(b.Rects); start += QuadsPerDraw {
		n := min(QuadsPerDraw, len(b.Rects)-start)
		t.queue(n * 4)
	}
}

// NumberOfDraws implements gpucmd.Batch.
func (b *RectBatch) NumberOfDraws() int { return b.draws }

// SetNumberOfDraws implements gpucmd.Batch.
func (b *RectBatch) SetNumberOfDraws(n int) { b.draws = n }

var _ gpucmd.Batch = (*RectBatch)(nil)
