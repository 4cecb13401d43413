package synth

import "github.com/gogpu/gpucmd"

// Target is a gpucmd.BatchTarget that queues draws as vertex counts and
// issues them in order.
type Target struct {
	queued []int
	next   int
	draws  int

	// Issued holds the vertex count of every draw issued by FlushNext.
	Issued []int

	// Flushing is true between PreFlush and PostFlush.
	Flushing bool

	Vertices int
}

// queue adds one draw of n vertices.
func (t *Target) queue(n int) {
	t.queued = append(t.queued, n)
	t.draws++
	t.Vertices += n
}

// ResetNumberOfDraws implements gpucmd.BatchTarget.
func (t *Target) ResetNumberOfDraws() { t.draws = 0 }

// NumberOfDraws returns the draws queued since the last reset.
func (t *Target) NumberOfDraws() int { return t.draws }

// PreFlush implements gpucmd.BatchTarget.
func (t *Target) PreFlush() {
	t.Flushing = true
	t.next = 0
}

// PostFlush drops the queued draws.
func (t *Target) PostFlush() {
	t.Flushing = false
	t.queued = t.queued[:0]
	t.next = 0
}

// FlushNext issues the next n queued draws.
func (t *Target) FlushNext(n int) {
	end := min(t.next+n, len(t.queued))
	t.Issued = append(t.Issued, t.queued[t.next:end]...)
	t.next = end
}

var _ gpucmd.BatchTarget = (*Target)(nil)
