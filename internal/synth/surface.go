package synth

import "fmt"

// Surface is a named render target of fixed size.
type Surface struct {
	Name string
	W, H int
}

// NewSurface creates a surface.
func NewSurface(name string, w, h int) *Surface {
	return &Surface{Name: name, W: w, H: h}
}

func (s *Surface) Width() int  { return s.W }
func (s *Surface) Height() int { return s.H }

func (s *Surface) String() string {
	return fmt.Sprintf("%s(%dx%d)", s.Name, s.W, s.H)
}

// Path is a path object identified by number.
type Path uint64

// ID implements gpucmd.Path.
func (p Path) ID() uint64 { return uint64(p) }

// PathRange is a collection of n paths, such as the glyphs of a font.
// Ranges are compared by pointer.
type PathRange struct {
	id uint64
	n  int
}

// NewPathRange creates a range of n paths.
func NewPathRange(id uint64, n int) *PathRange {
	return &PathRange{id: id, n: n}
}

func (r *PathRange) ID() uint64 { return r.id }
func (r *PathRange) Len() int   { return r.n }
