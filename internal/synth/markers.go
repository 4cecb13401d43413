package synth

// Markers is a stack of named trace markers implementing
// gpucmd.TraceMarkerSource.
type Markers struct {
	names []string
	stack []int
}

// Push makes name the current marker.
func (m *Markers) Push(name string) {
	m.names = append(m.names, name)
	m.stack = append(m.stack, len(m.names)-1)
}

// Pop restores the previous marker.
func (m *Markers) Pop() {
	if len(m.stack) > 0 {
		m.stack = m.stack[:len(m.stack)-1]
	}
}

// CurrentMarker returns the innermost pushed marker.
func (m *Markers) CurrentMarker() (int, bool) {
	if len(m.stack) == 0 {
		return 0, false
	}
	return m.stack[len(m.stack)-1], true
}

// MarkerString returns the name of marker id.
func (m *Markers) MarkerString(id int) string {
	if id < 0 || id >= len(m.names) {
		return ""
	}
	return m.names[id]
}
