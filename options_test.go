package gpucmd

import "testing"

func TestDefaultOptions(t *testing.T) {
	cmds, _, _ := newTestCommands()
	if cmds.mode != FlushPrecompute {
		t.Errorf("default mode = %v, want Precompute", cmds.mode)
	}
	if cmds.markers != nil || cmds.metrics != nil {
		t.Error("markers or metrics set by default")
	}
	// The path data pool doubles as a geometry pool.
	if len(cmds.pools) != 1 {
		t.Errorf("len(pools) = %d, want 1", len(cmds.pools))
	}
}

func TestOptions(t *testing.T) {
	markers := &testMarkers{}
	m := &Metrics{}
	cmds, _, _ := newTestCommands(
		WithFlushMode(FlushInterleaved),
		WithTraceMarkers(markers),
		WithGeometryPools(&testPool{}, &testPool{}),
		WithMetrics(m),
	)
	if cmds.mode != FlushInterleaved {
		t.Errorf("mode = %v, want Interleaved", cmds.mode)
	}
	if cmds.markers != TraceMarkerSource(markers) {
		t.Error("WithTraceMarkers not applied")
	}
	if len(cmds.pools) != 3 {
		t.Errorf("len(pools) = %d, want 3", len(cmds.pools))
	}
	if cmds.metrics != m {
		t.Error("WithMetrics not applied")
	}
}

func TestNewWithoutPool(t *testing.T) {
	cmds := New(testLayer{}, nil, nil)
	if len(cmds.pools) != 0 {
		t.Errorf("len(pools) = %d, want 0", len(cmds.pools))
	}
	cmds.RecordDiscard(testSurface{w: 2, h: 2})
	backend := &fakeBackend{}
	cmds.Flush(backend)
	if len(backend.calls) != 1 {
		t.Errorf("calls = %v, want one Discard", backend.calls)
	}
}

func TestFlushModeString(t *testing.T) {
	tests := []struct {
		mode FlushMode
		want string
	}{
		{FlushPrecompute, "Precompute"},
		{FlushInterleaved, "Interleaved"},
		{FlushMode(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("FlushMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}
