//go:build gpucmddebug

package gpucmd

import (
	"strings"
	"testing"
)

func TestAssertPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"RemoveLast on empty buffer", func() {
			var b CommandBuffer
			b.RemoveLast()
		}},
		{"non-premultiplied clear", func() {
			cmds, _, _ := newTestCommands()
			cmds.RecordClear(nil, PackColor(255, 0, 0, 128), false, testSurface{w: 1, h: 1})
		}},
		{"DrawPaths without paths", func() {
			cmds, _, _ := newTestCommands()
			cmds.RecordDrawPaths(&testPrim{}, &testPathRange{}, nil, PathIndexU8, nil,
				PathTransformNone, 0, WindingPathStencil(), pinfo("a"))
		}},
		{"second flush without Reset", func() {
			cmds, _, _ := newTestCommands()
			cmds.RecordDiscard(testSurface{w: 1, h: 1})
			cmds.Flush(&fakeBackend{})
			cmds.Flush(&fakeBackend{})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				msg, _ := r.(string)
				if !strings.HasPrefix(msg, "gpucmd: ") {
					t.Errorf("recover() = %v, want a gpucmd assertion", r)
				}
			}()
			tt.fn()
		})
	}
}
