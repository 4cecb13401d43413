package gpucmd

import (
	"testing"
)

func TestCommandBuffer(t *testing.T) {
	var b CommandBuffer
	if !b.Empty() || b.Len() != 0 || b.Back() != nil {
		t.Fatal("zero CommandBuffer is not empty")
	}

	d := &DrawCmd{}
	c := &ClearCmd{}
	b.Append(d)
	b.Append(c)

	if b.Len() != 2 || b.Back() != Command(c) {
		t.Fatalf("Len() = %d, Back() = %v", b.Len(), b.Back())
	}
	if b.At(0) != Command(d) {
		t.Errorf("At(0) = %v, want the draw", b.At(0))
	}

	b.RemoveLast()
	if b.Len() != 1 || b.Back() != Command(d) {
		t.Errorf("after RemoveLast: Len() = %d, Back() = %v", b.Len(), b.Back())
	}

	b.Reset()
	if !b.Empty() {
		t.Errorf("Len() = %d after Reset, want 0", b.Len())
	}
}

func TestCommandBufferAll(t *testing.T) {
	var b CommandBuffer
	want := []Command{&SetStateCmd{}, &DrawCmd{}, &DrawBatchCmd{}}
	for _, cmd := range want {
		b.Append(cmd)
	}

	n := 0
	for i, cmd := range b.All() {
		if cmd != want[i] {
			t.Errorf("record %d = %v, want %v", i, cmd, want[i])
		}
		n++
	}
	if n != len(want) {
		t.Errorf("iterated %d records, want %d", n, len(want))
	}

	// Early break stops the iteration.
	n = 0
	for range b.All() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("iterated %d records after break, want 1", n)
	}
}

func TestCommandTypeString(t *testing.T) {
	tests := []struct {
		typ  CommandType
		want string
	}{
		{CmdDraw, "Draw"},
		{CmdStencilPath, "StencilPath"},
		{CmdDrawPath, "DrawPath"},
		{CmdDrawPaths, "DrawPaths"},
		{CmdSetState, "SetState"},
		{CmdClear, "Clear"},
		{CmdClearStencilClip, "ClearStencilClip"},
		{CmdCopySurface, "CopySurface"},
		{CmdDrawBatch, "DrawBatch"},
		{CommandType(200), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("CommandType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestCommandTypes(t *testing.T) {
	cmds := []struct {
		cmd  Command
		want CommandType
	}{
		{&DrawCmd{}, CmdDraw},
		{&StencilPathCmd{}, CmdStencilPath},
		{&DrawPathCmd{}, CmdDrawPath},
		{&DrawPathsCmd{}, CmdDrawPaths},
		{&SetStateCmd{}, CmdSetState},
		{&ClearCmd{}, CmdClear},
		{&ClearStencilClipCmd{}, CmdClearStencilClip},
		{&CopySurfaceCmd{}, CmdCopySurface},
		{&DrawBatchCmd{}, CmdDrawBatch},
	}
	for _, tt := range cmds {
		if got := tt.cmd.Type(); got != tt.want {
			t.Errorf("%T.Type() = %v, want %v", tt.cmd, got, tt.want)
		}
		if _, ok := tt.cmd.MarkerID(); ok {
			t.Errorf("%T is traced by default", tt.cmd)
		}
	}
}

func TestPathDataSizes(t *testing.T) {
	idx := map[PathIndexType]int{PathIndexU8: 1, PathIndexU16: 2, PathIndexU32: 4}
	for typ, want := range idx {
		if got := PathIndexSize(typ); got != want {
			t.Errorf("PathIndexSize(%v) = %d, want %d", typ, got, want)
		}
	}

	xf := map[PathTransformType]int{
		PathTransformNone:       0,
		PathTransformTranslateX: 1,
		PathTransformTranslateY: 1,
		PathTransformTranslate:  2,
		PathTransformAffine:     6,
	}
	for typ, want := range xf {
		if got := PathTransformSize(typ); got != want {
			t.Errorf("PathTransformSize(%v) = %d, want %d", typ, got, want)
		}
	}

	dp := &DrawPathsCmd{IndexType: PathIndexU16, TransformType: PathTransformAffine, Count: 3}
	if dp.indexBytes() != 6 || dp.transformValues() != 18 {
		t.Errorf("indexBytes() = %d, transformValues() = %d; want 6, 18", dp.indexBytes(), dp.transformValues())
	}
}
