package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gpucmd"
)

func TestLoadScript(t *testing.T) {
	s, err := loadScript("testdata/frame.toml")
	if err != nil {
		t.Fatalf("loadScript failed: %v", err)
	}
	if len(s.Surfaces) != 2 || len(s.Ranges) != 1 || len(s.Ops) != 11 {
		t.Errorf("decoded %d surfaces, %d ranges, %d ops", len(s.Surfaces), len(s.Ranges), len(s.Ops))
	}
	if !s.Surfaces[0].Stencil {
		t.Error("stencil flag not decoded")
	}
}

func TestLoadScriptMissing(t *testing.T) {
	if _, err := loadScript("testdata/missing.toml"); err == nil {
		t.Error("loadScript of a missing file succeeded")
	}
}

func TestParseScriptErrors(t *testing.T) {
	const surface = "[[surface]]\nname = \"rt\"\nwidth = 4\nheight = 4\n"

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"unknown op", surface + "[[op]]\nkind = \"blit\"\ntarget = \"rt\"\n", errUnknownOp},
		{"unknown target", surface + "[[op]]\nkind = \"discard\"\ntarget = \"nope\"\n", errUnknownSurface},
		{"unknown copy source", surface + "[[op]]\nkind = \"copy\"\ntarget = \"rt\"\nsrc = \"nope\"\n", errUnknownSurface},
		{"unknown range", surface + "[[op]]\nkind = \"draw_paths\"\ntarget = \"rt\"\nrange = \"x\"\ncount = 1\n", errUnknownRange},
		{"short rect", surface + "[[op]]\nkind = \"clear\"\ntarget = \"rt\"\nrect = [1, 2]\n", errBadRect},
		{"short point", surface + "[[op]]\nkind = \"copy\"\ntarget = \"rt\"\nsrc = \"rt\"\npoint = [1]\n", errBadPoint},
		{"unknown blend", surface + "[[op]]\nkind = \"draw\"\ntarget = \"rt\"\nblend = \"multiply\"\n", errUnknownBlend},
		{"unknown fill", surface + "[[op]]\nkind = \"draw_path\"\ntarget = \"rt\"\nfill = \"nonzero\"\n", errUnknownFill},
		{"unknown transform", surface + "[[range]]\nname = \"g\"\nsize = 4\n[[op]]\nkind = \"draw_paths\"\ntarget = \"rt\"\nrange = \"g\"\ncount = 1\ntransform = \"skew\"\n", errUnknownXform},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScript(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("parseScript error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	others := []string{
		"mode = \"sideways\"\n",
		"[[surface]]\nname = \"rt\"\nwidth = 0\nheight = 4\n",
		surface + "[[op]]\nkind = \"clear\"\ntarget = \"rt\"\ncolor = \"red\"\n",
		surface + "[[op]]\nkind = \"clear\"\ntarget = \"rt\"\nhsv = [1.0]\n",
		"this is not toml",
	}
	for _, data := range others {
		if _, err := parseScript(data); err == nil {
			t.Errorf("parseScript(%q) succeeded", data)
		}
	}
}

func TestOpColor(t *testing.T) {
	half := 0.5
	zero := 0.0

	tests := []struct {
		name string
		op   op
		want gpucmd.Color
	}{
		{"default black", op{}, gpucmd.PackColor(0, 0, 0, 255)},
		{"hex", op{Color: "#ff8000"}, gpucmd.PackColor(255, 128, 0, 255)},
		{"hex premultiplied", op{Color: "#ff0000", Alpha: &half}, gpucmd.PackColor(128, 0, 0, 128)},
		{"transparent", op{Color: "#ffffff", Alpha: &zero}, gpucmd.PackColor(0, 0, 0, 0)},
		{"hsv red", op{HSV: []float64{0, 1, 1}}, gpucmd.PackColor(255, 0, 0, 255)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op.color()
			if err != nil {
				t.Fatalf("color() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("color() = %#x, want %#x", uint32(got), uint32(tt.want))
			}
			if !got.IsPremultiplied() {
				t.Error("color is not premultiplied")
			}
		})
	}
}

func TestPathIndices(t *testing.T) {
	tests := []struct {
		n, count  int
		wantType  gpucmd.PathIndexType
		wantBytes int
	}{
		{128, 5, gpucmd.PathIndexU8, 5},
		{1000, 5, gpucmd.PathIndexU16, 10},
		{1 << 20, 5, gpucmd.PathIndexU32, 20},
	}
	for _, tt := range tests {
		typ, idx := pathIndices(tt.n, tt.count)
		if typ != tt.wantType || len(idx) != tt.wantBytes {
			t.Errorf("pathIndices(%d, %d) = %v with %d bytes, want %v with %d",
				tt.n, tt.count, typ, len(idx), tt.wantType, tt.wantBytes)
		}
	}

	for _, typ := range []gpucmd.PathTransformType{
		gpucmd.PathTransformNone, gpucmd.PathTransformTranslateX,
		gpucmd.PathTransformTranslate, gpucmd.PathTransformAffine,
	} {
		if got, want := len(pathTransforms(typ, 3)), 3*gpucmd.PathTransformSize(typ); got != want {
			t.Errorf("pathTransforms(%v, 3) has %d values, want %d", typ, got, want)
		}
	}
}

func TestReplayTrace(t *testing.T) {
	s, err := loadScript("testdata/frame.toml")
	if err != nil {
		t.Fatalf("loadScript failed: %v", err)
	}

	var out bytes.Buffer
	if err := replay(&out, s, runConfig{backend: "trace", metrics: true, verbose: true}); err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		// 9 requests: the second draw_paths merges, the transparent draw is
		// skipped, the second batch combines into the first.
		"requests=9 dropped=2 records=8",
		"batches: draws=1 vertices=12",
		"PushTraceMarker frame",
		"DrawPaths prim=glyph",
		"count=8",
		"gpucmd_draws_skipped_total 1",
		"gpucmd_flushes_total 1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestReplayHAL(t *testing.T) {
	s, err := loadScript("testdata/frame.toml")
	if err != nil {
		t.Fatalf("loadScript failed: %v", err)
	}

	var out bytes.Buffer
	if err := replay(&out, s, runConfig{backend: halBackendName, mode: "interleaved"}); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	// Clear, stencil clip clear and discard are passes; the copy is native;
	// BuildProgramDesc and DrawPaths go to the fallback.
	if want := "hal: passes=3 copies=1 forwarded=2 submits=1"; !strings.Contains(out.String(), want) {
		t.Errorf("output missing %q:\n%s", want, out.String())
	}
}

func TestReplayUnknownBackend(t *testing.T) {
	s, err := parseScript("")
	if err != nil {
		t.Fatalf("parseScript failed: %v", err)
	}
	err = replay(&bytes.Buffer{}, s, runConfig{backend: "vulkan-please"})
	if !errors.Is(err, gpucmd.ErrUnknownBackend) {
		t.Errorf("replay error = %v, want ErrUnknownBackend", err)
	}
}
