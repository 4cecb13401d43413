package main

import (
	"errors"
	"fmt"
	"image"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/gpucmd"
	"github.com/gogpu/gpucmd/internal/synth"
)

// script is a replayable sequence of drawing requests.
//
//	mode = "precompute"
//
//	[[surface]]
//	name = "rt"
//	width = 256
//	height = 256
//
//	[[op]]
//	kind = "clear"
//	target = "rt"
//	color = "#203040"
type script struct {
	Mode     string       `toml:"mode"`
	Surfaces []surfaceDef `toml:"surface"`
	Ranges   []rangeDef   `toml:"range"`
	Ops      []op         `toml:"op"`
}

type surfaceDef struct {
	Name    string `toml:"name"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Stencil bool   `toml:"stencil"`
}

type rangeDef struct {
	Name string `toml:"name"`
	Size int    `toml:"size"`
}

// op is one request. Which fields apply depends on Kind.
type op struct {
	Kind   string `toml:"kind"`
	Target string `toml:"target"`
	Src    string `toml:"src"`
	Name   string `toml:"name"`

	Rect  []int   `toml:"rect"`
	Point []int   `toml:"point"`
	Rects [][]int `toml:"rects"`

	Color string    `toml:"color"`
	HSV   []float64 `toml:"hsv"`
	Alpha *float64  `toml:"alpha"`

	IgnoreRect bool `toml:"ignore_rect"`
	Inside     bool `toml:"inside"`

	Prim     string `toml:"prim"`
	Vertices int    `toml:"vertices"`
	Blend    string `toml:"blend"`
	Clipped  bool   `toml:"clipped"`
	HWAA     bool   `toml:"hwaa"`

	Path      uint64 `toml:"path"`
	Fill      string `toml:"fill"`
	Range     string `toml:"range"`
	Count     int    `toml:"count"`
	Transform string `toml:"transform"`
}

var (
	errUnknownOp      = errors.New("unknown op kind")
	errUnknownSurface = errors.New("unknown surface")
	errUnknownRange   = errors.New("unknown path range")
	errBadRect        = errors.New("rect needs 4 values")
	errBadPoint       = errors.New("point needs 2 values")
	errUnknownBlend   = errors.New("unknown blend mode")
	errUnknownFill    = errors.New("unknown fill rule")
	errUnknownXform   = errors.New("unknown transform type")
)

var opKinds = map[string]bool{
	"clear":              true,
	"discard":            true,
	"clear_stencil_clip": true,
	"copy":               true,
	"draw":               true,
	"stencil_path":       true,
	"draw_path":          true,
	"draw_paths":         true,
	"batch":              true,
	"marker_push":        true,
	"marker_pop":         true,
}

// loadScript decodes and validates the script at path.
func loadScript(path string) (*script, error) {
	var s script
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

// parseScript decodes and validates a script held in memory.
func parseScript(data string) (*script, error) {
	var s script
	if _, err := toml.Decode(data, &s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *script) validate() error {
	if _, err := parseMode(s.Mode); err != nil {
		return err
	}
	surfaces := make(map[string]bool, len(s.Surfaces))
	for _, sf := range s.Surfaces {
		if sf.Name == "" || sf.Width <= 0 || sf.Height <= 0 {
			return fmt.Errorf("surface %q: needs a name and a positive size", sf.Name)
		}
		surfaces[sf.Name] = true
	}
	ranges := make(map[string]bool, len(s.Ranges))
	for _, r := range s.Ranges {
		ranges[r.Name] = true
	}

	for i, o := range s.Ops {
		if !opKinds[o.Kind] {
			return fmt.Errorf("op %d: %w %q", i, errUnknownOp, o.Kind)
		}
		switch o.Kind {
		case "marker_push", "marker_pop":
			continue
		case "copy":
			if !surfaces[o.Src] {
				return fmt.Errorf("op %d: %w %q", i, errUnknownSurface, o.Src)
			}
		case "draw_paths":
			if !ranges[o.Range] {
				return fmt.Errorf("op %d: %w %q", i, errUnknownRange, o.Range)
			}
			if o.Count <= 0 {
				return fmt.Errorf("op %d: draw_paths needs a positive count", i)
			}
		}
		if !surfaces[o.Target] {
			return fmt.Errorf("op %d: %w %q", i, errUnknownSurface, o.Target)
		}
		if o.Rect != nil && len(o.Rect) != 4 {
			return fmt.Errorf("op %d: %w", i, errBadRect)
		}
		if o.Point != nil && len(o.Point) != 2 {
			return fmt.Errorf("op %d: %w", i, errBadPoint)
		}
		for _, r := range o.Rects {
			if len(r) != 4 {
				return fmt.Errorf("op %d: %w", i, errBadRect)
			}
		}
		if _, err := o.color(); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		if _, err := o.blend(); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		if _, err := o.stencil(); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		if _, err := o.transformType(); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
	}
	return nil
}

func parseMode(s string) (gpucmd.FlushMode, error) {
	switch s {
	case "", "precompute":
		return gpucmd.FlushPrecompute, nil
	case "interleaved":
		return gpucmd.FlushInterleaved, nil
	}
	return 0, fmt.Errorf("unknown flush mode %q", s)
}

// color returns the op's premultiplied color. Colors are given as hex
// ("#rrggbb") or as hsv = [hue, saturation, value], with an optional alpha
// in [0, 1]. The default is opaque black.
func (o op) color() (gpucmd.Color, error) {
	c := colorful.Color{}
	switch {
	case o.Color != "":
		hex, err := colorful.Hex(o.Color)
		if err != nil {
			return 0, fmt.Errorf("color %q: %w", o.Color, err)
		}
		c = hex
	case len(o.HSV) == 3:
		c = colorful.Hsv(o.HSV[0], o.HSV[1], o.HSV[2])
	case o.HSV != nil:
		return 0, errors.New("hsv needs 3 values")
	}

	alpha := 1.0
	if o.Alpha != nil {
		alpha = min(max(*o.Alpha, 0), 1)
	}
	r, g, b := c.Clamped().RGB255()
	return gpucmd.PackColor(premul(r, alpha), premul(g, alpha), premul(b, alpha), uint8(alpha*255+0.5)), nil
}

func premul(v uint8, alpha float64) uint8 {
	return uint8(float64(v)*alpha + 0.5)
}

func (o op) rect() *image.Rectangle {
	if len(o.Rect) != 4 {
		return nil
	}
	r := image.Rect(o.Rect[0], o.Rect[1], o.Rect[2], o.Rect[3])
	return &r
}

func (o op) point() image.Point {
	if len(o.Point) != 2 {
		return image.Point{}
	}
	return image.Pt(o.Point[0], o.Point[1])
}

func (o op) rects() []image.Rectangle {
	rs := make([]image.Rectangle, 0, len(o.Rects))
	for _, r := range o.Rects {
		rs = append(rs, image.Rect(r[0], r[1], r[2], r[3]))
	}
	return rs
}

// blend returns the op's blend mode; the default is src-over.
func (o op) blend() (synth.BlendMode, error) {
	if o.Blend == "" {
		return synth.BlendSourceOver, nil
	}
	m, ok := synth.ParseBlendMode(o.Blend)
	if !ok {
		return 0, fmt.Errorf("%w %q", errUnknownBlend, o.Blend)
	}
	return m, nil
}

// stencil returns the path stencil for the op's fill rule, "winding" (the
// default) or "evenodd".
func (o op) stencil() (gpucmd.StencilSettings, error) {
	switch o.Fill {
	case "", "winding":
		return gpucmd.WindingPathStencil(), nil
	case "evenodd":
		return gpucmd.EvenOddPathStencil(), nil
	}
	return gpucmd.StencilSettings{}, fmt.Errorf("%w %q", errUnknownFill, o.Fill)
}

func (o op) transformType() (gpucmd.PathTransformType, error) {
	switch o.Transform {
	case "", "none":
		return gpucmd.PathTransformNone, nil
	case "translate-x":
		return gpucmd.PathTransformTranslateX, nil
	case "translate-y":
		return gpucmd.PathTransformTranslateY, nil
	case "translate":
		return gpucmd.PathTransformTranslate, nil
	case "affine":
		return gpucmd.PathTransformAffine, nil
	}
	return 0, fmt.Errorf("%w %q", errUnknownXform, o.Transform)
}
