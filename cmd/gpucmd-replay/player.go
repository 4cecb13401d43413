package main

import (
	"fmt"

	"github.com/gogpu/gpucmd"
	"github.com/gogpu/gpucmd/internal/synth"
	"github.com/gogpu/gpucmd/pathpool"
)

// surfaceFactory creates the render target for one script surface.
type surfaceFactory func(def surfaceDef) (gpucmd.Surface, error)

func synthSurface(def surfaceDef) (gpucmd.Surface, error) {
	return synth.NewSurface(def.Name, def.Width, def.Height), nil
}

// replayStats summarizes one replay.
type replayStats struct {
	Requests int // ops that record something
	Dropped  int // requests that returned no record
	Records  int // records in the buffer after recording
	ByKind   map[gpucmd.CommandType]int
	Vertices int // vertices generated by batches
	Issued   int // batch draws issued
}

// player records a script into a Commands.
type player struct {
	cmds     *gpucmd.Commands
	pool     *pathpool.Pool
	target   *synth.Target
	markers  *synth.Markers
	surfaces map[string]gpucmd.Surface
	ranges   map[string]*synth.PathRange
	prims    map[string]*synth.Primitive
}

func newPlayer(s *script, newSurface surfaceFactory, opts ...gpucmd.Option) (*player, error) {
	mode, err := parseMode(s.Mode)
	if err != nil {
		return nil, err
	}
	p := &player{
		pool:     pathpool.New(),
		target:   &synth.Target{},
		markers:  &synth.Markers{},
		surfaces: make(map[string]gpucmd.Surface, len(s.Surfaces)),
		ranges:   make(map[string]*synth.PathRange, len(s.Ranges)),
		prims:    make(map[string]*synth.Primitive),
	}
	for _, def := range s.Surfaces {
		sf, err := newSurface(def)
		if err != nil {
			return nil, fmt.Errorf("surface %q: %w", def.Name, err)
		}
		p.surfaces[def.Name] = sf
	}
	for i, r := range s.Ranges {
		p.ranges[r.Name] = synth.NewPathRange(uint64(i+1), r.Size)
	}

	opts = append([]gpucmd.Option{
		gpucmd.WithFlushMode(mode),
		gpucmd.WithTraceMarkers(p.markers),
	}, opts...)
	p.cmds = gpucmd.New(&synth.Layer{}, p.pool, p.target, opts...)
	return p, nil
}

func (p *player) prim(kind string) *synth.Primitive {
	if kind == "" {
		kind = "default"
	}
	pr, ok := p.prims[kind]
	if !ok {
		pr = synth.NewPrimitive(kind)
		p.prims[kind] = pr
	}
	return pr
}

func (p *player) info(o op, color gpucmd.Color) (gpucmd.PipelineInfo, error) {
	blend, err := o.blend()
	if err != nil {
		return gpucmd.PipelineInfo{}, err
	}
	pi := synth.Desc{Blend: blend, Color: color, Clipped: o.Clipped}.Info(p.surfaces[o.Target])
	pi.HWAntialias = o.HWAA
	return pi, nil
}

// record records every op of s and returns the replay statistics.
func (p *player) record(s *script) (replayStats, error) {
	stats := replayStats{ByKind: make(map[gpucmd.CommandType]int)}
	for i, o := range s.Ops {
		if o.Kind == "marker_push" {
			p.markers.Push(o.Name)
			continue
		}
		if o.Kind == "marker_pop" {
			p.markers.Pop()
			continue
		}

		cmd, err := p.recordOp(o)
		if err != nil {
			return stats, fmt.Errorf("op %d (%s): %w", i, o.Kind, err)
		}
		stats.Requests++
		if cmd == nil {
			stats.Dropped++
		}
	}

	stats.Records = p.cmds.Len()
	for _, cmd := range p.cmds.Buffer().All() {
		stats.ByKind[cmd.Type()]++
	}
	return stats, nil
}

func (p *player) recordOp(o op) (gpucmd.Command, error) {
	color, err := o.color()
	if err != nil {
		return nil, err
	}
	target := p.surfaces[o.Target]

	switch o.Kind {
	case "clear":
		return p.cmds.RecordClear(o.rect(), color, o.IgnoreRect, target), nil

	case "discard":
		return p.cmds.RecordDiscard(target), nil

	case "clear_stencil_clip":
		r := o.rect()
		if r == nil {
			full := bounds(target)
			r = &full
		}
		return p.cmds.RecordClearStencilClip(*r, o.Inside, target), nil

	case "copy":
		src := p.surfaces[o.Src]
		r := o.rect()
		if r == nil {
			full := bounds(src)
			r = &full
		}
		return p.cmds.RecordCopySurface(target, src, *r, o.point()), nil
	}

	// The remaining ops draw and need a pipeline.
	pi, err := p.info(o, color)
	if err != nil {
		return nil, err
	}
	stencil, err := o.stencil()
	if err != nil {
		return nil, err
	}

	switch o.Kind {
	case "draw":
		return p.cmds.RecordDraw(p.prim(o.Prim), gpucmd.DrawInfo{
			Type:          gpucmd.PrimitiveTriangles,
			VertexCount:   o.Vertices,
			InstanceCount: 1,
			Bounds:        o.rect(),
		}, pi), nil

	case "stencil_path":
		var scissor gpucmd.ScissorState
		if r := o.rect(); r != nil {
			scissor = gpucmd.ScissorState{Enabled: true, Rect: *r}
		}
		return p.cmds.RecordStencilPath(p.prim(o.Prim), synth.Path(o.Path), scissor, stencil, pi), nil

	case "draw_path":
		return p.cmds.RecordDrawPath(p.prim(o.Prim), synth.Path(o.Path), stencil, pi), nil

	case "draw_paths":
		transformType, err := o.transformType()
		if err != nil {
			return nil, err
		}
		pr := p.ranges[o.Range]
		indexType, indices := pathIndices(pr.Len(), o.Count)
		transforms := pathTransforms(transformType, o.Count)
		return p.cmds.RecordDrawPaths(p.prim(o.Prim), pr, indices, indexType,
			transforms, transformType, o.Count, stencil, pi), nil

	case "batch":
		return p.cmds.RecordDrawBatch(synth.NewRectBatch(color, o.rects()...), pi), nil
	}
	return nil, fmt.Errorf("%w %q", errUnknownOp, o.Kind)
}

// flush replays the recorded commands against backend.
func (p *player) flush(backend gpucmd.Backend, stats *replayStats) {
	p.cmds.Flush(backend)
	stats.Vertices = p.target.Vertices
	stats.Issued = len(p.target.Issued)
}

// pathIndices returns count sequential indices into a range of n paths, in
// the narrowest index type that can address the range.
func pathIndices(n, count int) (gpucmd.PathIndexType, []byte) {
	switch {
	case n <= 1<<8:
		out := make([]byte, count)
		for i := range out {
			out[i] = byte(i % max(n, 1))
		}
		return gpucmd.PathIndexU8, out
	case n <= 1<<16:
		out := make([]byte, 2*count)
		for i := 0; i < count; i++ {
			v := i % n
			out[2*i], out[2*i+1] = byte(v), byte(v>>8)
		}
		return gpucmd.PathIndexU16, out
	default:
		out := make([]byte, 4*count)
		for i := 0; i < count; i++ {
			v := i % n
			out[4*i], out[4*i+1], out[4*i+2], out[4*i+3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
		}
		return gpucmd.PathIndexU32, out
	}
}

// pathTransforms lays count paths out on a 16-unit grid.
func pathTransforms(t gpucmd.PathTransformType, count int) []float32 {
	size := gpucmd.PathTransformSize(t)
	out := make([]float32, 0, size*count)
	for i := 0; i < count; i++ {
		x := float32(16 * i)
		switch t {
		case gpucmd.PathTransformTranslateX, gpucmd.PathTransformTranslateY:
			out = append(out, x)
		case gpucmd.PathTransformTranslate:
			out = append(out, x, 0)
		case gpucmd.PathTransformAffine:
			out = append(out, 1, 0, x, 0, 1, 0)
		}
	}
	return out
}
