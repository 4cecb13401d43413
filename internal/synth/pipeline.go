package synth

import (
	"github.com/gogpu/gpucmd"
)

// BlendMode is the Porter-Duff operator a pipeline composites with.
type BlendMode int

const (
	// BlendSourceOver is the default alpha blending mode.
	BlendSourceOver BlendMode = iota
	// BlendSourceCopy replaces the destination with the source.
	BlendSourceCopy
	// BlendDestinationOver draws destination over source.
	BlendDestinationOver
	// BlendDestinationIn keeps destination where source is opaque.
	BlendDestinationIn
	// BlendDestinationOut keeps destination where source is transparent.
	BlendDestinationOut
)

var blendNames = [...]string{
	BlendSourceOver:      "src-over",
	BlendSourceCopy:      "src",
	BlendDestinationOver: "dst-over",
	BlendDestinationIn:   "dst-in",
	BlendDestinationOut:  "dst-out",
}

func (m BlendMode) String() string {
	if m >= 0 && int(m) < len(blendNames) {
		return blendNames[m]
	}
	return "unknown"
}

// ParseBlendMode returns the mode named s.
func ParseBlendMode(s string) (BlendMode, bool) {
	for m, name := range blendNames {
		if name == s {
			return BlendMode(m), true
		}
	}
	return 0, false
}

// Desc is the pipeline description synth expects in gpucmd.PipelineInfo.Desc.
type Desc struct {
	Blend BlendMode
	Color gpucmd.Color

	// Clipped marks a draw whose clip excludes it entirely.
	Clipped bool
}

// Info returns a PipelineInfo for drawing into target with d.
func (d Desc) Info(target gpucmd.Surface) gpucmd.PipelineInfo {
	return gpucmd.PipelineInfo{Target: target, Desc: d}
}

// Pipeline is a materialized synth pipeline. Pipelines are values and
// compare with ==.
type Pipeline struct {
	Target gpucmd.Surface
	Blend  BlendMode
	Color  gpucmd.Color
	HWAA   bool
}

// TrackerInit implements gpucmd.Pipeline. A uniform color is handed to the
// primitive as an override.
func (p Pipeline) TrackerInit() gpucmd.TrackerInit {
	return gpucmd.TrackerInit{
		OverrideColor:   p.Color,
		CoverageIgnored: p.Blend == BlendSourceCopy,
	}
}

// Layer is a gpucmd.PipelineLayer over Desc values.
type Layer struct {
	// Materialized counts MaterializePipeline calls.
	Materialized int
}

// MaterializePipeline builds the pipeline for info. A draw is skipped when it
// is clipped out or when its blend cannot change the destination.
func (l *Layer) MaterializePipeline(info gpucmd.PipelineInfo) (gpucmd.Pipeline, bool) {
	l.Materialized++
	d, _ := info.Desc.(Desc)
	if d.Clipped || isNoop(d) {
		return nil, true
	}
	return Pipeline{
		Target: info.Target,
		Blend:  d.Blend,
		Color:  d.Color,
		HWAA:   info.HWAntialias,
	}, false
}

// isNoop reports whether blending d's color leaves the destination unchanged.
func isNoop(d Desc) bool {
	_, _, _, a := d.Color.RGBA()
	switch d.Blend {
	case BlendSourceOver, BlendDestinationOut:
		return a == 0
	case BlendDestinationIn:
		return a == 255
	}
	return false
}

// PipelinesEqual implements gpucmd.PipelineLayer.
func (l *Layer) PipelinesEqual(a, b gpucmd.Pipeline) bool {
	pa, okA := a.(Pipeline)
	pb, okB := b.(Pipeline)
	return okA && okB && pa == pb
}

// WillBlendWithDst reports whether the draw reads the destination. Only an
// opaque source-over or a source-copy draw does not.
func (l *Layer) WillBlendWithDst(info gpucmd.PipelineInfo, _ gpucmd.Primitive) bool {
	d, _ := info.Desc.(Desc)
	_, _, _, a := d.Color.RGBA()
	switch d.Blend {
	case BlendSourceCopy:
		return false
	case BlendSourceOver:
		return a != 255
	}
	return true
}

var _ gpucmd.PipelineLayer = (*Layer)(nil)
