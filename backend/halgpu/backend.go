// Package halgpu provides a gpucmd backend that encodes clears, discards,
// stencil clip clears and surface copies directly into a HAL command
// encoder.
//
// Operations that need a shader program (the draw family, partial clears
// that may not be widened) are forwarded to a fallback gpucmd.Backend. The
// backend is usually fed by one Commands flush and then submitted:
//
//	b, err := halgpu.New(device, queue, fallback)
//	rt, err := b.NewTexture("frame", 800, 600, true)
//	cmds.RecordClear(nil, gpucmd.PackColor(0, 0, 0, 255), true, rt)
//	cmds.Flush(b)
//	if err := b.Submit(); err != nil { ... }
//
// Encoding errors are sticky: the first one is kept, later operations are
// ignored, and Submit and Err report it.
package halgpu

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gpucmd"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

var (
	// ErrNilDevice is returned when New is called without a device or queue.
	ErrNilDevice = errors.New("halgpu: nil device or queue")

	// ErrNotHalProvider is returned by NewFromProvider when the provider does
	// not expose HAL types.
	ErrNotHalProvider = errors.New("halgpu: provider does not expose HAL types")

	// ErrNoFallback is recorded when an operation needs the fallback
	// backend and none was configured.
	ErrNoFallback = errors.New("halgpu: operation needs a fallback backend")

	// ErrGPUTimeout is returned by Submit when the queue does not report
	// the submission complete in time.
	ErrGPUTimeout = errors.New("halgpu: timed out waiting for GPU")
)

// submitTimeout bounds the completion wait in Submit.
const submitTimeout = 5 * time.Second

// pollInterval is the sleep between completion polls.
const pollInterval = time.Millisecond

// stencilClipBit is the stencil bit ClearStencilClip sets inside the clip.
const stencilClipBit = 0x80

// Stats counts the work a Backend did.
type Stats struct {
	Passes    int // render passes encoded
	Copies    int // texture copies encoded
	Forwarded int // operations handed to the fallback
	Submits   int // command buffers submitted
}

// Backend is a gpucmd.Backend over a HAL device.
//
// Backend is not safe for concurrent use.
type Backend struct {
	device   hal.Device
	queue    hal.Queue
	fallback gpucmd.Backend
	format   gputypes.TextureFormat

	encoder hal.CommandEncoder
	err     error
	stats   Stats
	timeout time.Duration
}

// New creates a backend encoding into device and submitting to queue.
// fallback may be nil when only native operations are recorded.
func New(device hal.Device, queue hal.Queue, fallback gpucmd.Backend) (*Backend, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	return &Backend{
		device:   device,
		queue:    queue,
		fallback: fallback,
		format:   gputypes.TextureFormatBGRA8Unorm,
		timeout:  submitTimeout,
	}, nil
}

// NewFromProvider creates a backend sharing the device of a host
// application. The provider must also implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue. Textures created by
// the backend use the provider's surface format.
func NewFromProvider(provider gpucontext.DeviceProvider, fallback gpucmd.Backend) (*Backend, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHalProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNotHalProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNotHalProvider)
	}

	b, err := New(device, queue, fallback)
	if err != nil {
		return nil, err
	}
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		b.format = f
	}
	return b, nil
}

// Err returns the first encoding error, if any.
func (b *Backend) Err() error { return b.err }

// Stats returns the work counters.
func (b *Backend) Stats() Stats { return b.stats }

// Format returns the color format of textures created by NewTexture.
func (b *Backend) Format() gputypes.TextureFormat { return b.format }

func (b *Backend) fail(err error) {
	if b.err == nil {
		b.err = err
		gpucmd.Logger().Warn("halgpu: encoding failed", "error", err)
	}
}

// begin returns the open encoder, creating it on first use. It returns nil
// once an error has been recorded.
func (b *Backend) begin() hal.CommandEncoder {
	if b.err != nil {
		return nil
	}
	if b.encoder != nil {
		return b.encoder
	}
	enc, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gpucmd_encoder"})
	if err != nil {
		b.fail(fmt.Errorf("halgpu: create command encoder: %w", err))
		return nil
	}
	if err := enc.BeginEncoding("gpucmd_flush"); err != nil {
		b.fail(fmt.Errorf("halgpu: begin encoding: %w", err))
		return nil
	}
	b.encoder = enc
	return enc
}

// forward hands an operation to the fallback backend.
func (b *Backend) forward(op string, fn func(gpucmd.Backend)) {
	if b.fallback == nil {
		b.fail(fmt.Errorf("halgpu: %s: %w", op, ErrNoFallback))
		return
	}
	b.stats.Forwarded++
	fn(b.fallback)
}

// texture returns s as a *Texture with a color view.
func texture(s gpucmd.Surface) (*Texture, bool) {
	t, ok := s.(*Texture)
	return t, ok && t.ColorView != nil
}

func bounds(s gpucmd.Surface) image.Rectangle {
	return image.Rect(0, 0, s.Width(), s.Height())
}

// Submit ends encoding, submits the command buffer and waits until the
// queue reports the submission complete. When an error was recorded the
// encoded work is dropped instead and the error returned. The backend can be
// reused after Submit.
func (b *Backend) Submit() error {
	if err := b.err; err != nil {
		b.Abandon()
		return err
	}
	if b.encoder == nil {
		return nil
	}
	enc := b.encoder
	b.encoder = nil

	cmdBuf, err := enc.EndEncoding()
	if err != nil {
		enc.Destroy()
		return fmt.Errorf("halgpu: end encoding: %w", err)
	}

	idx, err := b.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		b.device.FreeCommandBuffer(cmdBuf)
		enc.Destroy()
		return fmt.Errorf("halgpu: submit: %w", err)
	}
	// On timeout the GPU may still read the command buffer, so it is not
	// freed.
	if err := b.waitSubmission(idx); err != nil {
		return err
	}
	b.device.FreeCommandBuffer(cmdBuf)
	enc.Destroy()

	b.stats.Submits++
	gpucmd.Logger().Debug("halgpu: submitted",
		"submission", idx,
		"passes", b.stats.Passes,
		"copies", b.stats.Copies,
		"forwarded", b.stats.Forwarded)
	return nil
}

// waitSubmission polls the queue until submission idx has completed or the
// timeout passes.
func (b *Backend) waitSubmission(idx uint64) error {
	deadline := time.Now().Add(b.timeout)
	for b.queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w (submission %d)", ErrGPUTimeout, idx)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// Abandon drops any encoded work and clears the sticky error.
func (b *Backend) Abandon() {
	if b.encoder != nil {
		b.encoder.DiscardEncoding()
		b.encoder.Destroy()
		b.encoder = nil
	}
	b.err = nil
}

// Clear implements gpucmd.Backend. Clears that cover the whole target, or
// may be widened to it, become a render pass with a clear load op.
func (b *Backend) Clear(rect image.Rectangle, color gpucmd.Color, canIgnoreRect bool, target gpucmd.Surface) {
	t, ok := texture(target)
	if !ok || (!canIgnoreRect && !rect.Eq(bounds(target))) {
		b.forward("Clear", func(f gpucmd.Backend) { f.Clear(rect, color, canIgnoreRect, target) })
		return
	}
	enc := b.begin()
	if enc == nil {
		return
	}
	rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "gpucmd_clear",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       t.ColorView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: color.GPU(),
		}},
	})
	rp.End()
	b.stats.Passes++
}

// Discard implements gpucmd.Backend with a pass that does not store the
// color attachment.
func (b *Backend) Discard(target gpucmd.Surface) {
	t, ok := texture(target)
	if !ok {
		b.forward("Discard", func(f gpucmd.Backend) { f.Discard(target) })
		return
	}
	enc := b.begin()
	if enc == nil {
		return
	}
	rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "gpucmd_discard",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    t.ColorView,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpDiscard,
		}},
	})
	rp.End()
	b.stats.Passes++
}

// ClearStencilClip implements gpucmd.Backend. A whole-target clear becomes a
// stencil clear value: the clip bit when insideClip, zero otherwise.
//
// A load-op clear cannot be masked, so the bits below the clip bit are
// zeroed as well. Stencil-then-cover leaves those bits zero after every
// cover draw, which makes the two equivalent between draws. Depth is
// loaded and stored unchanged.
func (b *Backend) ClearStencilClip(rect image.Rectangle, insideClip bool, target gpucmd.Surface) {
	t, ok := texture(target)
	if !ok || !t.HasStencil() || !rect.Eq(bounds(target)) {
		b.forward("ClearStencilClip", func(f gpucmd.Backend) { f.ClearStencilClip(rect, insideClip, target) })
		return
	}
	enc := b.begin()
	if enc == nil {
		return
	}
	var value uint32
	if insideClip {
		value = stencilClipBit
	}
	rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "gpucmd_stencil_clip",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    t.ColorView,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              t.StencilView,
			DepthLoadOp:       gputypes.LoadOpLoad,
			DepthStoreOp:      gputypes.StoreOpStore,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpStore,
			StencilClearValue: value,
		},
	})
	rp.End()
	b.stats.Passes++
}

// CopySurface implements gpucmd.Backend. srcRect is clipped to both
// surfaces; an empty intersection copies nothing.
func (b *Backend) CopySurface(dst, src gpucmd.Surface, srcRect image.Rectangle, dstPoint image.Point) {
	dt, okD := texture(dst)
	st, okS := texture(src)
	if !okD || !okS {
		b.forward("CopySurface", func(f gpucmd.Backend) { f.CopySurface(dst, src, srcRect, dstPoint) })
		return
	}

	r, dstPoint := clipCopy(bounds(dst), bounds(src), srcRect, dstPoint)
	if r.Empty() {
		return
	}

	enc := b.begin()
	if enc == nil {
		return
	}
	enc.TransitionTextures([]hal.TextureBarrier{
		{Texture: st.Color, Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		}},
		{Texture: dt.Color, Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopyDst,
		}},
	})
	enc.CopyTextureToTexture(st.Color, dt.Color, []hal.TextureCopy{{
		SrcBase: hal.ImageCopyTexture{
			Texture: st.Color,
			Origin:  hal.Origin3D{X: uint32(r.Min.X), Y: uint32(r.Min.Y)},
		},
		DstBase: hal.ImageCopyTexture{
			Texture: dt.Color,
			Origin:  hal.Origin3D{X: uint32(dstPoint.X), Y: uint32(dstPoint.Y)},
		},
		Size: hal.Extent3D{Width: uint32(r.Dx()), Height: uint32(r.Dy()), DepthOrArrayLayers: 1},
	}})
	enc.TransitionTextures([]hal.TextureBarrier{
		{Texture: st.Color, Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		}},
		{Texture: dt.Color, Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopyDst,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		}},
	})
	b.stats.Copies++
}

// clipCopy clips srcRect to src and the destination region to dst, moving
// dstPoint along with the source origin.
func clipCopy(dst, src, srcRect image.Rectangle, dstPoint image.Point) (image.Rectangle, image.Point) {
	r := srcRect.Intersect(src)
	if r.Empty() {
		return image.Rectangle{}, dstPoint
	}
	dstPoint = dstPoint.Add(r.Min.Sub(srcRect.Min))
	clipped := r.Intersect(dst.Sub(dstPoint).Add(r.Min))
	if clipped.Empty() {
		return image.Rectangle{}, dstPoint
	}
	return clipped, dstPoint.Add(clipped.Min.Sub(r.Min))
}

// Draw implements gpucmd.Backend by forwarding to the fallback.
func (b *Backend) Draw(args gpucmd.DrawArgs, info gpucmd.DrawInfo) {
	b.forward("Draw", func(f gpucmd.Backend) { f.Draw(args, info) })
}

// StencilPath implements gpucmd.Backend by forwarding to the fallback.
func (b *Backend) StencilPath(path gpucmd.Path, state gpucmd.StencilPathState) {
	b.forward("StencilPath", func(f gpucmd.Backend) { f.StencilPath(path, state) })
}

// DrawPath implements gpucmd.Backend by forwarding to the fallback.
func (b *Backend) DrawPath(args gpucmd.DrawArgs, path gpucmd.Path, stencil gpucmd.StencilSettings) {
	b.forward("DrawPath", func(f gpucmd.Backend) { f.DrawPath(args, path, stencil) })
}

// DrawPaths implements gpucmd.Backend by forwarding to the fallback.
func (b *Backend) DrawPaths(args gpucmd.DrawArgs, pathRange gpucmd.PathRange, indices []byte, indexType gpucmd.PathIndexType,
	transforms []float32, transformType gpucmd.PathTransformType, count int, stencil gpucmd.StencilSettings) {
	b.forward("DrawPaths", func(f gpucmd.Backend) {
		f.DrawPaths(args, pathRange, indices, indexType, transforms, transformType, count, stencil)
	})
}

// BuildProgramDesc implements gpucmd.Backend by forwarding to the fallback.
func (b *Backend) BuildProgramDesc(desc *gpucmd.ProgramDesc, prim gpucmd.Primitive, pipeline gpucmd.Pipeline, tracker gpucmd.BatchTracker) {
	b.forward("BuildProgramDesc", func(f gpucmd.Backend) { f.BuildProgramDesc(desc, prim, pipeline, tracker) })
}

// PushTraceMarker implements gpucmd.Backend. Markers reach the fallback
// when there is one.
func (b *Backend) PushTraceMarker(marker string) {
	if b.fallback != nil {
		b.fallback.PushTraceMarker(marker)
	}
}

// PopTraceMarker implements gpucmd.Backend.
func (b *Backend) PopTraceMarker(marker string) {
	if b.fallback != nil {
		b.fallback.PopTraceMarker(marker)
	}
}

var _ gpucmd.Backend = (*Backend)(nil)
