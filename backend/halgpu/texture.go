package halgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture is a gpucmd.Surface backed by a HAL color texture with an
// optional depth/stencil attachment.
type Texture struct {
	Label string

	Color     hal.Texture
	ColorView hal.TextureView

	// Stencil and StencilView are nil for targets without a stencil buffer.
	Stencil     hal.Texture
	StencilView hal.TextureView

	w, h int
}

// Width implements gpucmd.Surface.
func (t *Texture) Width() int { return t.w }

// Height implements gpucmd.Surface.
func (t *Texture) Height() int { return t.h }

// HasStencil reports whether the texture has a stencil attachment.
func (t *Texture) HasStencil() bool { return t.StencilView != nil }

// WrapTexture wraps existing HAL resources, for example a swapchain image,
// as a render target. stencilView may be nil.
func WrapTexture(label string, tex hal.Texture, view hal.TextureView, stencilView hal.TextureView, w, h int) *Texture {
	return &Texture{Label: label, Color: tex, ColorView: view, StencilView: stencilView, w: w, h: h}
}

// NewTexture creates a w x h render target in the backend's surface format.
// With withStencil a Depth24PlusStencil8 attachment is created as well.
func (b *Backend) NewTexture(label string, w, h int, withStencil bool) (*Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("halgpu: texture %q: invalid size %dx%d", label, w, h)
	}
	t := &Texture{Label: label, w: w, h: h}
	size := hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}

	color, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        b.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create color texture %q: %w", label, err)
	}
	t.Color = color

	view, err := b.device.CreateTextureView(color, &hal.TextureViewDescriptor{Label: label + "_view"})
	if err != nil {
		b.DestroyTexture(t)
		return nil, fmt.Errorf("halgpu: create color view %q: %w", label, err)
	}
	t.ColorView = view

	if !withStencil {
		return t, nil
	}

	stencil, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label + "_stencil",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatDepth24PlusStencil8,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		b.DestroyTexture(t)
		return nil, fmt.Errorf("halgpu: create stencil texture %q: %w", label, err)
	}
	t.Stencil = stencil

	sview, err := b.device.CreateTextureView(stencil, &hal.TextureViewDescriptor{Label: label + "_stencil_view"})
	if err != nil {
		b.DestroyTexture(t)
		return nil, fmt.Errorf("halgpu: create stencil view %q: %w", label, err)
	}
	t.StencilView = sview
	return t, nil
}

// DestroyTexture releases the resources NewTexture created. It is safe to
// call on a partially created texture.
func (b *Backend) DestroyTexture(t *Texture) {
	if t.StencilView != nil {
		b.device.DestroyTextureView(t.StencilView)
		t.StencilView = nil
	}
	if t.Stencil != nil {
		b.device.DestroyTexture(t.Stencil)
		t.Stencil = nil
	}
	if t.ColorView != nil {
		b.device.DestroyTextureView(t.ColorView)
		t.ColorView = nil
	}
	if t.Color != nil {
		b.device.DestroyTexture(t.Color)
		t.Color = nil
	}
}
