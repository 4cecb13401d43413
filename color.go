package gpucmd

import "github.com/gogpu/gputypes"

// Color is a packed premultiplied RGBA color, 8 bits per channel, with red in
// the low byte and alpha in the high byte.
type Color uint32

// ColorIllegal is a reserved value that can never be a valid premultiplied
// color: alpha is zero while every color bit is set. A Clear record carrying
// it means "discard the target contents" instead of clearing.
const ColorIllegal Color = ^Color(0xFF << 24)

// PackColor packs premultiplied channel values into a Color.
func PackColor(r, g, b, a uint8) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

// RGBA returns the unpacked channel values.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// IsPremultiplied reports whether no color channel exceeds alpha.
func (c Color) IsPremultiplied() bool {
	r, g, b, a := c.RGBA()
	return r <= a && g <= a && b <= a
}

// GPU converts the color to the normalized form used for attachment clears.
func (c Color) GPU() gputypes.Color {
	r, g, b, a := c.RGBA()
	return gputypes.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}
