package gpucmd

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// StencilFace holds the stencil test and operations for one triangle facing.
type StencilFace struct {
	Compare   gputypes.CompareFunction
	PassOp    hal.StencilOperation
	FailOp    hal.StencilOperation
	Ref       uint8
	ReadMask  uint8
	WriteMask uint8
}

// StencilSettings describes how a path draw or cover pass uses the stencil
// buffer. Values are comparable with ==, which is the equality used when
// deciding whether two DrawPaths requests may share one record.
type StencilSettings struct {
	Front    StencilFace
	Back     StencilFace
	TwoSided bool
}

// WindingPathStencil returns the one-sided settings used to stencil paths
// with the non-zero winding fill rule.
func WindingPathStencil() StencilSettings {
	face := StencilFace{
		Compare:   gputypes.CompareFunctionAlways,
		PassOp:    hal.StencilOperationIncrementWrap,
		FailOp:    hal.StencilOperationIncrementWrap,
		ReadMask:  0xFF,
		WriteMask: 0xFF,
	}
	return StencilSettings{Front: face, Back: face}
}

// EvenOddPathStencil returns the one-sided settings used to stencil paths
// with the even-odd fill rule. Only the low bit is written.
func EvenOddPathStencil() StencilSettings {
	face := StencilFace{
		Compare:   gputypes.CompareFunctionAlways,
		PassOp:    hal.StencilOperationInvert,
		FailOp:    hal.StencilOperationInvert,
		ReadMask:  0xFF,
		WriteMask: 0x01,
	}
	return StencilSettings{Front: face, Back: face}
}

// IsWinding reports whether the path fill rule implied by s is winding.
// Paths are stenciled from the front face; anything other than an inverting
// pass op counts winding numbers.
func (s StencilSettings) IsWinding() bool {
	winding := s.Front.PassOp != hal.StencilOperationInvert
	if winding {
		assert(s.Front.PassOp == hal.StencilOperationIncrementWrap, "winding pass op must increment")
		assert(s.Front.FailOp == hal.StencilOperationIncrementWrap, "winding fail op must increment")
		assert(s.Front.WriteMask != 0x01, "winding stencil must write more than the parity bit")
		assert(!s.TwoSided, "path stencil settings must be one-sided")
	}
	return winding
}
