package gpucmd

// PathIndexType is the element type of DrawPaths index data.
type PathIndexType uint8

const (
	PathIndexU8 PathIndexType = iota
	PathIndexU16
	PathIndexU32
)

var pathIndexNames = [...]string{
	PathIndexU8:  "u8",
	PathIndexU16: "u16",
	PathIndexU32: "u32",
}

// String returns the index type name.
func (t PathIndexType) String() string {
	if int(t) < len(pathIndexNames) {
		return pathIndexNames[t]
	}
	return "Unknown"
}

// PathIndexSize returns the size in bytes of one index of type t.
func PathIndexSize(t PathIndexType) int {
	switch t {
	case PathIndexU8:
		return 1
	case PathIndexU16:
		return 2
	case PathIndexU32:
		return 4
	}
	assert(false, "unknown path index type")
	return 0
}

// PathTransformType is the per-path transform layout of DrawPaths data.
type PathTransformType uint8

const (
	PathTransformNone PathTransformType = iota
	PathTransformTranslateX
	PathTransformTranslateY
	PathTransformTranslate
	PathTransformAffine
)

var pathTransformNames = [...]string{
	PathTransformNone:       "none",
	PathTransformTranslateX: "translate-x",
	PathTransformTranslateY: "translate-y",
	PathTransformTranslate:  "translate",
	PathTransformAffine:     "affine",
}

// String returns the transform type name.
func (t PathTransformType) String() string {
	if int(t) < len(pathTransformNames) {
		return pathTransformNames[t]
	}
	return "Unknown"
}

// PathTransformSize returns the number of float32 values in one transform
// of type t.
func PathTransformSize(t PathTransformType) int {
	switch t {
	case PathTransformNone:
		return 0
	case PathTransformTranslateX, PathTransformTranslateY:
		return 1
	case PathTransformTranslate:
		return 2
	case PathTransformAffine:
		return 6
	}
	assert(false, "unknown path transform type")
	return 0
}

// PathDataPool stores the index and transform values of DrawPaths requests.
//
// Offsets returned by AppendIndicesAndTransforms are stable until the pool
// is reset. Index offsets are in bytes, transform offsets in float32 values.
// Two requests appended back to back are contiguous when the second offset
// equals the first offset plus the first request's length; the recorder
// relies on that to fold DrawPaths requests together.
type PathDataPool interface {
	AppendIndicesAndTransforms(indices []byte, indexType PathIndexType,
		transforms []float32, transformType PathTransformType, count int) (indexOffset, transformOffset int)

	// Indices returns n bytes of index data starting at offset.
	Indices(offset, n int) []byte

	// Transforms returns n transform values starting at offset.
	Transforms(offset, n int) []float32
}

// GeometryPool is a vertex, index or path data pool that is written during
// recording. Flush unmaps it before the backend reads it; Commands.Reset
// discards its contents and maps it again for the next session.
type GeometryPool interface {
	Unmap()
	Reset()
}
