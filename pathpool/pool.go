// Package pathpool provides an append-only arena for the index and transform
// data of DrawPaths requests.
//
// A Pool is written while commands are recorded and read when they are
// flushed. Offsets returned by AppendIndicesAndTransforms stay valid until
// Reset, and two appends made back to back are contiguous, which lets the
// recorder fold consecutive DrawPaths requests into one record.
//
//	pool := pathpool.New()
//	cmds := gpucmd.New(pipelines, pool, target)
//	// record ...
//	cmds.Flush(backend) // unmaps the pool
//	cmds.Reset()        // rewinds and maps it again for the next frame
package pathpool

import (
	"fmt"

	"github.com/gogpu/gpucmd"
)

// Pool is a gpucmd.PathDataPool and gpucmd.GeometryPool backed by two
// growable slices. The zero value is not mapped; use New.
//
// Pool is not safe for concurrent use.
type Pool struct {
	indices    []byte
	transforms []float32
	mapped     bool
}

// New creates an empty, mapped pool.
func New() *Pool {
	return &Pool{mapped: true}
}

// AppendIndicesAndTransforms copies count indices of indexType and count
// transforms of transformType into the pool and returns their offsets. Index
// offsets are in bytes, transform offsets in float32 values.
//
// It panics if the pool is unmapped or the inputs are shorter than count
// requires.
func (p *Pool) AppendIndicesAndTransforms(indices []byte, indexType gpucmd.PathIndexType,
	transforms []float32, transformType gpucmd.PathTransformType, count int) (indexOffset, transformOffset int) {
	if !p.mapped {
		panic("pathpool: append to an unmapped pool")
	}

	nIdx := count * gpucmd.PathIndexSize(indexType)
	nXform := count * gpucmd.PathTransformSize(transformType)
	if len(indices) < nIdx {
		panic(fmt.Sprintf("pathpool: %d index bytes, need %d for %d %v indices", len(indices), nIdx, count, indexType))
	}
	if len(transforms) < nXform {
		panic(fmt.Sprintf("pathpool: %d transform values, need %d for %d %v transforms", len(transforms), nXform, count, transformType))
	}

	indexOffset, transformOffset = len(p.indices), len(p.transforms)
	p.indices = append(p.indices, indices[:nIdx]...)
	p.transforms = append(p.transforms, transforms[:nXform]...)
	return indexOffset, transformOffset
}

// Indices returns n bytes of index data starting at offset. The result
// aliases the pool.
func (p *Pool) Indices(offset, n int) []byte {
	return p.indices[offset : offset+n : offset+n]
}

// Transforms returns n transform values starting at offset. The result
// aliases the pool.
func (p *Pool) Transforms(offset, n int) []float32 {
	return p.transforms[offset : offset+n : offset+n]
}

// Unmap ends the write phase. Appending panics until Map or Reset.
func (p *Pool) Unmap() {
	p.mapped = false
}

// Map starts a write phase without discarding data.
func (p *Pool) Map() {
	p.mapped = true
}

// Mapped reports whether the pool accepts appends.
func (p *Pool) Mapped() bool {
	return p.mapped
}

// Reset discards all data and maps the pool. Offsets handed out before Reset
// become invalid. The backing arrays are kept for reuse.
func (p *Pool) Reset() {
	p.indices = p.indices[:0]
	p.transforms = p.transforms[:0]
	p.mapped = true
}

// IndexBytes returns the number of index bytes stored.
func (p *Pool) IndexBytes() int {
	return len(p.indices)
}

// TransformValues returns the number of transform values stored.
func (p *Pool) TransformValues() int {
	return len(p.transforms)
}

var (
	_ gpucmd.PathDataPool = (*Pool)(nil)
	_ gpucmd.GeometryPool = (*Pool)(nil)
)
