// Package chunk divides an artifact into the fixed-size byte ranges that are uploaded one request each.
package chunk

import (
	"fmt"
	"iter"
)

// DefaultSize is the chunk size used when none is configured (1 MiB).
const DefaultSize int64 = 1024 * 1024

// Range is the half-open byte range [Start, End) of chunk Index.
type Range struct {
	Index int
	Start int64
	End   int64
}

// Len returns the number of bytes in the range.
func (r Range) Len() int64 {
	return r.End - r.Start
}

// Plan describes how an artifact of Size bytes is cut into chunks.
// An empty artifact still has exactly one (empty) chunk.
type Plan struct {
	Size      int64
	ChunkSize int64
	Count     int
}

// NewPlan computes the chunk layout for size bytes.
func NewPlan(size, chunkSize int64) (Plan, error) {
	if chunkSize <= 0 {
		return Plan{}, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if size < 0 {
		return Plan{}, fmt.Errorf("size must not be negative, got %d", size)
	}

	count := int((size + chunkSize - 1) / chunkSize)
	if count == 0 {
		count = 1
	}

	return Plan{Size: size, ChunkSize: chunkSize, Count: count}, nil
}

// Range returns the byte range of chunk i.
func (p Plan) Range(i int) Range {
	start := int64(i) * p.ChunkSize
	end := start + p.ChunkSize
	if end > p.Size {
		end = p.Size
	}
	if start > end {
		start = end
	}
	return Range{Index: i, Start: start, End: end}
}

// LastChunkSize is size - chunkSize*(count-1).
func (p Plan) LastChunkSize() int64 {
	return p.Size - p.ChunkSize*int64(p.Count-1)
}

// All yields every range in order. The sequence can be iterated any number of times.
func (p Plan) All() iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for i := 0; i < p.Count; i++ {
			if !yield(p.Range(i)) {
				return
			}
		}
	}
}
