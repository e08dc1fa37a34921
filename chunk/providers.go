package chunk

import (
	"bytes"
	"fmt"
	"io"
)

// Provider provides chunk data for upload.
type Provider interface {
	// NumChunks returns the total number of chunks.
	NumChunks() int

	// ChunkSize returns the size of the chunk at the given index.
	ChunkSize(index int) int64

	// GetChunk returns a reader for the chunk at the given index.
	// For retries, GetChunk may be called multiple times for the same index.
	GetChunk(index int) (io.Reader, error)
}

// ReaderAtProvider reads chunks of a Plan from shared, read-only content.
// Only the requested chunk is held in memory.
type ReaderAtProvider struct {
	content io.ReaderAt
	plan    Plan
}

// NewReaderAtProvider creates a Provider over content laid out by plan.
func NewReaderAtProvider(content io.ReaderAt, plan Plan) *ReaderAtProvider {
	return &ReaderAtProvider{content: content, plan: plan}
}

// NumChunks returns the total number of chunks.
func (p *ReaderAtProvider) NumChunks() int {
	return p.plan.Count
}

// ChunkSize returns the size of the chunk at the given index.
func (p *ReaderAtProvider) ChunkSize(index int) int64 {
	if index < 0 || index >= p.plan.Count {
		return 0
	}
	return p.plan.Range(index).Len()
}

// GetChunk returns a reader for the chunk at the given index.
// The data is read into memory so the request body can be replayed.
func (p *ReaderAtProvider) GetChunk(index int) (io.Reader, error) {
	if index < 0 || index >= p.plan.Count {
		return nil, fmt.Errorf("chunk index %d out of range [0, %d)", index, p.plan.Count)
	}

	r := p.plan.Range(index)
	chunk := make([]byte, r.Len())
	if _, err := io.ReadFull(io.NewSectionReader(p.content, r.Start, r.Len()), chunk); err != nil {
		return nil, fmt.Errorf("read chunk %d: %w", index, err)
	}

	return bytes.NewReader(chunk), nil
}
