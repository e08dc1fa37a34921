// Package upload transmits an artifact to the share backend as strictly ordered chunks
// and reports progress and the resulting download link.
package upload

import (
	"github.com/google/uuid"
)

// Session correlates all chunks of one upload attempt. The ID becomes part of the download link.
type Session struct {
	ID          uuid.UUID
	TotalChunks int
	Filename    string
}

// NewSession starts a session with a fresh random ID.
func NewSession(filename string, totalChunks int) Session {
	return Session{
		ID:          uuid.New(),
		TotalChunks: totalChunks,
		Filename:    filename,
	}
}

// ProgressFunc receives the completion percentage after every acknowledged chunk.
type ProgressFunc func(percent int)

// Result is the outcome of a completed upload.
type Result struct {
	Session     Session
	DownloadURL string
}

// Percent is the progress reported after done of total chunks were acknowledged.
// It rounds up, and only the final chunk reports 100.
func Percent(done, total int) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}

	p := (done*100 + total - 1) / total
	if p > 99 {
		p = 99
	}
	return p
}
