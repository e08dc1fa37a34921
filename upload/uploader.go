package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/docker/go-units"

	"github.com/darlingshare/go-qrshare/archive"
	"github.com/darlingshare/go-qrshare/chunk"
	"github.com/darlingshare/go-qrshare/network"
)

// ChunkSender transmits single chunks and knows where a finished session is served.
// *network.Client implements it.
type ChunkSender interface {
	UploadChunk(ctx context.Context, params network.ChunkParams, data []byte) error
	DownloadURL(sessionID string) string
}

// Uploader sends chunks one at a time, in index order.
// Chunk i+1 is read and sent only after chunk i was acknowledged.
type Uploader struct {
	config Config
	sender ChunkSender
	logger log.Logger
	stats  *Stats
}

// New creates a new Uploader with the given configuration.
// A non-positive ChunkSize falls back to chunk.DefaultSize, an empty BackendURL to DefaultBackendURL.
func New(config Config, logger log.Logger) *Uploader {
	if config.ChunkSize <= 0 {
		config.ChunkSize = chunk.DefaultSize
	}
	if config.BackendURL == "" {
		config.BackendURL = DefaultBackendURL
	}

	sender := config.Sender
	if sender == nil {
		sender = NewSender(config, logger)
	}

	return &Uploader{
		config: config,
		sender: sender,
		logger: logger,
		stats:  NewStats(),
	}
}

// Stats returns the statistics of the last upload.
func (u *Uploader) Stats() *Stats {
	return u.stats
}

// UploadArtifact splits the artifact, opens a new session for it and uploads every chunk.
func (u *Uploader) UploadArtifact(ctx context.Context, artifact *archive.Artifact, progress ProgressFunc) (Result, error) {
	plan, err := chunk.NewPlan(artifact.Size, u.config.ChunkSize)
	if err != nil {
		return Result{}, fmt.Errorf("plan chunks: %w", err)
	}

	session := NewSession(artifact.Name, plan.Count)
	u.logger.Debugf("Session %s: %s (%s) in %d chunk(s) of %s", session.ID, artifact.Name,
		units.HumanSizeWithPrecision(float64(artifact.Size), 3), plan.Count,
		units.HumanSizeWithPrecision(float64(plan.ChunkSize), 3))

	downloadURL, err := u.Upload(ctx, chunk.NewReaderAtProvider(artifact, plan), session, progress)
	if err != nil {
		return Result{Session: session}, err
	}
	return Result{Session: session, DownloadURL: downloadURL}, nil
}

// Upload sends every chunk of provider under session and returns the download link.
// The first failing chunk aborts the upload; later chunks are never sent.
// progress is called after each acknowledged chunk and may be nil.
func (u *Uploader) Upload(ctx context.Context, provider chunk.Provider, session Session, progress ProgressFunc) (string, error) {
	u.stats = NewStats()

	total := provider.NumChunks()
	if total != session.TotalChunks {
		return "", fmt.Errorf("chunk count mismatch: provider has %d chunks, session expects %d", total, session.TotalChunks)
	}

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return "", &ChunkTransportError{Index: i, Err: err}
		}

		data, err := readChunk(provider, i)
		if err != nil {
			return "", &ChunkTransportError{Index: i, Err: err}
		}

		u.logger.Debugf("Uploading chunk %d/%d (%s) [finished=%d] [avg=%v]", i+1, total,
			units.HumanSizeWithPrecision(float64(len(data)), 3),
			u.stats.FinishedCount(), u.stats.Average().Round(time.Millisecond))

		start := time.Now()
		err = u.sender.UploadChunk(ctx, network.ChunkParams{
			SessionID:   session.ID.String(),
			Index:       i,
			TotalChunks: total,
			Filename:    session.Filename,
		}, data)
		if err != nil {
			u.logger.Warnf("Chunk %d/%d failed: %s", i+1, total, err)
			return "", classify(i, err)
		}

		u.stats.Update(time.Since(start), int64(len(data)))
		if progress != nil {
			progress(Percent(i+1, total))
		}
	}

	u.logger.Donef("Uploaded %s in %d chunk(s), took %v", units.HumanSizeWithPrecision(float64(u.stats.TotalBytes()), 3),
		u.stats.FinishedCount(), u.stats.TotalDuration().Round(time.Millisecond))

	return u.sender.DownloadURL(session.ID.String()), nil
}

func readChunk(provider chunk.Provider, index int) ([]byte, error) {
	reader, err := provider.GetChunk(index)
	if err != nil {
		return nil, fmt.Errorf("get chunk: %w", err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read chunk: %w", err)
	}
	return data, nil
}

func classify(index int, err error) error {
	var errorResponse *network.ErrorResponse
	if errors.As(err, &errorResponse) {
		return &ChunkApplicationError{Index: index, Message: errorResponse.Message}
	}
	return &ChunkTransportError{Index: index, Err: err}
}
