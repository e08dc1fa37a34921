package upload

import (
	"github.com/bitrise-io/go-utils/v2/log"

	"github.com/darlingshare/go-qrshare/chunk"
	"github.com/darlingshare/go-qrshare/network"
)

// DefaultBackendURL is the share backend used when nothing else is configured.
const DefaultBackendURL = "https://fileshareb.onrender.com"

// Config holds configuration for the upload orchestrator.
type Config struct {
	// BackendURL is the base of the upload and download endpoints.
	// Default: DefaultBackendURL
	BackendURL string

	// ChunkSize is the byte length of every chunk but the last.
	// Default: 1 MiB
	ChunkSize int64

	// Retries is the number of extra attempts per chunk request on transport failures and 5xx responses.
	// Default: 0, a failed chunk aborts the upload.
	Retries int

	// Sender transmits the chunks.
	// If nil, a network.Client for BackendURL with Retries is created by the Uploader.
	Sender ChunkSender
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BackendURL: DefaultBackendURL,
		ChunkSize:  chunk.DefaultSize,
		Retries:    0,
		Sender:     nil, // Will be created by Uploader
	}
}

// NewSender returns the HTTP client for config.BackendURL that retries config.Retries times.
func NewSender(config Config, logger log.Logger) *network.Client {
	return network.NewClient(network.NewHTTPClient(logger, config.Retries), config.BackendURL, logger)
}
