package upload

import (
	"errors"
	"fmt"

	"github.com/darlingshare/go-qrshare/network"
)

// UnknownErrorMessage is shown when a failure carries no readable text.
const UnknownErrorMessage = "Unknown error"

// ErrNoSelection is returned when an upload is requested without any selected file.
var ErrNoSelection = errors.New("no files selected")

// ArchiveError means the artifact could not be built. Nothing was sent.
type ArchiveError struct {
	Err error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("create archive: %s", e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// ChunkTransportError means a chunk request failed on the wire or with a non-2xx status.
type ChunkTransportError struct {
	Index int
	Err   error
}

func (e *ChunkTransportError) Error() string {
	return fmt.Sprintf("upload chunk %d: %s", e.Index, e.Err)
}

func (e *ChunkTransportError) Unwrap() error {
	return e.Err
}

// ChunkApplicationError means the backend accepted the request but reported an error in the body.
type ChunkApplicationError struct {
	Index   int
	Message string
}

func (e *ChunkApplicationError) Error() string {
	return fmt.Sprintf("chunk %d rejected: %s", e.Index, e.Message)
}

// Message returns the user-facing text of an upload failure:
// the backend's own error text when there is one, the transport error otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var appErr *ChunkApplicationError
	if errors.As(err, &appErr) {
		return orUnknown(appErr.Message)
	}

	var statusErr *network.StatusError
	if errors.As(err, &statusErr) && statusErr.ServerMessage != "" {
		return statusErr.ServerMessage
	}

	var transportErr *ChunkTransportError
	if errors.As(err, &transportErr) && transportErr.Err != nil {
		return orUnknown(transportErr.Err.Error())
	}

	var archiveErr *ArchiveError
	if errors.As(err, &archiveErr) && archiveErr.Err != nil {
		return orUnknown(archiveErr.Err.Error())
	}

	return orUnknown(err.Error())
}

func orUnknown(msg string) string {
	if msg == "" {
		return UnknownErrorMessage
	}
	return msg
}
