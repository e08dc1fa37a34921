package upload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darlingshare/go-qrshare/network"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name  string
		done  int
		total int
		want  int
	}{
		{name: "nothing done", done: 0, total: 3, want: 0},
		{name: "first of three", done: 1, total: 3, want: 34},
		{name: "second of three", done: 2, total: 3, want: 67},
		{name: "last of three", done: 3, total: 3, want: 100},
		{name: "half", done: 1, total: 2, want: 50},
		{name: "single chunk", done: 1, total: 1, want: 100},
		{name: "one before last of many stays below 100", done: 999, total: 1000, want: 99},
		{name: "no chunks", done: 0, total: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.done, tt.total))
		})
	}
}

func TestPercent_NonDecreasing(t *testing.T) {
	for _, total := range []int{1, 2, 3, 7, 99, 100, 101, 250, 1000} {
		prev := 0
		for done := 1; done <= total; done++ {
			p := Percent(done, total)
			assert.GreaterOrEqual(t, p, prev)
			if done < total {
				assert.Less(t, p, 100, "total=%d done=%d", total, done)
			}
			prev = p
		}
		assert.Equal(t, 100, prev)
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "no error", err: nil, want: ""},
		{name: "application error", err: &ChunkApplicationError{Index: 1, Message: "disk full"}, want: "disk full"},
		{name: "application error without text", err: &ChunkApplicationError{Index: 1}, want: UnknownErrorMessage},
		{
			name: "status error with server text",
			err:  &ChunkTransportError{Err: &network.StatusError{StatusCode: 500, ServerMessage: "bucket unavailable"}},
			want: "bucket unavailable",
		},
		{
			name: "status error without server text",
			err:  &ChunkTransportError{Err: &network.StatusError{StatusCode: 502}},
			want: "request failed with status code 502",
		},
		{name: "transport error", err: &ChunkTransportError{Err: errors.New("dial tcp: connection refused")}, want: "dial tcp: connection refused"},
		{name: "archive error", err: &ArchiveError{Err: errors.New("open secret.txt: permission denied")}, want: "open secret.txt: permission denied"},
		{name: "empty error text", err: errors.New(""), want: UnknownErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}
