package backendstub

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, s *Server, query string, body string) (int, map[string]string) {
	t.Helper()
	resp, err := http.Post(s.URL+"/upload?"+query, "application/octet-stream", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	var decoded map[string]string
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(data, &decoded)
	return resp.StatusCode, decoded
}

func TestServer_ReassemblesInOrder(t *testing.T) {
	s := New()
	defer s.Close()

	code, _ := post(t, s, "uuid=u1&chunkIndex=0&totalChunks=2&filename=a.txt", "hello ")
	assert.Equal(t, http.StatusOK, code)

	_, _, ok := s.File("u1")
	assert.False(t, ok)

	code, _ = post(t, s, "uuid=u1&chunkIndex=1&totalChunks=2&filename=a.txt", "world")
	assert.Equal(t, http.StatusOK, code)

	name, data, ok := s.File("u1")
	require.True(t, ok)
	assert.Equal(t, "a.txt", name)
	assert.Equal(t, "hello world", string(data))

	resp, err := http.Get(s.URL + "/download/u1")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(body))
	assert.Equal(t, `attachment; filename="a.txt"`, resp.Header.Get("Content-Disposition"))
}

func TestServer_OutOfOrderChunk(t *testing.T) {
	s := New()
	defer s.Close()

	code, body := post(t, s, "uuid=u1&chunkIndex=1&totalChunks=2&filename=a.txt", "x")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "unexpected chunk 1, waiting for 0", body["error"])
}

func TestServer_InvalidParameters(t *testing.T) {
	s := New()
	defer s.Close()

	code, body := post(t, s, "uuid=u1&chunkIndex=x&totalChunks=2&filename=a.txt", "x")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body["error"])
}

func TestServer_FailChunk(t *testing.T) {
	s := New()
	defer s.Close()
	s.FailChunk(0, http.StatusServiceUnavailable, `{"error":"maintenance"}`)

	code, body := post(t, s, "uuid=u1&chunkIndex=0&totalChunks=1&filename=a.txt", "x")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "maintenance", body["error"])
	assert.Len(t, s.Requests(), 1)
}

func TestServer_DownloadMissing(t *testing.T) {
	s := New()
	defer s.Close()

	resp, err := http.Get(s.URL + "/download/nope")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
