// Package backendstub runs an in-process share backend implementing the chunk upload contract:
// POST /upload?uuid&chunkIndex&totalChunks&filename and GET /download/{uuid}.
package backendstub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

// Request is one recorded chunk upload.
type Request struct {
	SessionID   string
	ChunkIndex  int
	TotalChunks int
	Filename    string
	ContentType string
	Size        int
}

// Failure is a canned response returned instead of accepting a chunk.
type Failure struct {
	StatusCode int
	Body       string
}

type session struct {
	filename string
	total    int
	next     int
	data     bytes.Buffer
}

// Server ...
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	sessions map[string]*session
	failures map[int]Failure
}

// New starts a stub backend. Close it when done.
func New() *Server {
	s := &Server{
		sessions: map[string]*session{},
		failures: map[int]Failure{},
	}

	r := mux.NewRouter()
	r.HandleFunc("/upload", s.upload).Methods(http.MethodPost)
	r.HandleFunc("/download/{uuid}", s.download).Methods(http.MethodGet, http.MethodHead)

	s.Server = httptest.NewServer(r)
	return s
}

// FailChunk makes every upload of chunk index answer with status and body.
func (s *Server) FailChunk(index, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[index] = Failure{StatusCode: status, Body: body}
}

// Requests returns the chunk uploads received so far, in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// File returns the reassembled file of a completed session.
func (s *Server) File(sessionID string) (string, []byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.next != sess.total {
		return "", nil, false
	}
	return sess.filename, append([]byte(nil), sess.data.Bytes()...), true
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := q.Get("uuid")
	index, indexErr := strconv.Atoi(q.Get("chunkIndex"))
	total, totalErr := strconv.Atoi(q.Get("totalChunks"))
	filename := q.Get("filename")
	if id == "" || filename == "" || indexErr != nil || totalErr != nil || total < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing or invalid upload parameters"})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, Request{
		SessionID:   id,
		ChunkIndex:  index,
		TotalChunks: total,
		Filename:    filename,
		ContentType: r.Header.Get("Content-Type"),
		Size:        len(body),
	})

	if f, ok := s.failures[index]; ok {
		w.WriteHeader(f.StatusCode)
		_, _ = w.Write([]byte(f.Body))
		return
	}

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{filename: filename, total: total}
		s.sessions[id] = sess
	}
	if index != sess.next {
		writeJSON(w, http.StatusOK, map[string]string{"error": fmt.Sprintf("unexpected chunk %d, waiting for %d", index, sess.next)})
		return
	}

	sess.data.Write(body)
	sess.next++

	writeJSON(w, http.StatusOK, map[string]string{"message": "chunk received"})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["uuid"]

	filename, data, ok := s.File(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "file not found"})
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeContent(w, r, filename, time.Time{}, bytes.NewReader(data))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
