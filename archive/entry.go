package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// Content is the byte accessor of a selected entry.
// Archive building reads it sequentially, chunked uploads read it by offset.
type Content interface {
	io.ReaderAt
	io.Closer
}

// Entry is one selected file.
// RelativePath is set when the file was picked as part of a folder and always uses
// forward slashes, with the folder's own name as the first segment (photos/a.jpg).
type Entry struct {
	Name         string
	RelativePath string
	Size         int64

	open func() (Content, error)
}

// NewEntry creates an Entry backed by a custom content accessor.
func NewEntry(name, relativePath string, size int64, open func() (Content, error)) Entry {
	return Entry{
		Name:         name,
		RelativePath: relativePath,
		Size:         size,
		open:         open,
	}
}

// NewFileEntry creates an Entry for a file on disk.
func NewFileEntry(filePath, relativePath string) (Entry, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return Entry{}, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return Entry{}, fmt.Errorf("%s is a directory", filePath)
	}

	return NewEntry(info.Name(), relativePath, info.Size(), func() (Content, error) {
		return os.Open(filePath)
	}), nil
}

// NewBytesEntry creates an Entry for in-memory data.
func NewBytesEntry(name, relativePath string, data []byte) Entry {
	return NewEntry(name, relativePath, int64(len(data)), func() (Content, error) {
		return nopCloser{bytes.NewReader(data)}, nil
	})
}

// Open returns the content of the entry. The caller closes it.
func (e Entry) Open() (Content, error) {
	if e.open == nil {
		return nil, fmt.Errorf("entry %s has no content", e.Name)
	}
	return e.open()
}

// ArchivePath is the name the entry gets inside a zip archive:
// the relative path when present, the bare name otherwise.
func (e Entry) ArchivePath() string {
	p := e.RelativePath
	if p == "" {
		p = e.Name
	}
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// IsFolderSelection reports whether any entry carries a folder marker.
func IsFolderSelection(entries []Entry) bool {
	for _, e := range entries {
		if e.RelativePath != "" {
			return true
		}
	}
	return false
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
