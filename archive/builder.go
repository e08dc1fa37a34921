// Package archive turns a file selection into the single artifact that gets uploaded.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/docker/go-units"
	"github.com/klauspost/compress/zip"
)

const (
	// ZipContentType is the media kind of built archives.
	ZipContentType = "application/zip"
	// BinaryContentType is used for single files passed through verbatim.
	BinaryContentType = "application/octet-stream"

	multipleFilesName = "multiple-files"
	folderName        = "folder"
)

// ErrEmptySelection is returned when there is nothing to build an artifact from.
var ErrEmptySelection = errors.New("no entries to build an artifact from")

// Artifact is the single blob that is transmitted: the selected file itself or a built zip.
// It is read-only; chunk reads share it by reference.
type Artifact struct {
	Name        string
	Size        int64
	ContentType string

	content Content
	cleanup func() error
}

// NewArtifact wraps arbitrary content as an Artifact.
func NewArtifact(name string, size int64, contentType string, content Content) *Artifact {
	return &Artifact{
		Name:        name,
		Size:        size,
		ContentType: contentType,
		content:     content,
	}
}

// ReadAt reads artifact bytes starting at off.
func (a *Artifact) ReadAt(p []byte, off int64) (int, error) {
	return a.content.ReadAt(p, off)
}

// Close releases the artifact content and removes any temporary archive.
func (a *Artifact) Close() error {
	err := a.content.Close()
	if a.cleanup != nil {
		if cErr := a.cleanup(); cErr != nil && err == nil {
			err = cErr
		}
	}
	return err
}

// Builder ...
type Builder struct {
	logger       log.Logger
	pathProvider pathutil.PathProvider
	now          func() time.Time
}

// NewBuilder ...
func NewBuilder(logger log.Logger, pathProvider pathutil.PathProvider) *Builder {
	return &Builder{
		logger:       logger,
		pathProvider: pathProvider,
		now:          time.Now,
	}
}

// NeedsArchive reports whether Build will zip the selection.
func NeedsArchive(entries []Entry, isFolder bool) bool {
	return len(entries) > 1 || isFolder
}

// ArchiveName returns the file name a zipped selection is uploaded under.
func ArchiveName(entries []Entry, isFolder bool) string {
	base := multipleFilesName
	if isFolder && len(entries) > 0 && entries[0].RelativePath != "" {
		base = strings.Split(filepath.ToSlash(entries[0].RelativePath), "/")[0]
		if base == "" {
			base = folderName
		}
	}
	return base + ".zip"
}

// Build normalizes a selection into one uploadable artifact.
// A single non-folder entry is passed through verbatim, anything else is zipped with
// each entry stored at its relative path (or bare name). Duplicate paths keep the last entry.
func (b *Builder) Build(entries []Entry, isFolder bool) (*Artifact, error) {
	if len(entries) == 0 {
		return nil, ErrEmptySelection
	}

	if !NeedsArchive(entries, isFolder) {
		entry := entries[0]
		content, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", entry.Name, err)
		}
		b.logger.Debugf("Passing through single file %s (%s)", entry.Name, units.HumanSizeWithPrecision(float64(entry.Size), 3))
		return NewArtifact(entry.Name, entry.Size, BinaryContentType, content), nil
	}

	name := ArchiveName(entries, isFolder)
	tempDir, err := b.pathProvider.CreateTempDir("qrshare-archive")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() error { return os.RemoveAll(tempDir) }

	archivePath := filepath.Join(tempDir, name)
	file, err := os.Create(archivePath)
	if err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("create archive file: %w", err)
	}

	if err := b.writeZip(file, dedupe(entries)); err != nil {
		_ = file.Close()
		_ = cleanup()
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		_ = cleanup()
		return nil, fmt.Errorf("stat archive file: %w", err)
	}

	b.logger.Debugf("Archive %s created with %d entries (%s)", name, len(entries), units.HumanSizeWithPrecision(float64(info.Size()), 3))

	artifact := NewArtifact(name, info.Size(), ZipContentType, file)
	artifact.cleanup = cleanup
	return artifact, nil
}

func (b *Builder) writeZip(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	modified := b.now()

	for _, entry := range entries {
		if err := addEntry(zw, entry, modified); err != nil {
			return fmt.Errorf("add %s to archive: %w", entry.ArchivePath(), err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip writer: %w", err)
	}
	return nil
}

func addEntry(zw *zip.Writer, entry Entry, modified time.Time) error {
	content, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer content.Close() //nolint:errcheck

	header := &zip.FileHeader{
		Name:     entry.ArchivePath(),
		Method:   zip.Deflate,
		Modified: modified,
	}
	header.SetMode(0644)

	fw, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create zip header: %w", err)
	}

	n, err := io.Copy(fw, io.NewSectionReader(content, 0, entry.Size))
	if err != nil {
		return fmt.Errorf("copy file content: %w", err)
	}
	if n != entry.Size {
		return fmt.Errorf("short read: got %d of %d bytes", n, entry.Size)
	}
	return nil
}

// dedupe keeps the first position of every archive path and the last entry written to it.
func dedupe(entries []Entry) []Entry {
	index := map[string]int{}
	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		p := e.ArchivePath()
		if i, ok := index[p]; ok {
			result[i] = e
			continue
		}
		index[p] = len(result)
		result = append(result, e)
	}
	return result
}
