package selection

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/darlingshare/go-qrshare/archive"
)

// globChars mark an argument as a doublestar pattern.
const globChars = "*?[{"

// Collector turns command line paths into selection entries.
// Files become standalone entries. Directories and glob patterns become folder
// contents whose relative path starts with the directory name (photos/a.jpg).
type Collector struct {
	logger       log.Logger
	pathModifier pathutil.PathModifier
	pathChecker  pathutil.PathChecker
	excludes     []string
}

// NewCollector ...
func NewCollector(logger log.Logger, pathModifier pathutil.PathModifier, pathChecker pathutil.PathChecker, excludes []string) (*Collector, error) {
	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}

	return &Collector{
		logger:       logger,
		pathModifier: pathModifier,
		pathChecker:  pathChecker,
		excludes:     excludes,
	}, nil
}

// Collect evaluates paths in order and returns the matching entries.
func (c *Collector) Collect(paths []string) ([]archive.Entry, error) {
	var entries []archive.Entry

	for _, p := range paths {
		var (
			collected []archive.Entry
			err       error
		)
		if strings.ContainsAny(p, globChars) {
			collected, err = c.collectPattern(p)
		} else {
			collected, err = c.collectPath(p)
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, collected...)
	}

	c.logger.Debugf("Collected %d file(s) from %d path(s)", len(entries), len(paths))
	return entries, nil
}

func (c *Collector) collectPath(p string) ([]archive.Entry, error) {
	absPath, err := c.pathModifier.AbsPath(p) // resolves ~/ and expands any envs
	if err != nil {
		return nil, fmt.Errorf("parse path %s: %w", p, err)
	}

	exists, err := c.pathChecker.IsPathExists(absPath)
	if err != nil {
		return nil, fmt.Errorf("check path %s: %w", absPath, err)
	}
	if !exists {
		return nil, fmt.Errorf("path doesn't exist: %s", p)
	}

	isDir, err := c.pathChecker.IsDirExists(absPath)
	if err != nil {
		return nil, fmt.Errorf("check path %s: %w", absPath, err)
	}
	if isDir {
		return c.collectDir(absPath)
	}

	if c.excluded(filepath.Base(absPath)) {
		c.logger.Debugf("Excluded: %s", p)
		return nil, nil
	}
	entry, err := archive.NewFileEntry(absPath, "")
	if err != nil {
		return nil, err
	}
	return []archive.Entry{entry}, nil
}

func (c *Collector) collectDir(absDir string) ([]archive.Entry, error) {
	root := filepath.Base(absDir)
	var entries []archive.Entry

	err := filepath.WalkDir(absDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(absDir, p)
		if err != nil {
			return err
		}
		relativePath := path.Join(root, filepath.ToSlash(rel))
		if c.excluded(relativePath) {
			c.logger.Debugf("Excluded: %s", relativePath)
			return nil
		}

		entry, err := archive.NewFileEntry(p, relativePath)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", absDir, err)
	}

	if len(entries) == 0 {
		c.logger.Warnf("No files in directory: %s", absDir)
	}
	return entries, nil
}

func (c *Collector) collectPattern(pattern string) ([]archive.Entry, error) {
	base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
	absBase, err := c.pathModifier.AbsPath(base)
	if err != nil {
		return nil, fmt.Errorf("parse path %s: %w", base, err)
	}

	matches, err := doublestar.Glob(os.DirFS(absBase), rest, doublestar.WithNoFollow(), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid path pattern '%s': %w", pattern, err)
	}
	if len(matches) == 0 {
		c.logger.Warnf("No match for path pattern: %s", pattern)
		return nil, nil
	}

	root := filepath.Base(absBase)
	var entries []archive.Entry
	for _, match := range matches {
		relativePath := path.Join(root, match)
		if c.excluded(relativePath) {
			c.logger.Debugf("Excluded: %s", relativePath)
			continue
		}

		entry, err := archive.NewFileEntry(filepath.Join(absBase, filepath.FromSlash(match)), relativePath)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// excluded matches exclude patterns against the slash separated relative path and the file name.
func (c *Collector) excluded(relativePath string) bool {
	name := path.Base(relativePath)
	for _, pattern := range c.excludes {
		if ok, _ := doublestar.Match(pattern, relativePath); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
