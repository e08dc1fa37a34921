package testing

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// ZipChecker allows chaining multiple checks on a zip archive.
type ZipChecker struct {
	Reader io.ReaderAt
	Size   int64
	Checks []func(*zip.Reader) error
}

// NewZipChecker creates a ZipChecker for the archive readable through r.
func NewZipChecker(r io.ReaderAt, size int64) *ZipChecker {
	return &ZipChecker{Reader: r, Size: size, Checks: []func(*zip.Reader) error{}}
}

// Check opens the archive and runs all checks, returning every failure.
func (zc *ZipChecker) Check() error {
	zr, err := zip.NewReader(zc.Reader, zc.Size)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}

	errors := MultiError{}
	for _, check := range zc.Checks {
		AppendErr(&errors, check(zr))
	}

	if len(errors) == 0 {
		return nil
	}

	return errors
}

// EntryNames adds a check that the archive holds exactly the given entries, in order.
func (zc *ZipChecker) EntryNames(names ...string) *ZipChecker {
	zc.Checks = append(zc.Checks, func(zr *zip.Reader) error {
		var got []string
		for _, f := range zr.File {
			got = append(got, f.Name)
		}
		if len(got) != len(names) {
			return fmt.Errorf("entry mismatch: want %q got %q", names, got)
		}
		for i := range names {
			if got[i] != names[i] {
				return fmt.Errorf("entry mismatch: want %q got %q", names, got)
			}
		}
		return nil
	})
	return zc
}

// Content adds a check that the named entry decompresses to content.
func (zc *ZipChecker) Content(name, content string) *ZipChecker {
	zc.Checks = append(zc.Checks, func(zr *zip.Reader) error {
		f, err := zr.Open(name)
		if err != nil {
			return fmt.Errorf("open entry %s: %w", name, err)
		}
		defer f.Close() //nolint:errcheck

		b, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("read entry %s: %w", name, err)
		}
		if string(b) != content {
			return fmt.Errorf("entry %s content mismatch\nwant:\n%q\n\ngot:\n%q", name, content, string(b))
		}
		return nil
	})
	return zc
}
