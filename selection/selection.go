// Package selection models what the user picked for sharing and how it got picked.
package selection

import (
	"github.com/darlingshare/go-qrshare/archive"
)

// EventKind tells how a selection was made.
type EventKind int

const (
	// Select is an explicit pick from a file or folder chooser.
	Select EventKind = iota
	// Drop is a drag-and-drop.
	Drop
)

func (k EventKind) String() string {
	switch k {
	case Select:
		return "select"
	case Drop:
		return "drop"
	default:
		return "unknown"
	}
}

// Event is an input that replaces the current selection.
// IsFolderHint is set when the source already knows it delivered folder contents.
type Event struct {
	Kind         EventKind
	Entries      []archive.Entry
	IsFolderHint bool
}

// Selection is an ordered set of entries. A new one always replaces the previous, never merges.
type Selection struct {
	Entries  []archive.Entry
	IsFolder bool
}

// FromEvent derives the selection carried by an input event.
// Any entry with a relative path marks the whole selection as a folder.
func FromEvent(e Event) Selection {
	entries := append([]archive.Entry(nil), e.Entries...)
	return Selection{
		Entries:  entries,
		IsFolder: e.IsFolderHint || archive.IsFolderSelection(entries),
	}
}

// Len ...
func (s Selection) Len() int {
	return len(s.Entries)
}

// Empty ...
func (s Selection) Empty() bool {
	return len(s.Entries) == 0
}

// TotalSize is the sum of entry sizes.
func (s Selection) TotalSize() int64 {
	var total int64
	for _, e := range s.Entries {
		total += e.Size
	}
	return total
}
