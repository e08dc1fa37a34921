package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/darlingshare/go-qrshare/app"
)

const progressWidth = 30

// StateWriter prints the changes between consecutive app states.
// Subscribe its Render method to an app.App.
type StateWriter struct {
	mu   sync.Mutex
	w    io.Writer
	last app.State
	bar  bool
}

// NewStateWriter ...
func NewStateWriter(w io.Writer) *StateWriter {
	return &StateWriter{w: w}
}

// Render prints what changed since the previous state.
func (p *StateWriter) Render(s app.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s.FileCount != p.last.FileCount || s.TotalSize != p.last.TotalSize {
		p.endBar()
		fmt.Fprintf(p.w, "%s (%s)\n", SelectionSummary(s.FileCount), Size(s.TotalSize))
	}

	if s.Status != "" && s.Status != p.last.Status {
		p.endBar()
		fmt.Fprintln(p.w, s.Status)
	}

	if s.Progress > 0 && s.Progress < 100 && s.Progress != p.last.Progress {
		fmt.Fprintf(p.w, "\r%s", ProgressBar(s.Progress, progressWidth))
		p.bar = true
	}

	if s.Error != "" && s.Error != p.last.Error {
		p.endBar()
		fmt.Fprintln(p.w, s.Error)
	}

	if s.Outcome.Kind == app.OutcomeSucceeded && p.last.Outcome.Kind != app.OutcomeSucceeded {
		p.endBar()
		fmt.Fprintln(p.w)
		Result(p.w, s.Outcome.DownloadURL)
	}

	p.last = s
}

func (p *StateWriter) endBar() {
	if p.bar {
		fmt.Fprintln(p.w)
		p.bar = false
	}
}
