// Package app owns the share state: the current selection, upload progress and outcome,
// and the one-time welcome flag. Presentation layers read State and call App operations.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bitrise-io/go-utils/v2/analytics"
	"github.com/bitrise-io/go-utils/v2/log"

	"github.com/darlingshare/go-qrshare/archive"
	"github.com/darlingshare/go-qrshare/prefs"
	"github.com/darlingshare/go-qrshare/selection"
	"github.com/darlingshare/go-qrshare/upload"
)

// ErrUploadInProgress is returned when an upload is requested while another one runs.
var ErrUploadInProgress = errors.New("an upload is already in progress")

// Option ...
type Option func(*App)

// WithTracker reports archive and upload events to tracker.
func WithTracker(tracker analytics.Tracker) Option {
	return func(a *App) {
		a.tracker = uploadTracker{tracker: tracker}
	}
}

// App ...
type App struct {
	builder  *archive.Builder
	uploader *upload.Uploader
	store    prefs.Store
	logger   log.Logger
	tracker  uploadTracker

	mu         sync.Mutex
	state      State
	selection  selection.Selection
	generation uint64
	uploading  bool
	listeners  map[int]func(State)
	nextID     int
}

// New ...
func New(builder *archive.Builder, uploader *upload.Uploader, store prefs.Store, logger log.Logger, opts ...Option) *App {
	a := &App{
		builder:   builder,
		uploader:  uploader,
		store:     store,
		logger:    logger,
		listeners: map[int]func(State){},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns a snapshot of the current state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Subscribe calls fn with a snapshot after every state change until the returned func is called.
// fn runs on the goroutine that made the change.
func (a *App) Subscribe(fn func(State)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.listeners[id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.listeners, id)
	}
}

// Init reads the welcome flag. The welcome text is shown unless it was dismissed before.
func (a *App) Init(ctx context.Context) error {
	seen, err := prefs.WelcomeSeen(ctx, a.store)
	a.update(func(s *State) { s.ShowWelcome = !seen })
	return err
}

// DismissWelcome hides the welcome text for good.
func (a *App) DismissWelcome(ctx context.Context) error {
	a.update(func(s *State) { s.ShowWelcome = false })
	return prefs.MarkWelcomeSeen(ctx, a.store)
}

// OnSelectionChanged replaces the selection and resets progress, status, error and outcome.
// A running upload keeps going but no longer changes the state.
func (a *App) OnSelectionChanged(event selection.Event) {
	sel := selection.FromEvent(event)
	a.logger.Debugf("Selection changed (%s): %d file(s), folder=%v", event.Kind, sel.Len(), sel.IsFolder)

	a.mu.Lock()
	a.selection = sel
	a.generation++
	a.state = State{
		FileCount:   sel.Len(),
		TotalSize:   sel.TotalSize(),
		IsFolder:    sel.IsFolder,
		ShowWelcome: a.state.ShowWelcome,
	}
	snapshot, listeners := a.state, a.listenersLocked()
	a.mu.Unlock()

	notify(listeners, snapshot)
}

// Upload builds the artifact of the current selection and uploads it.
// It blocks until the upload ends and returns its outcome. Failures are also
// reflected in State as "Upload failed: <message>".
func (a *App) Upload(ctx context.Context) (Outcome, error) {
	a.mu.Lock()
	if a.uploading {
		a.mu.Unlock()
		return Outcome{}, ErrUploadInProgress
	}
	sel := a.selection
	gen := a.generation
	if sel.Empty() {
		a.state.Error = NoSelectionMessage
		a.state.Outcome = Outcome{Kind: OutcomeFailed, Message: NoSelectionMessage}
		snapshot, listeners := a.state, a.listenersLocked()
		a.mu.Unlock()

		notify(listeners, snapshot)
		return snapshot.Outcome, upload.ErrNoSelection
	}
	a.uploading = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.uploading = false
		a.mu.Unlock()
	}()

	a.updateAttempt(gen, func(s *State) {
		s.Progress = 0
		s.Error = ""
		s.Status = StatusPreparing
		s.Outcome = Outcome{Kind: OutcomeInProgress}
	})

	artifact, err := a.build(gen, sel)
	if err != nil {
		archiveErr := &upload.ArchiveError{Err: err}
		return a.fail(gen, "archive", archiveErr), archiveErr
	}
	defer func() {
		if err := artifact.Close(); err != nil {
			a.logger.Warnf("Failed to clean up %s: %s", artifact.Name, err)
		}
	}()

	a.updateAttempt(gen, func(s *State) { s.Status = StatusUploading })
	a.logger.Infof("Uploading %s", artifact.Name)

	start := time.Now()
	result, err := a.uploader.UploadArtifact(ctx, artifact, func(percent int) {
		a.updateAttempt(gen, func(s *State) {
			if percent > s.Progress {
				s.Progress = percent
			}
		})
	})
	if err != nil {
		return a.fail(gen, errorKind(err), err), err
	}

	a.tracker.logUploadSucceeded(time.Since(start), artifact.Size, result.Session.TotalChunks, sel.IsFolder)
	a.logger.Donef("Shared at %s", result.DownloadURL)

	outcome := Outcome{Kind: OutcomeSucceeded, DownloadURL: result.DownloadURL}
	a.updateAttempt(gen, func(s *State) {
		s.Progress = 100
		s.Status = StatusSucceeded
		s.Outcome = outcome
	})
	return outcome, nil
}

// Wait blocks until queued analytics events are sent.
func (a *App) Wait() {
	a.tracker.wait()
}

func (a *App) build(gen uint64, sel selection.Selection) (*archive.Artifact, error) {
	if !archive.NeedsArchive(sel.Entries, sel.IsFolder) {
		return a.builder.Build(sel.Entries, sel.IsFolder)
	}

	a.updateAttempt(gen, func(s *State) { s.Status = StatusArchiving })

	start := time.Now()
	artifact, err := a.builder.Build(sel.Entries, sel.IsFolder)
	if err != nil {
		return nil, err
	}
	a.tracker.logArchiveCreated(time.Since(start), sel.Len(), artifact.Size)
	return artifact, nil
}

func (a *App) fail(gen uint64, kind string, err error) Outcome {
	message := upload.Message(err)
	a.logger.Errorf("Upload failed: %s", err)
	a.tracker.logUploadFailed(kind)

	outcome := Outcome{Kind: OutcomeFailed, Message: message}
	a.updateAttempt(gen, func(s *State) {
		s.Status = ""
		s.Error = FailurePrefix + message
		s.Outcome = outcome
	})
	return outcome
}

// updateAttempt applies fn only if no newer selection replaced the one the attempt started with.
func (a *App) updateAttempt(gen uint64, fn func(*State)) {
	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		return
	}
	fn(&a.state)
	snapshot, listeners := a.state, a.listenersLocked()
	a.mu.Unlock()

	notify(listeners, snapshot)
}

func (a *App) update(fn func(*State)) {
	a.mu.Lock()
	fn(&a.state)
	snapshot, listeners := a.state, a.listenersLocked()
	a.mu.Unlock()

	notify(listeners, snapshot)
}

func (a *App) listenersLocked() []func(State) {
	listeners := make([]func(State), 0, len(a.listeners))
	for i := 0; i < a.nextID; i++ {
		if fn, ok := a.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	return listeners
}

func notify(listeners []func(State), s State) {
	for _, fn := range listeners {
		fn(s)
	}
}

func errorKind(err error) string {
	var appErr *upload.ChunkApplicationError
	if errors.As(err, &appErr) {
		return "application"
	}
	var transportErr *upload.ChunkTransportError
	if errors.As(err, &transportErr) {
		return "transport"
	}
	return fmt.Sprintf("%T", err)
}
