package app

// User facing status and error texts.
const (
	StatusPreparing = "Preparing files..."
	StatusArchiving = "Creating zip archive..."
	StatusUploading = "Uploading..."
	StatusSucceeded = "Upload successful!"

	NoSelectionMessage = "Please select at least one file or folder"
	FailurePrefix      = "Upload failed: "
)

// OutcomeKind ...
type OutcomeKind int

const (
	// OutcomeNone means no upload was attempted for the current selection.
	OutcomeNone OutcomeKind = iota
	OutcomeInProgress
	OutcomeSucceeded
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNone:
		return "none"
	case OutcomeInProgress:
		return "in progress"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of the latest upload attempt.
// DownloadURL is set when it succeeded, Message when it failed.
type Outcome struct {
	Kind        OutcomeKind
	DownloadURL string
	Message     string
}

// State is everything the presentation layer renders. It is only changed through App operations.
type State struct {
	FileCount int
	TotalSize int64
	IsFolder  bool

	// Progress is 0-100, non-decreasing within one attempt and reset by a new selection or attempt.
	Progress int
	Status   string
	Error    string
	Outcome  Outcome

	ShowWelcome bool
}

// Uploading ...
func (s State) Uploading() bool {
	return s.Outcome.Kind == OutcomeInProgress
}
