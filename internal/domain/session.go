package domain

import (
	"io"

	"github.com/google/uuid"
)

// SessionState represents the current phase of a conversion attempt.
type SessionState string

const (
	StateIdle             SessionState = "idle"
	StateUploading        SessionState = "uploading"
	StateProcessing       SessionState = "processing"
	StateComplete         SessionState = "complete"
	StateReadyForDownload SessionState = "ready_for_download"
)

// FileCandidate describes a local file offered for conversion. Open returns
// a fresh reader over the file's content; callers own the returned reader.
type FileCandidate struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Session is the single mutable record of one conversion attempt. It is
// mutated only by the workflow's transition logic. ID doubles as the session
// epoch: it changes on every reset, and async results carrying an older ID
// are discarded.
type Session struct {
	ID               uuid.UUID
	State            SessionState
	SelectedFile     *FileCandidate
	SourceName       string
	ProgressPercent  int
	ResultName       string
	DownloadInFlight bool
	Delivered        bool
}

// NewSession returns a fresh idle session with a new epoch.
func NewSession() Session {
	return Session{ID: uuid.New(), State: StateIdle}
}

// Snapshot is an immutable copy of the observable session fields, published
// to subscribers after every transition.
type Snapshot struct {
	ID               uuid.UUID
	State            SessionState
	StagedFileName   string
	ProgressPercent  int
	ResultName       string
	DownloadInFlight bool
	Delivered        bool
}

// Snapshot copies the observable fields of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:               s.ID,
		State:            s.State,
		ProgressPercent:  s.ProgressPercent,
		ResultName:       s.ResultName,
		DownloadInFlight: s.DownloadInFlight,
		Delivered:        s.Delivered,
	}
	if s.SelectedFile != nil {
		snap.StagedFileName = s.SelectedFile.Name
	}
	return snap
}
