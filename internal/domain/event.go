package domain

import "github.com/google/uuid"

// EventType identifies a workflow event.
type EventType string

const (
	EventUploadSucceeded   EventType = "upload_succeeded"
	EventUploadFailed      EventType = "upload_failed"
	EventTickProgress      EventType = "tick_progress"
	EventProcessingDone    EventType = "processing_done"
	EventProcessingFailed  EventType = "processing_failed"
	EventDownloadSucceeded EventType = "download_succeeded"
	EventDownloadFailed    EventType = "download_failed"
	EventResetRequested    EventType = "reset_requested"
	EventSettleElapsed     EventType = "settle_elapsed"
)

// Event is a single input to the workflow's transition function. Epoch ties
// the event to the session that produced it; stale events are dropped.
type Event struct {
	Type  EventType
	Epoch uuid.UUID

	// Percent is set for EventTickProgress.
	Percent int
	// Data carries the fetched artifact bytes for EventDownloadSucceeded.
	Data []byte
	// Err carries the failure for EventUploadFailed, EventDownloadFailed
	// and EventProcessingFailed.
	Err error
	// Next is the phase a settle timer advances into for EventSettleElapsed.
	Next SessionState
}
