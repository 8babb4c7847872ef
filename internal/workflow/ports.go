package workflow

import (
	"context"
	"time"

	"github.com/veranemoloko/doc-converter/internal/domain"
)

// Uploader sends a validated file to the conversion backend. Failures are
// opaque to the workflow and treated uniformly as "upload failed".
type Uploader interface {
	Upload(ctx context.Context, file *domain.FileCandidate) error
}

// ArtifactStore retrieves a converted artifact by name. Failures are opaque
// and treated uniformly as "download failed".
type ArtifactStore interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// NotifyKind classifies a user-facing notification.
type NotifyKind string

const (
	NotifyInfo    NotifyKind = "info"
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
)

// Notifier surfaces messages to the user. Calls are fire-and-forget: the
// workflow never blocks on them and never inspects a result, so
// implementations must return quickly and must not call back into the
// workflow.
type Notifier interface {
	Notify(kind NotifyKind, message string, durationHint time.Duration)
}

// LocalDelivery hands converted bytes to the host environment for
// persistence. Delivery failures are a Notifier concern, not a workflow
// state.
type LocalDelivery interface {
	Save(data []byte, suggestedName string) error
}
