package notify

import (
	"log/slog"
	"time"

	"github.com/veranemoloko/doc-converter/internal/workflow"
)

// SlogNotifier surfaces workflow notifications through the structured
// logger. It stands in for a toast/banner layer in a host UI.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a notifier writing to the given logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

// Notify logs the message at a level matching its kind. Fire-and-forget.
func (n *SlogNotifier) Notify(kind workflow.NotifyKind, message string, durationHint time.Duration) {
	attrs := []any{"kind", string(kind), "duration_hint", durationHint}
	switch kind {
	case workflow.NotifyError:
		n.logger.Error(message, attrs...)
	case workflow.NotifySuccess:
		n.logger.Info(message, attrs...)
	default:
		n.logger.Info(message, attrs...)
	}
}
