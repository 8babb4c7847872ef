package client

import (
	"context"
	"fmt"
	"time"

	"github.com/veranemoloko/doc-converter/internal/domain"
	errs "github.com/veranemoloko/doc-converter/internal/errors"
)

// ProgressPoller is a ProgressSource wired to genuine server-reported
// progress instead of the synthetic ticker. It polls the convert-progress
// endpoint and re-emits the reported percentage, clamped so the stream
// stays monotonically non-decreasing even if the server regresses.
type ProgressPoller struct {
	client   *Client
	interval time.Duration
}

// NewProgressPoller creates a poller asking the server every interval.
func NewProgressPoller(client *Client, interval time.Duration) *ProgressPoller {
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	return &ProgressPoller{client: client, interval: interval}
}

// Run polls until the server reports completion or an error state.
func (p *ProgressPoller) Run(ctx context.Context, sourceName string, emit func(percent int)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	last := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			progress, err := p.client.ConvertProgress(ctx, sourceName)
			if err != nil {
				// The progress entry may not exist yet right after upload.
				p.client.logger.Debug("progress poll failed", "source", sourceName, "error", err)
				continue
			}

			if progress.Status == domain.ConvertStatusError {
				return fmt.Errorf("%w: %s", errs.ErrConversionFailed, sourceName)
			}

			percent := int(progress.Progress)
			if percent > 100 {
				percent = 100
			}
			if percent > last {
				last = percent
				emit(percent)
			}

			if progress.Status == domain.ConvertStatusCompleted || last >= 100 {
				if last < 100 {
					emit(100)
				}
				return nil
			}
		}
	}
}
