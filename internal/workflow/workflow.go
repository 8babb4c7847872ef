package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/veranemoloko/doc-converter/internal/config"
	"github.com/veranemoloko/doc-converter/internal/domain"
	errs "github.com/veranemoloko/doc-converter/internal/errors"
	"github.com/veranemoloko/doc-converter/internal/metrics"
	"github.com/veranemoloko/doc-converter/internal/validation"
)

const (
	notifyShort = 3 * time.Second
	notifyLong  = 5 * time.Second
)

// Workflow coordinates a single conversion session from file selection
// through post-download reset. All session mutation happens inside
// applyLocked, one event at a time; asynchronous results (upload, fetch,
// timers, progress ticks) re-enter through apply and are dropped when their
// epoch no longer matches the live session.
type Workflow struct {
	cfg       *config.Config
	validator *validation.FileValidator
	uploader  Uploader
	store     ArtifactStore
	notifier  Notifier
	delivery  LocalDelivery
	progress  ProgressSource
	logger    *slog.Logger

	mu             sync.Mutex
	session        domain.Session
	timers         []*time.Timer
	cancelProgress context.CancelFunc
	updates        chan domain.Snapshot
}

// New creates a Workflow in the idle state.
func New(
	cfg *config.Config,
	uploader Uploader,
	store ArtifactStore,
	notifier Notifier,
	delivery LocalDelivery,
	progress ProgressSource,
	logger *slog.Logger,
) *Workflow {
	return &Workflow{
		cfg:       cfg,
		validator: validation.NewFileValidator(cfg.AllowedExtensions, cfg.MaxFileSize),
		uploader:  uploader,
		store:     store,
		notifier:  notifier,
		delivery:  delivery,
		progress:  progress,
		logger:    logger,
		session:   domain.NewSession(),
		updates:   make(chan domain.Snapshot, 64),
	}
}

// Updates returns the stream of session snapshots published after every
// transition. Snapshots are dropped rather than blocking a transition when
// the consumer falls behind.
func (w *Workflow) Updates() <-chan domain.Snapshot {
	return w.updates
}

// Snapshot returns the current observable session state.
func (w *Workflow) Snapshot() domain.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.Snapshot()
}

// Select validates and stages a local file for conversion. An invalid
// candidate is rejected without touching the session; a valid one becomes
// the staged file. Only permitted while idle.
func (w *Workflow) Select(candidate *domain.FileCandidate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session.State != domain.StateIdle {
		return errs.ErrSessionBusy
	}

	if err := w.validator.ValidateFile(candidate); err != nil {
		w.notifier.Notify(NotifyError, err.Error(), notifyLong)
		return err
	}

	w.session.SelectedFile = candidate
	w.logger.Info("file staged",
		"session_id", w.session.ID,
		"file", candidate.Name,
		"size", candidate.Size,
	)
	w.publishLocked()
	return nil
}

// Upload starts sending the staged file to the converter. The result comes
// back as an UploadSucceeded or UploadFailed event.
func (w *Workflow) Upload(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session.State != domain.StateIdle {
		return errs.ErrSessionBusy
	}
	if w.session.SelectedFile == nil {
		return errs.ErrNoStagedFile
	}

	file := w.session.SelectedFile
	epoch := w.session.ID
	w.session.State = domain.StateUploading
	w.session.ProgressPercent = 0
	w.notifier.Notify(NotifyInfo, fmt.Sprintf("uploading %s", file.Name), notifyShort)
	w.publishLocked()

	go func() {
		uploadCtx, cancel := context.WithTimeout(ctx, w.cfg.UploadTimeout)
		defer cancel()

		start := time.Now()
		err := w.uploader.Upload(uploadCtx, file)
		metrics.UploadsTotal.Inc()
		metrics.UploadDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.UploadsFailed.Inc()
			w.apply(domain.Event{Type: domain.EventUploadFailed, Epoch: epoch, Err: err})
			return
		}
		w.apply(domain.Event{Type: domain.EventUploadSucceeded, Epoch: epoch})
	}()

	return nil
}

// Download starts fetching the converted artifact. A second trigger while a
// fetch is outstanding is a no-op.
func (w *Workflow) Download(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session.State != domain.StateReadyForDownload {
		return errs.ErrNotReady
	}
	if w.session.DownloadInFlight {
		return nil
	}

	name := w.session.ResultName
	epoch := w.session.ID
	w.session.DownloadInFlight = true
	w.publishLocked()

	go func() {
		fetchCtx, cancel := context.WithTimeout(ctx, w.cfg.FetchTimeout)
		defer cancel()

		data, err := w.store.Fetch(fetchCtx, name)
		metrics.DownloadsTotal.Inc()

		if err != nil {
			metrics.DownloadsFailed.Inc()
			w.apply(domain.Event{Type: domain.EventDownloadFailed, Epoch: epoch, Err: err})
			return
		}
		w.apply(domain.Event{Type: domain.EventDownloadSucceeded, Epoch: epoch, Data: data})
	}()

	return nil
}

// Reset abandons the current session and returns to idle, cancelling any
// pending timers and progress ticking.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.applyLocked(domain.Event{Type: domain.EventResetRequested, Epoch: w.session.ID})
}

// apply is the entry point for asynchronous events.
func (w *Workflow) apply(event domain.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.applyLocked(event)
}

// applyLocked is the single transition function. Events from a previous
// session epoch are dropped; events that do not match the current state are
// ignored (late responses after a state change).
func (w *Workflow) applyLocked(event domain.Event) {
	if event.Epoch != w.session.ID {
		w.logger.Debug("dropping stale event", "type", event.Type, "epoch", event.Epoch)
		return
	}

	switch event.Type {
	case domain.EventUploadSucceeded:
		if w.session.State != domain.StateUploading {
			return
		}
		w.session.ProgressPercent = 100
		w.notifier.Notify(NotifySuccess, "file uploaded successfully", notifyShort)
		w.scheduleSettleLocked(domain.StateProcessing)

	case domain.EventUploadFailed:
		if w.session.State != domain.StateUploading {
			return
		}
		w.logger.Warn("upload failed", "session_id", w.session.ID, "error", event.Err)
		w.notifier.Notify(NotifyError, "upload failed: "+event.Err.Error(), notifyLong)
		w.resetLocked()

	case domain.EventSettleElapsed:
		w.settleLocked(event.Next)

	case domain.EventTickProgress:
		if w.session.State != domain.StateProcessing {
			return
		}
		if event.Percent > w.session.ProgressPercent {
			w.session.ProgressPercent = min(event.Percent, 100)
		}
		if w.session.ProgressPercent >= 100 {
			w.applyLocked(domain.Event{Type: domain.EventProcessingDone, Epoch: event.Epoch})
			return
		}
		w.publishLocked()

	case domain.EventProcessingDone:
		if w.session.State != domain.StateProcessing {
			return
		}
		w.stopProgressLocked()
		w.session.ProgressPercent = 100
		w.session.State = domain.StateComplete
		w.notifier.Notify(NotifySuccess, "conversion finished", notifyShort)
		w.scheduleSettleLocked(domain.StateReadyForDownload)

	case domain.EventProcessingFailed:
		if w.session.State != domain.StateProcessing {
			return
		}
		w.stopProgressLocked()
		w.logger.Error("processing failed", "session_id", w.session.ID, "error", event.Err)
		w.notifier.Notify(NotifyError, "conversion failed: "+event.Err.Error(), notifyLong)
		w.resetLocked()

	case domain.EventDownloadSucceeded:
		if w.session.State != domain.StateReadyForDownload {
			return
		}
		if err := w.delivery.Save(event.Data, w.session.ResultName); err != nil {
			w.notifier.Notify(NotifyError, "could not save "+w.session.ResultName+": "+err.Error(), notifyLong)
		} else {
			w.notifier.Notify(NotifySuccess, w.session.ResultName+" downloaded", notifyShort)
		}
		w.notifier.Notify(NotifySuccess, "server files cleaned up", notifyShort)
		w.session.DownloadInFlight = false
		w.session.Delivered = true
		w.scheduleSettleLocked(domain.StateIdle)

	case domain.EventDownloadFailed:
		if w.session.State != domain.StateReadyForDownload {
			return
		}
		w.session.DownloadInFlight = false
		w.logger.Warn("download failed", "session_id", w.session.ID, "error", event.Err)
		w.notifier.Notify(NotifyError, "download failed: "+event.Err.Error(), notifyLong)
		w.publishLocked()

	case domain.EventResetRequested:
		w.resetLocked()
	}
}

// settleLocked advances into the phase a settle timer was armed for. The
// state check guards against resets that happened while the timer was
// pending but could not be stopped in time.
func (w *Workflow) settleLocked(next domain.SessionState) {
	switch next {
	case domain.StateProcessing:
		if w.session.State != domain.StateUploading || w.session.SelectedFile == nil {
			return
		}
		w.session.SourceName = w.session.SelectedFile.Name
		w.session.SelectedFile = nil
		w.session.State = domain.StateProcessing
		w.session.ProgressPercent = 0
		w.startProgressLocked()
		w.publishLocked()

	case domain.StateReadyForDownload:
		if w.session.State != domain.StateComplete {
			return
		}
		name, err := domain.DeriveArtifactName(w.session.SourceName, w.cfg.ArtifactExtension)
		if err != nil {
			w.logger.Error("artifact name derivation failed",
				"session_id", w.session.ID,
				"source", w.session.SourceName,
				"error", err,
			)
			w.notifier.Notify(NotifyError, "internal error: "+err.Error(), notifyLong)
			w.resetLocked()
			return
		}
		w.session.ResultName = name
		w.session.State = domain.StateReadyForDownload
		w.notifier.Notify(NotifyInfo, name+" is ready for download", notifyShort)
		w.publishLocked()

	case domain.StateIdle:
		w.resetLocked()
	}
}

func (w *Workflow) scheduleSettleLocked(next domain.SessionState) {
	epoch := w.session.ID
	timer := time.AfterFunc(w.cfg.SettleDelay, func() {
		w.apply(domain.Event{Type: domain.EventSettleElapsed, Epoch: epoch, Next: next})
	})
	w.timers = append(w.timers, timer)
	w.publishLocked()
}

func (w *Workflow) startProgressLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancelProgress = cancel
	epoch := w.session.ID
	source := w.session.SourceName

	go func() {
		err := w.progress.Run(ctx, source, func(percent int) {
			w.apply(domain.Event{Type: domain.EventTickProgress, Epoch: epoch, Percent: percent})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			w.apply(domain.Event{Type: domain.EventProcessingFailed, Epoch: epoch, Err: err})
		}
	}()
}

func (w *Workflow) stopProgressLocked() {
	if w.cancelProgress != nil {
		w.cancelProgress()
		w.cancelProgress = nil
	}
}

// resetLocked clears everything back to a fresh idle session. The new
// session ID invalidates any async result still in flight.
func (w *Workflow) resetLocked() {
	for _, timer := range w.timers {
		timer.Stop()
	}
	w.timers = nil
	w.stopProgressLocked()

	w.session = domain.NewSession()
	metrics.SessionResets.Inc()
	w.logger.Info("session reset", "session_id", w.session.ID)
	w.publishLocked()
}

func (w *Workflow) publishLocked() {
	select {
	case w.updates <- w.session.Snapshot():
	default:
		// A slow consumer misses intermediate snapshots; transitions never block.
	}
}
