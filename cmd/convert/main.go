package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/veranemoloko/doc-converter/internal/client"
	cfgpkg "github.com/veranemoloko/doc-converter/internal/config"
	"github.com/veranemoloko/doc-converter/internal/domain"
	"github.com/veranemoloko/doc-converter/internal/notify"
	"github.com/veranemoloko/doc-converter/internal/storage"
	"github.com/veranemoloko/doc-converter/internal/workflow"
)

func main() {

	cfg, err := cfgpkg.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	cfgpkg.SetupLogger(cfg)

	if len(os.Args) < 2 {
		slog.Error("usage: convert <file.doc|file.docx>")
		os.Exit(2)
	}
	path := os.Args[1]

	info, err := os.Stat(path)
	if err != nil {
		slog.Error("cannot read input file", "path", path, "error", err)
		os.Exit(1)
	}

	candidate := &domain.FileCandidate{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}

	api := client.New(cfg, slog.Default())
	notifier := notify.NewSlogNotifier(slog.Default())
	delivery := storage.NewFileStorage(cfg.OutputDir)

	var progress workflow.ProgressSource = workflow.NewTicker(cfg.ProgressStep, cfg.ProgressInterval)
	if cfg.ProgressMode == "server" {
		progress = client.NewProgressPoller(api, cfg.ProgressInterval)
	}

	wf := workflow.New(cfg, api, api, notifier, delivery, progress, slog.Default())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := wf.Select(candidate); err != nil {
		os.Exit(1)
	}
	if err := wf.Upload(ctx); err != nil {
		slog.Error("failed to start upload", "error", err)
		os.Exit(1)
	}

	delivered := false
	downloadTriggered := false

	for {
		select {
		case <-ctx.Done():
			wf.Reset()
			slog.Warn("interrupted, session reset")
			os.Exit(1)

		case snap := <-wf.Updates():
			if snap.Delivered {
				delivered = true
			}

			switch {
			case snap.State == domain.StateProcessing:
				slog.Info("converting", "percent", snap.ProgressPercent)

			case snap.State == domain.StateReadyForDownload && !snap.DownloadInFlight && !snap.Delivered:
				if downloadTriggered {
					// Retries are user-initiated; a second failure here means
					// the artifact stays on the server for a manual attempt.
					slog.Error("download failed", "artifact", snap.ResultName)
					os.Exit(1)
				}
				downloadTriggered = true
				if err := wf.Download(ctx); err != nil {
					slog.Error("failed to start download", "error", err)
					os.Exit(1)
				}

			case snap.State == domain.StateIdle && snap.StagedFileName == "":
				if delivered {
					slog.Info("conversion complete", "output_dir", cfg.OutputDir)
					return
				}
				slog.Error("conversion aborted")
				os.Exit(1)
			}
		}
	}
}
