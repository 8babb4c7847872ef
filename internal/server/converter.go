package server

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/veranemoloko/doc-converter/internal/config"
	"github.com/veranemoloko/doc-converter/internal/domain"
	"github.com/veranemoloko/doc-converter/internal/metrics"
	"github.com/veranemoloko/doc-converter/internal/storage"
)

// Converter runs conversion jobs against the artifact store. Jobs go
// through a bounded errgroup so a burst of uploads cannot spawn unbounded
// goroutines. Conversion progress advances through fixed milestones
// (10/30/50/70/100) the way the original pipeline reported them.
type Converter struct {
	files   *storage.FileStorage
	tracker *Tracker
	cfg     *config.Config
	logger  *slog.Logger
	group   errgroup.Group
}

// NewConverter creates a Converter with cfg.ConvertWorkers parallel jobs.
func NewConverter(files *storage.FileStorage, tracker *Tracker, cfg *config.Config, logger *slog.Logger) *Converter {
	c := &Converter{
		files:   files,
		tracker: tracker,
		cfg:     cfg,
		logger:  logger,
	}
	c.group.SetLimit(cfg.ConvertWorkers)
	return c
}

// Enqueue schedules a conversion of the named uploaded file. The job runs
// asynchronously; progress is observable through the tracker.
func (c *Converter) Enqueue(filename string) {
	c.tracker.SetConvert(filename, 0)
	metrics.ConversionsTotal.Inc()

	c.group.Go(func() error {
		c.convert(filename)
		return nil
	})
}

// Wait blocks until all scheduled conversions have finished.
func (c *Converter) Wait() error {
	return c.group.Wait()
}

func (c *Converter) convert(filename string) {
	start := time.Now()

	fail := func(err error) {
		c.tracker.SetConvert(filename, progressErr)
		metrics.ConversionsFailed.Inc()
		c.logger.Error("conversion failed", "file", filename, "error", err)
	}

	c.step(filename, 10)

	source, err := c.files.ReadFile(filename)
	if err != nil {
		fail(fmt.Errorf("read source: %w", err))
		return
	}
	c.step(filename, 30)

	outName, err := domain.DeriveArtifactName(filename, c.cfg.ArtifactExtension)
	if err != nil {
		fail(err)
		return
	}
	c.step(filename, 50)

	artifact := renderArtifact(filename, source)
	c.step(filename, 70)

	if err := c.files.WriteFile(outName, artifact); err != nil {
		fail(fmt.Errorf("write artifact: %w", err))
		return
	}

	c.tracker.SetConvert(filename, 100)
	metrics.ConversionDuration.Observe(time.Since(start).Seconds())
	c.logger.Info("conversion completed",
		"file", filename,
		"artifact", outName,
		"duration", time.Since(start),
	)
}

func (c *Converter) step(filename string, percent float64) {
	c.tracker.SetConvert(filename, percent)
	time.Sleep(c.cfg.ConvertStepDelay)
}

// renderArtifact produces a placeholder PDF body. The real conversion
// engine (LibreOffice or similar) is deliberately not part of this server;
// the stub keeps the end-to-end flow honest about names and content flow.
func renderArtifact(sourceName string, source []byte) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	fmt.Fprintf(&b, "%% converted from %s (%d bytes)\n", sourceName, len(source))
	b.WriteString("%%EOF\n")
	return b.Bytes()
}
