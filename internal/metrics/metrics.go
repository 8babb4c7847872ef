package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doc_converter_uploads_total",
		Help: "Total number of upload attempts",
	})

	UploadsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doc_converter_uploads_failed_total",
		Help: "Total number of failed uploads",
	})

	DownloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doc_converter_downloads_total",
		Help: "Total number of artifact download attempts",
	})

	DownloadsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doc_converter_downloads_failed_total",
		Help: "Total number of failed artifact downloads",
	})

	ConversionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doc_converter_conversions_total",
		Help: "Total number of conversion jobs started",
	})

	ConversionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doc_converter_conversions_failed_total",
		Help: "Total number of failed conversion jobs",
	})

	SessionResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doc_converter_session_resets_total",
		Help: "Total number of workflow session resets",
	})

	UploadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "doc_converter_upload_duration_seconds",
		Help:    "Upload duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	ConversionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "doc_converter_conversion_duration_seconds",
		Help:    "Conversion job duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	ArtifactBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doc_converter_artifact_bytes_total",
		Help: "Total bytes of converted artifacts served",
	})
)
