package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration settings, shared by the
// conversion client and the local converter server.
type Config struct {
	Environment string `envconfig:"ENV" default:"development"`

	ServerURL   string        `envconfig:"SERVER_URL" default:"http://localhost:8080"`
	HTTPPort    int           `envconfig:"HTTP_PORT" default:"8080"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`

	MaxFileSize       int64    `envconfig:"MAX_FILE_SIZE" default:"10485760"`
	AllowedExtensions []string `envconfig:"ALLOWED_EXTENSIONS" default:".doc,.docx"`
	ArtifactExtension string   `envconfig:"ARTIFACT_EXTENSION" default:".pdf"`

	UploadTimeout time.Duration `envconfig:"UPLOAD_TIMEOUT" default:"1m"`
	FetchTimeout  time.Duration `envconfig:"FETCH_TIMEOUT" default:"1m"`

	SettleDelay      time.Duration `envconfig:"SETTLE_DELAY" default:"1s"`
	ProgressMode     string        `envconfig:"PROGRESS_MODE" default:"ticker"`
	ProgressStep     int           `envconfig:"PROGRESS_STEP" default:"5"`
	ProgressInterval time.Duration `envconfig:"PROGRESS_INTERVAL" default:"300ms"`

	StoreDir         string        `envconfig:"STORE_DIR" default:"./store"`
	OutputDir        string        `envconfig:"OUTPUT_DIR" default:"./downloads"`
	ConvertWorkers   int           `envconfig:"CONVERT_WORKERS" default:"4"`
	ConvertStepDelay time.Duration `envconfig:"CONVERT_STEP_DELAY" default:"200ms"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Validate checks the configuration for invalid or missing values.
// Returns an error describing the first invalid setting found.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.ServerURL == "" {
		return fmt.Errorf("server URL cannot be empty")
	}

	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive: %d", c.MaxFileSize)
	}

	if len(c.AllowedExtensions) == 0 {
		return fmt.Errorf("allowed extensions cannot be empty")
	}
	for _, ext := range c.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension must start with a dot: %q", ext)
		}
	}
	if !strings.HasPrefix(c.ArtifactExtension, ".") {
		return fmt.Errorf("artifact extension must start with a dot: %q", c.ArtifactExtension)
	}

	if c.ProgressMode != "ticker" && c.ProgressMode != "server" {
		return fmt.Errorf("progress mode must be \"ticker\" or \"server\": %q", c.ProgressMode)
	}
	if c.ProgressStep <= 0 || c.ProgressStep > 100 {
		return fmt.Errorf("progress step must be in (0,100]: %d", c.ProgressStep)
	}
	if c.ProgressInterval <= 0 {
		return fmt.Errorf("progress interval must be positive: %s", c.ProgressInterval)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative: %s", c.SettleDelay)
	}

	if c.ConvertWorkers <= 0 {
		return fmt.Errorf("convert workers must be positive: %d", c.ConvertWorkers)
	}

	if c.StoreDir == "" {
		return fmt.Errorf("store directory cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}

	return nil
}
