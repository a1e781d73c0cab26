// internal/workers/extraction/extract-transcript-data/config.go
package extracttranscriptdata

import (
	"fmt"
	"time"

	"transcript-extractor/internal/common/config"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	// DefaultStrategy applies when the job does not name one.
	DefaultStrategy string
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		MaxJobsActive:   5,
		Timeout:         30 * time.Second,
		DefaultStrategy: "lexical",
	}
}

// LoadConfig reads the worker's entry under workers and the extraction
// strategy from the application config.
func LoadConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	wc := config.GetWorkerConfig(cfg, TaskType)
	c.Enabled = wc.Enabled
	if wc.MaxJobsActive > 0 {
		c.MaxJobsActive = wc.MaxJobsActive
	}
	if wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	if cfg.Extraction.Strategy != "" {
		c.DefaultStrategy = cfg.Extraction.Strategy
	}
	return c
}

func (c *Config) Validate() error {
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
