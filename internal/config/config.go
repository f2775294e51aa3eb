// YAML config loader with CUE validation integration
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoTargetURL is returned when neither the config file nor the URL
// environment variable provides a target endpoint.
var ErrNoTargetURL = errors.New("no target URL configured (set target_url or the URL env var)")

// SweepConfig is the root configuration for one adaptive sweep.
//
// Step and Pause default to the values the search was originally tuned
// with (+1 VU, 5s between rounds). Changing Step changes the reported
// best stable concurrency, not just the runtime cost: treat it as a
// behavior change.
type SweepConfig struct {
	TargetURL      string  `yaml:"target_url"`
	FaultLevelsMS  []int   `yaml:"fault_levels_ms"`
	MaxConcurrency int     `yaml:"max_concurrency"`
	P95SLOMS       float64 `yaml:"p95_slo_ms"`
	ErrorSLO       float64 `yaml:"error_slo"`
	Duration       string  `yaml:"duration"`
	Pause          string  `yaml:"pause"`
	Step           int     `yaml:"step"`
	ResultsDir     string  `yaml:"results_dir"`
	Script         string  `yaml:"script"`
	K6Binary       string  `yaml:"k6_binary"`
}

// Defaults mirroring the original controller policy.
const (
	DefaultMaxConcurrency = 10
	DefaultP95SLOMS       = 1000.0
	DefaultErrorSLO       = 0.05
	DefaultDuration       = "90s"
	DefaultPause          = "5s"
	DefaultStep           = 1
	DefaultResultsDir     = "results/raw"
	DefaultScript         = "scripts/load.js"
	DefaultK6Binary       = "k6"
)

var defaultFaultLevelsMS = []int{300, 1200, 5000, 10000}

// Load loads YAML config, validates it against a CUE schema, and applies
// environment overrides and defaults.
func Load(configPath, cueSchemaPath string) (*SweepConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg SweepConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *SweepConfig) applyDefaults() {
	if env := os.Getenv("URL"); env != "" {
		c.TargetURL = env
	}
	if len(c.FaultLevelsMS) == 0 {
		c.FaultLevelsMS = append([]int(nil), defaultFaultLevelsMS...)
	}
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = DefaultMaxConcurrency
	}
	if c.P95SLOMS == 0 {
		c.P95SLOMS = DefaultP95SLOMS
	}
	if c.ErrorSLO == 0 {
		c.ErrorSLO = DefaultErrorSLO
	}
	if c.Duration == "" {
		c.Duration = DefaultDuration
	}
	if c.Pause == "" {
		c.Pause = DefaultPause
	}
	if c.Step == 0 {
		c.Step = DefaultStep
	}
	if c.ResultsDir == "" {
		c.ResultsDir = DefaultResultsDir
	}
	if c.Script == "" {
		c.Script = DefaultScript
	}
	if c.K6Binary == "" {
		c.K6Binary = DefaultK6Binary
	}
}

// Validate checks the startup invariants the CUE schema cannot see, such
// as env-provided values.
func (c *SweepConfig) Validate() error {
	if c.TargetURL == "" {
		return ErrNoTargetURL
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be >= 1, got %d", c.MaxConcurrency)
	}
	if c.Step < 1 {
		return fmt.Errorf("step must be >= 1, got %d", c.Step)
	}
	if c.ErrorSLO < 0 || c.ErrorSLO > 1 {
		return fmt.Errorf("error_slo must be in [0,1], got %g", c.ErrorSLO)
	}
	if _, err := time.ParseDuration(c.Pause); err != nil {
		return fmt.Errorf("invalid pause: %w", err)
	}
	return nil
}

// PauseInterval returns the inter-round pause as a duration. Validate
// guarantees the value parses.
func (c *SweepConfig) PauseInterval() time.Duration {
	d, _ := time.ParseDuration(c.Pause)
	return d
}
