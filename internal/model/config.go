package model

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete claimroute configuration, loaded once at startup
// and passed by value into the pipeline. Nothing reads configuration after
// process start.
type Config struct {
	// Policies maps policy number to its coverage rules
	Policies map[string]Policy `yaml:"policies"`

	// ConfidenceThreshold is the minimum classification confidence below
	// which a claim is flagged for manual review
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	Routing      RoutingRules      `yaml:"routing"`
	TrainingData []TrainingSample  `yaml:"training_data"`
	Classifier   ClassifierConfig  `yaml:"classifier"`
	Cache        CacheConfig       `yaml:"cache"`
	History      HistoryConfig     `yaml:"history"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting"`
	Output       OutputConfig      `yaml:"output"`
}

// RoutingRules holds the value thresholds for the routing engine.
// stp_threshold > high_value_threshold is not rejected: rule order means
// high-value claims are claimed by the senior-adjuster rule first.
type RoutingRules struct {
	HighValueThreshold float64 `yaml:"high_value_threshold"`
	STPThreshold       float64 `yaml:"stp_threshold"`
}

// TrainingSample is one labelled example for the claim-type classifier
type TrainingSample struct {
	Description string `yaml:"description"`
	ClaimType   string `yaml:"claim_type"`
}

// ClassifierConfig selects and configures the classification backend
type ClassifierConfig struct {
	// Provider: "" or "bayes" for the built-in classifier, or "openai", "ollama"
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Timeout  int    `yaml:"timeout"` // seconds

	// Proxy settings for outbound provider requests
	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
	NoProxy    string `yaml:"no_proxy"`
}

// CacheConfig controls the extraction result cache
type CacheConfig struct {
	Enabled bool     `yaml:"enabled"`
	Dir     string   `yaml:"dir"`
	TTL     Duration `yaml:"ttl"`
}

// HistoryConfig controls the sqlite decision log
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ConcurrencyConfig controls batch processing parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// RateLimitConfig throttles outbound classifier requests
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns a starter configuration with a small sample policy
// database and training set. Used by `claimroute config init`; running the
// pipeline always requires an explicit config file.
func DefaultConfig() *Config {
	return &Config{
		Policies: map[string]Policy{
			"PN-AUTO-1001": {
				Coverage:   []string{"collision", "theft"},
				Exclusions: []string{"racing", "off-road"},
			},
			"PN-HOME-2002": {
				Coverage:   []string{"fire", "water damage"},
				Exclusions: []string{"flood", "war"},
			},
		},
		ConfidenceThreshold: 0.6,
		Routing: RoutingRules{
			HighValueThreshold: 10000,
			STPThreshold:       1000,
		},
		TrainingData: []TrainingSample{
			{Description: "vehicle collision on the highway, bumper damage", ClaimType: "collision"},
			{Description: "car was stolen from the parking lot overnight", ClaimType: "theft"},
			{Description: "kitchen fire caused smoke damage to the ceiling", ClaimType: "fire"},
			{Description: "burst pipe flooded the basement with water", ClaimType: "water damage"},
		},
		Classifier: ClassifierConfig{
			Provider: "",
			Timeout:  30,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCacheDir(),
			TTL:     Duration(24 * time.Hour),
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    defaultHistoryPath(),
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".claimroute-cache"
	}
	return home + "/.claimroute/cache"
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "claimroute-history.db"
	}
	return home + "/.claimroute/history.db"
}

// LoadConfig reads and validates a configuration file. Any missing or
// malformed piece is an error: the process refuses to start rather than run
// with partial rules.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	// Start from an empty rule set so nothing from the samples leaks into a
	// real deployment; only ambient defaults carry over.
	cfg.Policies = nil
	cfg.TrainingData = nil

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the configuration is complete enough to run
func (c *Config) Validate() error {
	if len(c.Policies) == 0 {
		return fmt.Errorf("policies: at least one policy is required")
	}
	for id, p := range c.Policies {
		if len(p.Coverage) == 0 {
			return fmt.Errorf("policy %s: empty coverage set", id)
		}
	}

	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold: must be in [0,1], got %v", c.ConfidenceThreshold)
	}
	if c.Routing.HighValueThreshold < 0 {
		return fmt.Errorf("routing.high_value_threshold: must be non-negative, got %v", c.Routing.HighValueThreshold)
	}
	if c.Routing.STPThreshold < 0 {
		return fmt.Errorf("routing.stp_threshold: must be non-negative, got %v", c.Routing.STPThreshold)
	}

	if len(c.TrainingData) < 2 {
		return fmt.Errorf("training_data: at least 2 samples are required, got %d", len(c.TrainingData))
	}
	for i, s := range c.TrainingData {
		if s.Description == "" || s.ClaimType == "" {
			return fmt.Errorf("training_data[%d]: description and claim_type are required", i)
		}
	}

	switch c.Classifier.Provider {
	case "", "bayes", "openai", "ollama":
	default:
		return fmt.Errorf("classifier.provider: unknown provider %q (supported: bayes, openai, ollama)", c.Classifier.Provider)
	}

	return nil
}

// Labels returns the distinct claim-type labels present in the training data,
// in first-seen order
func (c *Config) Labels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, s := range c.TrainingData {
		if !seen[s.ClaimType] {
			seen[s.ClaimType] = true
			labels = append(labels, s.ClaimType)
		}
	}
	return labels
}
