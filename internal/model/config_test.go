package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalConfig = `
policies:
  PN-AUTO-1001:
    coverage: [collision, theft]
    exclusions: [racing]
confidence_threshold: 0.7
routing:
  high_value_threshold: 20000
  stp_threshold: 500
training_data:
  - description: vehicle collision on the highway
    claim_type: collision
  - description: car stolen from the driveway
    claim_type: theft
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(cfg.Policies) != 1 {
		t.Errorf("expected 1 policy, got %d", len(cfg.Policies))
	}
	p := cfg.Policies["PN-AUTO-1001"]
	if len(p.Coverage) != 2 || p.Coverage[0] != "collision" {
		t.Errorf("unexpected coverage: %v", p.Coverage)
	}
	if cfg.ConfidenceThreshold != 0.7 {
		t.Errorf("expected threshold 0.7, got %v", cfg.ConfidenceThreshold)
	}
	if cfg.Routing.HighValueThreshold != 20000 || cfg.Routing.STPThreshold != 500 {
		t.Errorf("unexpected routing rules: %+v", cfg.Routing)
	}
	if len(cfg.TrainingData) != 2 {
		t.Errorf("expected 2 training samples, got %d", len(cfg.TrainingData))
	}

	// Ambient defaults still apply when the file is silent on them
	if cfg.Concurrency.Workers != 4 {
		t.Errorf("expected default worker count, got %d", cfg.Concurrency.Workers)
	}
	if !cfg.Cache.Enabled {
		t.Error("expected cache enabled by default")
	}
}

func TestLoadConfig_SamplesDoNotLeak(t *testing.T) {
	// A config file must fully replace the sample policies and training data,
	// not merge with them
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := cfg.Policies["PN-HOME-2002"]; ok {
		t.Error("sample policy leaked into loaded config")
	}
	for _, s := range cfg.TrainingData {
		if strings.Contains(s.Description, "kitchen fire") {
			t.Error("sample training data leaked into loaded config")
		}
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "policies: [not, a, map]")); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadConfig(writeConfig(t, minimalConfig))
		if err != nil {
			t.Fatalf("load base config: %v", err)
		}
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no policies", func(c *Config) { c.Policies = nil }},
		{"empty coverage", func(c *Config) {
			c.Policies["PN-AUTO-1001"] = Policy{Exclusions: []string{"racing"}}
		}},
		{"threshold below range", func(c *Config) { c.ConfidenceThreshold = -0.1 }},
		{"threshold above range", func(c *Config) { c.ConfidenceThreshold = 1.1 }},
		{"negative high value", func(c *Config) { c.Routing.HighValueThreshold = -1 }},
		{"negative stp", func(c *Config) { c.Routing.STPThreshold = -1 }},
		{"too few samples", func(c *Config) { c.TrainingData = c.TrainingData[:1] }},
		{"sample without label", func(c *Config) {
			c.TrainingData[0].ClaimType = ""
		}},
		{"unknown provider", func(c *Config) { c.Classifier.Provider = "watson" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfig_Labels(t *testing.T) {
	cfg := &Config{
		TrainingData: []TrainingSample{
			{Description: "a", ClaimType: "collision"},
			{Description: "b", ClaimType: "theft"},
			{Description: "c", ClaimType: "collision"},
			{Description: "d", ClaimType: "fire"},
		},
	}

	want := []string{"collision", "theft", "fire"}
	got := cfg.Labels()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestDuration_Unmarshal(t *testing.T) {
	content := minimalConfig + `
cache:
  enabled: true
  ttl: 36h
`
	cfg, err := LoadConfig(writeConfig(t, content))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if time.Duration(cfg.Cache.TTL) != 36*time.Hour {
		t.Errorf("expected 36h, got %v", time.Duration(cfg.Cache.TTL))
	}
}

func TestDuration_UnmarshalSeconds(t *testing.T) {
	content := minimalConfig + `
cache:
  enabled: true
  ttl: 90
`
	cfg, err := LoadConfig(writeConfig(t, content))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// A bare integer is read as seconds
	if time.Duration(cfg.Cache.TTL) != 90*time.Second {
		t.Errorf("expected 90s, got %v", time.Duration(cfg.Cache.TTL))
	}
}

func TestDuration_Invalid(t *testing.T) {
	content := minimalConfig + `
cache:
  ttl: soon
`
	if _, err := LoadConfig(writeConfig(t, content)); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}
