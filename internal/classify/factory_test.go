package classify

import (
	"strings"
	"testing"

	"github.com/akarpov/claimroute/internal/model"
)

func factoryConfig(provider string) *model.Config {
	cfg := model.DefaultConfig()
	cfg.Classifier.Provider = provider
	cfg.Classifier.APIKey = "test-key"
	return cfg
}

func TestNew_DefaultIsBayes(t *testing.T) {
	for _, provider := range []string{"", "bayes", "Bayes"} {
		c, err := New(factoryConfig(provider))
		if err != nil {
			t.Fatalf("provider %q: %v", provider, err)
		}
		if c.Name() != "bayes" {
			t.Errorf("provider %q: expected bayes backend, got %s", provider, c.Name())
		}
	}
}

func TestNew_OpenAI(t *testing.T) {
	c, err := New(factoryConfig("openai"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Name() != "openai" {
		t.Errorf("expected openai backend, got %s", c.Name())
	}
}

func TestNew_Ollama(t *testing.T) {
	c, err := New(factoryConfig("ollama"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Name() != "ollama" {
		t.Errorf("expected ollama backend, got %s", c.Name())
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(factoryConfig("watson"))
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "watson") {
		t.Errorf("expected provider name in error, got %v", err)
	}
}

func TestNewLimiter_Defaults(t *testing.T) {
	l := newLimiter(model.RateLimitConfig{})
	if l == nil {
		t.Fatal("expected a limiter")
	}
	if float64(l.Limit()) != 2 {
		t.Errorf("expected default 2 rps, got %v", l.Limit())
	}
	if l.Burst() != 5 {
		t.Errorf("expected default burst 5, got %d", l.Burst())
	}

	l = newLimiter(model.RateLimitConfig{RequestsPerSecond: 10, BurstSize: 20})
	if float64(l.Limit()) != 10 || l.Burst() != 20 {
		t.Errorf("expected configured limits, got %v/%d", l.Limit(), l.Burst())
	}
}
