package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/akarpov/claimroute/internal/model"
	"github.com/akarpov/claimroute/internal/util"
)

// OllamaClassifier labels claims with a local Ollama model
type OllamaClassifier struct {
	baseURL    string
	model      string
	labels     []string
	limiter    *rate.Limiter
	httpClient *http.Client
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaClassifier creates an Ollama-backed classifier
func NewOllamaClassifier(cfg model.ClassifierConfig, labels []string, limiter *rate.Limiter) (*OllamaClassifier, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no claim-type labels configured")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // local models can be slow to load
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = "llama3.2"
	}

	return &OllamaClassifier{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   chatModel,
		labels:  labels,
		limiter: limiter,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
	}, nil
}

// Name returns the backend name
func (c *OllamaClassifier) Name() string {
	return "ollama"
}

// Classify sends the claim text to the local model for labelling
func (c *OllamaClassifier) Classify(ctx context.Context, text string) (model.Classification, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return model.Classification{}, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqBody, err := json.Marshal(ollamaRequest{
		Model:  c.model,
		Prompt: buildPrompt(c.labels, text),
		System: "You label insurance claim documents. Respond only with the requested JSON.",
		Stream: false,
		Options: ollamaOptions{
			Temperature: 0,
			NumPredict:  200,
		},
	})
	if err != nil {
		return model.Classification{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return model.Classification{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Classification{}, fmt.Errorf("ollama request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return model.Classification{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return model.Classification{}, fmt.Errorf("ollama: %s", apiErr.Error)
		}
		return model.Classification{}, fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	var genResp ollamaResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return model.Classification{}, fmt.Errorf("parse response: %w", err)
	}

	label, conf, err := parseLabelResponse(genResp.Response, c.labels)
	if err != nil {
		return model.Classification{}, err
	}

	return model.Classification{
		ClaimType:  label,
		Confidence: conf,
		Priority:   PriorityFor(text),
	}, nil
}
