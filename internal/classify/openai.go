package classify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/akarpov/claimroute/internal/model"
	"github.com/akarpov/claimroute/internal/util"
)

// OpenAIClassifier labels claims with an OpenAI chat model
type OpenAIClassifier struct {
	client  *openai.Client
	model   string
	labels  []string
	limiter *rate.Limiter
}

// NewOpenAIClassifier creates an OpenAI-backed classifier
func NewOpenAIClassifier(cfg model.ClassifierConfig, labels []string, limiter *rate.Limiter) (*OpenAIClassifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("no claim-type labels configured")
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	return &OpenAIClassifier{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   chatModel,
		labels:  labels,
		limiter: limiter,
	}, nil
}

// Name returns the backend name
func (c *OpenAIClassifier) Name() string {
	return "openai"
}

// Classify sends the claim text for labelling
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (model.Classification, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return model.Classification{}, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   200,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You label insurance claim documents. Respond only with the requested JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(c.labels, text),
			},
		},
	})
	if err != nil {
		return model.Classification{}, fmt.Errorf("openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.Classification{}, fmt.Errorf("openai returned no choices")
	}

	label, conf, err := parseLabelResponse(resp.Choices[0].Message.Content, c.labels)
	if err != nil {
		return model.Classification{}, err
	}

	return model.Classification{
		ClaimType:  label,
		Confidence: conf,
		Priority:   PriorityFor(text),
	}, nil
}
