package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sharanry/legal-assistant/config"
)

// Completer sends one prompt to a text-completion endpoint and returns the
// raw model text. Parsing the text is the caller's concern.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ModelClient talks to an OpenAI-compatible chat/completions endpoint.
type ModelClient struct {
	client   *resty.Client
	endpoint string
	model    string
	temp     float64
}

// OpenAI-compatible chat completion request/response structures
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func NewModelClient(cfg *config.ModelConfig) *ModelClient {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	// The completion endpoint sits behind an unreliable network boundary;
	// retry transient failures a bounded number of times with backoff.
	client.SetRetryCount(cfg.MaxRetries)
	client.SetRetryWaitTime(500 * time.Millisecond)
	client.SetRetryMaxWaitTime(5 * time.Second)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return r.StatusCode() == 429 || r.StatusCode() >= 500
	})

	return &ModelClient{
		client:   client,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		model:    cfg.Model,
		temp:     cfg.Temperature,
	}
}

// Complete sends the prompt and returns the raw message content.
func (c *ModelClient) Complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Temperature: c.temp,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	var result chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post(c.endpoint)
	if err != nil {
		return "", &ModelUnavailableError{Reason: "request failed", Err: err}
	}

	if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
		return "", &ModelUnavailableError{
			Reason: fmt.Sprintf("authentication rejected (status %d)", resp.StatusCode()),
		}
	}
	if resp.IsError() {
		return "", &ModelUnavailableError{
			Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode()),
		}
	}

	if result.Error != nil {
		return "", &ModelUnavailableError{
			Reason: fmt.Sprintf("provider error: %s", result.Error.Message),
		}
	}
	if len(result.Choices) == 0 {
		return "", &ModelUnavailableError{Reason: "no choices in response"}
	}

	return result.Choices[0].Message.Content, nil
}
