package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"calendar-event-extractor/internal/config"
)

// CustomProvider extracts events through a self-hosted or third-party
// OpenAI-compatible endpoint
type CustomProvider struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
}

// customResponse covers the response shapes accepted from custom endpoints
type customResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Output   *string `json:"output"`
	Response *string `json:"response"`
}

// NewCustomProvider creates the custom endpoint provider. CUSTOM_LLM_ENDPOINT is
// required; CUSTOM_LLM_API_KEY is optional.
func NewCustomProvider(cfg config.Config) (*CustomProvider, error) {
	if cfg.CustomEndpoint == "" {
		return nil, &ConfigurationError{
			Setting: "CUSTOM_LLM_ENDPOINT",
			Message: "environment variable not set",
		}
	}

	model := cfg.CustomModel
	if model == "" {
		model = config.DefaultCustomModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	return &CustomProvider{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.CustomEndpoint,
		apiKey:     cfg.CustomAPIKey,
		model:      model,
	}, nil
}

// Name identifies the provider in logs and errors
func (c *CustomProvider) Name() string {
	return config.ServiceCustom
}

// Extract posts the extraction prompt and returns the generated text
func (c *CustomProvider) Extract(ctx context.Context, text string) (string, error) {
	start := time.Now()

	payload, err := json.Marshal(newChatRequest(c.model, buildSystemPrompt(true), text))
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s request: %w", c.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &ConfigurationError{
			Setting: "CUSTOM_LLM_ENDPOINT",
			Message: fmt.Sprintf("invalid endpoint: %v", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("ERROR: %s provider request failed after %v: %v", c.Name(), time.Since(start), err)
		return "", &ProviderError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: c.Name(), StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{Provider: c.Name(), StatusCode: resp.StatusCode, Body: string(body)}
	}

	log.Printf("%s provider (%s) responded in %v", c.Name(), c.model, time.Since(start))

	return extractCustomContent(c.Name(), body)
}

// extractCustomContent reads the first choice of an OpenAI-style body, otherwise
// the top-level "output" or "response" field, otherwise empty text
func extractCustomContent(provider string, body []byte) (string, error) {
	var data customResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", &ProviderError{Provider: provider, Body: string(body), Err: fmt.Errorf("unrecognized response shape: %w", err)}
	}

	if len(data.Choices) > 0 {
		return data.Choices[0].Message.Content, nil
	}
	if data.Output != nil {
		return *data.Output, nil
	}
	if data.Response != nil {
		return *data.Response, nil
	}
	return "", nil
}
