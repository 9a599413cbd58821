package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"calendar-event-extractor/internal/config"
)

// PrimaryProvider extracts events through the OpenAI chat completion API
type PrimaryProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewPrimaryProvider creates the OpenAI-backed provider. OPENAI_API_KEY is required.
func NewPrimaryProvider(cfg config.Config) (*PrimaryProvider, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, &ConfigurationError{
			Setting: "OPENAI_API_KEY",
			Message: "environment variable not set",
		}
	}

	model := cfg.OpenAIModel
	if model == "" {
		model = config.DefaultOpenAIModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: &errorBodyTransport{base: http.DefaultTransport},
	}

	return &PrimaryProvider{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: extractionTemperature,
		timeout:     timeout,
	}, nil
}

// Name identifies the provider in logs and errors
func (p *PrimaryProvider) Name() string {
	return config.ServicePrimary
}

// GetModel returns the model used for chat completions
func (p *PrimaryProvider) GetModel() string {
	return p.model
}

// GetTimeout returns the bound applied to each outbound request
func (p *PrimaryProvider) GetTimeout() time.Duration {
	return p.timeout
}

// Extract sends the extraction prompt and returns the first choice's content
func (p *PrimaryProvider) Extract(ctx context.Context, text string) (string, error) {
	start := time.Now()

	capture := &errorBodyCapture{}
	ctx = context.WithValue(ctx, errorBodyKey{}, capture)

	resp, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       p.model,
			Temperature: p.temperature,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: buildSystemPrompt(false),
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: text,
				},
			},
		},
	)
	if err != nil {
		log.Printf("ERROR: %s provider request failed after %v: %v", p.Name(), time.Since(start), err)
		return "", p.wrapError(err, capture.body)
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: p.Name(), Body: "no response choices"}
	}

	log.Printf("%s provider (%s) responded in %v, %d tokens", p.Name(), p.model, time.Since(start), resp.Usage.TotalTokens)

	return resp.Choices[0].Message.Content, nil
}

// wrapError converts go-openai errors into ProviderError. rawBody is the
// response body captured by errorBodyTransport and takes precedence over the
// message go-openai decoded, which is lost for non-OpenAI error bodies.
func (p *PrimaryProvider) wrapError(err error, rawBody string) error {
	providerErr := &ProviderError{Provider: p.Name(), Body: rawBody, Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		providerErr.StatusCode = apiErr.HTTPStatusCode
		if providerErr.Body == "" {
			providerErr.Body = apiErr.Message
		}
	case errors.As(err, &reqErr):
		providerErr.StatusCode = reqErr.HTTPStatusCode
		if providerErr.Body == "" {
			providerErr.Body = reqErr.Error()
		}
	}

	return providerErr
}

type errorBodyKey struct{}

// errorBodyCapture holds the body of a non-2xx response for one request
type errorBodyCapture struct {
	body string
}

// errorBodyTransport copies non-2xx response bodies into the request's
// errorBodyCapture and hands an identical body on to go-openai
type errorBodyTransport struct {
	base http.RoundTripper
}

func (t *errorBodyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || (resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return resp, err
	}

	capture, ok := req.Context().Value(errorBodyKey{}).(*errorBodyCapture)
	if !ok {
		return resp, nil
	}

	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	capture.body = string(data)
	resp.Body = io.NopCloser(bytes.NewReader(data))

	return resp, nil
}
