package services

import (
	"context"
	"fmt"

	"calendar-event-extractor/internal/config"
)

// ProviderClient sends one extraction prompt to an LLM backend and returns the raw text content
type ProviderClient interface {
	Extract(ctx context.Context, text string) (string, error)
	Name() string
}

// ProviderFactory builds a ProviderClient from configuration, failing with
// *ConfigurationError when a required setting is missing
type ProviderFactory func(cfg config.Config) (ProviderClient, error)

// providerFactories maps LLM_SERVICE values to provider constructors.
// New backends register here; the extraction pipeline does not change.
var providerFactories = map[string]ProviderFactory{
	config.ServicePrimary: func(cfg config.Config) (ProviderClient, error) { return NewPrimaryProvider(cfg) },
	config.ServiceOpenAI:  func(cfg config.Config) (ProviderClient, error) { return NewPrimaryProvider(cfg) },
	config.ServiceCustom:  func(cfg config.Config) (ProviderClient, error) { return NewCustomProvider(cfg) },
}

// NewProviderClient selects and builds the provider named by cfg.LLMService
func NewProviderClient(cfg config.Config) (ProviderClient, error) {
	factory, ok := providerFactories[cfg.LLMService]
	if !ok {
		return nil, &ConfigurationError{
			Setting: "LLM_SERVICE",
			Message: fmt.Sprintf("unsupported LLM service: %s", cfg.LLMService),
		}
	}
	return factory(cfg)
}

// extractionTemperature keeps structured output close to deterministic
const extractionTemperature = 0.1

const extractionPrompt = `Extract calendar event details from the user's text and return a JSON object with the following properties:
- title: the event title
- start_time: ISO format datetime for the start of the event
- end_time: ISO format datetime for the end of the event
- location: the event location (if provided)
- description: any details about the event (if provided)
- attendees: array of attendees (if provided)

If any information is missing, make a reasonable assumption based on context or leave as null.`

// buildSystemPrompt returns the fixed extraction instruction; strictJSON appends
// an explicit JSON-only request for backends that tend to add prose
func buildSystemPrompt(strictJSON bool) string {
	if strictJSON {
		return extractionPrompt + "\nReturn only valid JSON."
	}
	return extractionPrompt
}

// chatMessage and chatRequest are the OpenAI-compatible wire body
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

func newChatRequest(model, systemPrompt, text string) chatRequest {
	return chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: extractionTemperature,
	}
}
