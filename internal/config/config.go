package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Provider selector values for LLM_SERVICE
const (
	ServicePrimary = "primary"
	ServiceOpenAI  = "openai" // alias of primary
	ServiceCustom  = "custom"
)

// Defaults applied when the environment leaves a setting empty
const (
	DefaultOpenAIModel   = "gpt-4"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultCustomModel   = "default"
	DefaultTimeout       = 25 * time.Second
	DefaultEventsTable   = "CalendarEvents"
)

// Config holds everything the extraction pipeline and its collaborators need.
// It is loaded once at process start and passed to constructors.
type Config struct {
	LLMService string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	CustomEndpoint string
	CustomAPIKey   string
	CustomModel    string

	Timeout    time.Duration
	RepairJSON bool

	EventsTable   string
	ArchiveBucket string
}

// Load reads the configuration from environment variables
func Load() Config {
	cfg := Config{
		LLMService:     getEnv("LLM_SERVICE", ServicePrimary),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("OPENAI_MODEL", DefaultOpenAIModel),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", DefaultOpenAIBaseURL),
		CustomEndpoint: os.Getenv("CUSTOM_LLM_ENDPOINT"),
		CustomAPIKey:   os.Getenv("CUSTOM_LLM_API_KEY"),
		CustomModel:    getEnv("CUSTOM_LLM_MODEL", DefaultCustomModel),
		Timeout:        DefaultTimeout,
		EventsTable:    getEnv("CALENDAR_EVENTS_TABLE", DefaultEventsTable),
		ArchiveBucket:  os.Getenv("EVENT_ARCHIVE_BUCKET"),
	}

	if raw := os.Getenv("LLM_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			log.Printf("WARNING: ignoring invalid LLM_TIMEOUT_SECONDS %q, using %v", raw, DefaultTimeout)
		} else {
			cfg.Timeout = time.Duration(seconds) * time.Second
		}
	}

	if raw := os.Getenv("LLM_REPAIR_JSON"); raw != "" {
		repair, err := strconv.ParseBool(raw)
		if err != nil {
			log.Printf("WARNING: ignoring invalid LLM_REPAIR_JSON %q", raw)
		} else {
			cfg.RepairJSON = repair
		}
	}

	return cfg
}

// ArchiveEnabled reports whether extracted events are also written to S3
func (c Config) ArchiveEnabled() bool {
	return c.ArchiveBucket != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
