package services

import (
	"context"
	"log"
	"time"

	"calendar-event-extractor/internal/config"
	"calendar-event-extractor/internal/models"
)

// ExtractionStage names the steps of a single extraction
type ExtractionStage string

const (
	StageIdle             ExtractionStage = "idle"
	StageBuildingRequest  ExtractionStage = "building_request"
	StageAwaitingResponse ExtractionStage = "awaiting_response"
	StageParsing          ExtractionStage = "parsing"
	StageValidating       ExtractionStage = "validating"
	StageDone             ExtractionStage = "done"
	StageFailed           ExtractionStage = "failed"
)

// ExtractionService turns free text into a validated CalendarEvent using one provider call
type ExtractionService struct {
	provider  ProviderClient
	parser    *ResponseParser
	validator *EventValidator
}

// NewExtractionService selects the provider named in cfg and wires the parse/validate stages.
// An unknown LLM_SERVICE or missing provider setting fails here, before any request.
func NewExtractionService(cfg config.Config) (*ExtractionService, error) {
	provider, err := NewProviderClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewExtractionServiceWithProvider(provider, NewResponseParser(cfg.RepairJSON)), nil
}

// NewExtractionServiceWithProvider wires an explicit provider, mainly for tests and tools
func NewExtractionServiceWithProvider(provider ProviderClient, parser *ResponseParser) *ExtractionService {
	if parser == nil {
		parser = NewResponseParser(false)
	}
	return &ExtractionService{
		provider:  provider,
		parser:    parser,
		validator: NewEventValidator(),
	}
}

// ProviderName returns the name of the selected provider
func (s *ExtractionService) ProviderName() string {
	return s.provider.Name()
}

// ExtractCalendarEvent runs provider → parser → validator. Errors from any stage are
// returned unchanged; there is no retry and no fallback between providers.
func (s *ExtractionService) ExtractCalendarEvent(ctx context.Context, text string) (*models.CalendarEvent, error) {
	start := time.Now()
	stage := StageBuildingRequest

	fail := func(err error) (*models.CalendarEvent, error) {
		log.Printf("ERROR: extraction via %s %s at stage %s after %v: %v", s.provider.Name(), StageFailed, stage, time.Since(start), err)
		return nil, err
	}

	stage = StageAwaitingResponse
	raw, err := s.provider.Extract(ctx, text)
	if err != nil {
		return fail(err)
	}

	stage = StageParsing
	obj, err := s.parser.Parse(raw)
	if err != nil {
		return fail(err)
	}

	stage = StageValidating
	valid, err := s.validator.Validate(obj)
	if err != nil {
		return fail(err)
	}

	event := models.CalendarEventFromMap(valid)
	log.Printf("extraction via %s %s in %v: %q at %s", s.provider.Name(), StageDone, time.Since(start), event.Title, event.StartTime)

	return event, nil
}
