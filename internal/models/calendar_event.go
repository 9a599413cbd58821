package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field names used in provider output, validation and persisted items
const (
	FieldTitle       = "title"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldLocation    = "location"
	FieldDescription = "description"
	FieldAttendees   = "attendees"
)

// AnonymousUserID is used when a request carries no userId
const AnonymousUserID = "anonymous"

// CalendarEvent is the structured event extracted from free-form text.
// Optional fields are nil when the provider returned null or omitted them.
type CalendarEvent struct {
	Title       string   `json:"title" dynamodbav:"title"`
	StartTime   string   `json:"start_time" dynamodbav:"start_time"`
	EndTime     *string  `json:"end_time" dynamodbav:"end_time,omitempty"`
	Location    *string  `json:"location" dynamodbav:"location,omitempty"`
	Description *string  `json:"description" dynamodbav:"description,omitempty"`
	Attendees   []string `json:"attendees" dynamodbav:"attendees,omitempty"`
}

// CalendarEventFromMap converts a validated provider object into a CalendarEvent.
// Non-string scalar values are rendered with fmt; null values stay nil.
func CalendarEventFromMap(obj map[string]interface{}) *CalendarEvent {
	event := &CalendarEvent{
		Title:       stringValue(obj[FieldTitle]),
		StartTime:   stringValue(obj[FieldStartTime]),
		EndTime:     optionalString(obj[FieldEndTime]),
		Location:    optionalString(obj[FieldLocation]),
		Description: optionalString(obj[FieldDescription]),
	}

	switch attendees := obj[FieldAttendees].(type) {
	case []interface{}:
		event.Attendees = make([]string, 0, len(attendees))
		for _, a := range attendees {
			if a == nil {
				continue
			}
			event.Attendees = append(event.Attendees, stringValue(a))
		}
	case string:
		if attendees != "" {
			event.Attendees = []string{attendees}
		}
	}

	return event
}

// HasEndTime reports whether the event carries a non-empty end time
func (e *CalendarEvent) HasEndTime() bool {
	return e.EndTime != nil && *e.EndTime != ""
}

// ParseStart parses StartTime using the accepted ISO-8601 layouts
func (e *CalendarEvent) ParseStart() (time.Time, error) {
	return ParseISOTime(e.StartTime)
}

// ParseEnd parses EndTime; it returns the zero time when no end time is set
func (e *CalendarEvent) ParseEnd() (time.Time, error) {
	if !e.HasEndTime() {
		return time.Time{}, nil
	}
	return ParseISOTime(*e.EndTime)
}

// EventRecord is the item persisted for every successful extraction
type EventRecord struct {
	UserID        string        `json:"user_id" dynamodbav:"UserId"`
	EventID       string        `json:"event_id" dynamodbav:"EventId"`
	InputText     string        `json:"input_text" dynamodbav:"InputText"`
	CalendarEvent CalendarEvent `json:"calendar_event" dynamodbav:"CalendarEvent"`
	RequestTime   string        `json:"request_time" dynamodbav:"RequestTime"`
	StartTime     string        `json:"start_time" dynamodbav:"StartTime"`

	// Top-level copies of the non-empty event fields
	Title       string   `json:"-" dynamodbav:"title,omitempty"`
	EndTime     string   `json:"-" dynamodbav:"end_time,omitempty"`
	Location    string   `json:"-" dynamodbav:"location,omitempty"`
	Description string   `json:"-" dynamodbav:"description,omitempty"`
	Attendees   []string `json:"-" dynamodbav:"attendees,omitempty"`
}

// NewEventRecord builds the persisted record for an extracted event
func NewEventRecord(userID, eventID, inputText string, event *CalendarEvent, requestTime time.Time) *EventRecord {
	if strings.TrimSpace(userID) == "" {
		userID = AnonymousUserID
	}

	record := &EventRecord{
		UserID:        userID,
		EventID:       eventID,
		InputText:     inputText,
		CalendarEvent: *event,
		RequestTime:   FormatRequestTime(requestTime),
		StartTime:     event.StartTime,
		Title:         event.Title,
	}

	if event.EndTime != nil {
		record.EndTime = *event.EndTime
	}
	if event.Location != nil {
		record.Location = *event.Location
	}
	if event.Description != nil {
		record.Description = *event.Description
	}
	if len(event.Attendees) > 0 {
		record.Attendees = event.Attendees
	}

	return record
}

// Validate checks the record before it is written
func (r *EventRecord) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	if r.EventID == "" {
		return fmt.Errorf("event ID is required")
	}
	if r.InputText == "" {
		return fmt.Errorf("input text is required")
	}
	if r.RequestTime == "" {
		return fmt.Errorf("request time is required")
	}
	return nil
}

// GenerateEventID creates a new random event identifier
func GenerateEventID() string {
	return uuid.New().String()
}

// FormatRequestTime renders a request timestamp as UTC ISO-8601 with microseconds
func FormatRequestTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000")
}

// CreateArchiveKey returns the S3 key prefix for an archived record
func CreateArchiveKey(userID, eventID, ext string) string {
	return fmt.Sprintf("events/%s/%s.%s", userID, eventID, ext)
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}

func optionalString(v interface{}) *string {
	if v == nil {
		return nil
	}
	s := stringValue(v)
	return &s
}
