package models

import (
	"strings"
	"testing"
	"time"
)

func TestCalendarEventFromMap(t *testing.T) {
	obj := map[string]interface{}{
		"title":       "Lunch with Sam",
		"start_time":  "2024-06-02T12:00:00Z",
		"end_time":    nil,
		"location":    "Cafe Luna",
		"description": "Catch up",
		"attendees":   []interface{}{"Sam", nil, "Alex"},
	}

	event := CalendarEventFromMap(obj)

	if event.Title != "Lunch with Sam" {
		t.Errorf("Expected title 'Lunch with Sam', got %q", event.Title)
	}
	if event.StartTime != "2024-06-02T12:00:00Z" {
		t.Errorf("Expected start time to be preserved, got %q", event.StartTime)
	}
	if event.EndTime != nil {
		t.Errorf("Expected nil end time, got %q", *event.EndTime)
	}
	if event.Location == nil || *event.Location != "Cafe Luna" {
		t.Errorf("Expected location 'Cafe Luna', got %v", event.Location)
	}
	if event.Description == nil || *event.Description != "Catch up" {
		t.Errorf("Expected description 'Catch up', got %v", event.Description)
	}
	if len(event.Attendees) != 2 || event.Attendees[0] != "Sam" || event.Attendees[1] != "Alex" {
		t.Errorf("Expected attendees [Sam Alex], got %v", event.Attendees)
	}
}

func TestCalendarEventFromMap_LooseTypes(t *testing.T) {
	event := CalendarEventFromMap(map[string]interface{}{
		"title":      float64(42),
		"start_time": "2024-06-02",
		"attendees":  "Sam",
	})

	if event.Title != "42" {
		t.Errorf("Expected numeric title rendered as '42', got %q", event.Title)
	}
	if len(event.Attendees) != 1 || event.Attendees[0] != "Sam" {
		t.Errorf("Expected single attendee from string, got %v", event.Attendees)
	}
	if event.Location != nil {
		t.Error("Missing location should stay nil")
	}
}

func TestParseISOTime(t *testing.T) {
	tests := []struct {
		input     string
		expectErr bool
		expected  time.Time
	}{
		{input: "2024-06-02T12:00:00Z", expected: time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)},
		{input: "2024-06-02T12:00:00+00:00", expected: time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)},
		{input: "2024-06-02T14:00:00+02:00", expected: time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)},
		{input: "2024-06-02T12:00:00.123456", expected: time.Date(2024, 6, 2, 12, 0, 0, 123456000, time.UTC)},
		{input: "2024-06-02T12:00", expected: time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)},
		{input: "2024-06-02 12:00:00", expected: time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)},
		{input: "2024-06-02", expected: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)},
		{input: "2024-06-02T14:00:00+0200", expected: time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)},
		{input: "2024-13-40", expectErr: true},
		{input: "2024-06-02T9:00", expectErr: true},
		{input: " 2024-06-02T09:00 ", expectErr: true},
		{input: "2024-06-02T09:00:00Zjunk", expectErr: true},
		{input: "2024-6-2", expectErr: true},
		{input: "tomorrow at noon", expectErr: true},
		{input: "", expectErr: true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := ParseISOTime(test.input)
			if test.expectErr {
				if err == nil {
					t.Errorf("Expected error for %q, got %v", test.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for %q: %v", test.input, err)
			}
			if !got.Equal(test.expected) {
				t.Errorf("Expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestIsFloatingISOTime(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{input: "2024-06-02T12:00", expected: true},
		{input: "2024-06-02 12:00:00.5", expected: true},
		{input: "2024-06-02", expected: true},
		{input: "2024-06-02T12:00:00Z", expected: false},
		{input: "2024-06-02T12:00:00+02:00", expected: false},
		{input: "2024-06-02T12:00-0700", expected: false},
		{input: "not a time", expected: false},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if got := IsFloatingISOTime(test.input); got != test.expected {
				t.Errorf("Expected %v for %q, got %v", test.expected, test.input, got)
			}
		})
	}
}

func TestParseISOTime_ErrorMessage(t *testing.T) {
	_, err := ParseISOTime("2024-13-40")
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "2024-13-40") {
		t.Errorf("Error should name the offending value, got: %v", err)
	}
}

func TestNewEventRecord(t *testing.T) {
	end := "2024-06-02T13:00:00Z"
	location := "Cafe Luna"
	empty := ""
	event := &CalendarEvent{
		Title:       "Lunch with Sam",
		StartTime:   "2024-06-02T12:00:00Z",
		EndTime:     &end,
		Location:    &location,
		Description: &empty,
		Attendees:   []string{"Sam"},
	}
	requestTime := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

	record := NewEventRecord("", "evt-1", "Lunch with Sam tomorrow", event, requestTime)

	if record.UserID != AnonymousUserID {
		t.Errorf("Expected anonymous user, got %q", record.UserID)
	}
	if record.StartTime != event.StartTime {
		t.Errorf("Expected StartTime copy %q, got %q", event.StartTime, record.StartTime)
	}
	if record.RequestTime != "2024-06-01T09:30:00.000000" {
		t.Errorf("Unexpected request time format: %q", record.RequestTime)
	}
	if record.EndTime != end || record.Location != location || record.Title != event.Title {
		t.Errorf("Optional fields not copied: %+v", record)
	}
	if record.Description != "" {
		t.Errorf("Empty description should stay empty, got %q", record.Description)
	}
	if err := record.Validate(); err != nil {
		t.Errorf("Expected valid record, got: %v", err)
	}
}

func TestEventRecord_Validate(t *testing.T) {
	tests := []struct {
		name        string
		record      EventRecord
		expectError bool
	}{
		{
			name:   "Valid record",
			record: EventRecord{UserID: "u", EventID: "e", InputText: "text", RequestTime: "now"},
		},
		{
			name:        "Missing user",
			record:      EventRecord{EventID: "e", InputText: "text", RequestTime: "now"},
			expectError: true,
		},
		{
			name:        "Missing event ID",
			record:      EventRecord{UserID: "u", InputText: "text", RequestTime: "now"},
			expectError: true,
		},
		{
			name:        "Missing input text",
			record:      EventRecord{UserID: "u", EventID: "e", RequestTime: "now"},
			expectError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.record.Validate()
			if test.expectError && err == nil {
				t.Error("Expected validation error but got none")
			}
			if !test.expectError && err != nil {
				t.Errorf("Expected no validation error but got: %v", err)
			}
		})
	}
}

func TestGenerateEventID(t *testing.T) {
	a := GenerateEventID()
	b := GenerateEventID()
	if a == "" || a == b {
		t.Errorf("Expected unique non-empty IDs, got %q and %q", a, b)
	}
	if len(a) != 36 {
		t.Errorf("Expected UUID string length 36, got %d", len(a))
	}
}

func TestCreateArchiveKey(t *testing.T) {
	key := CreateArchiveKey("user-1", "evt-1", "ics")
	if key != "events/user-1/evt-1.ics" {
		t.Errorf("Unexpected archive key: %s", key)
	}
}
