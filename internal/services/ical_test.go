package services

import (
	"strings"
	"testing"

	"calendar-event-extractor/internal/models"
)

func TestEncodeICS(t *testing.T) {
	end := "2024-06-02T13:00:00+02:00"
	location := "Cafe Luna"
	description := "Catch up"
	event := &models.CalendarEvent{
		Title:       "Lunch with Sam",
		StartTime:   "2024-06-02T12:00:00+02:00",
		EndTime:     &end,
		Location:    &location,
		Description: &description,
		Attendees:   []string{"sam@example.com", "Alex"},
	}

	data, err := EncodeICS(event, "evt-1")
	if err != nil {
		t.Fatalf("EncodeICS failed: %v", err)
	}
	ics := string(data)

	expected := []string{
		"BEGIN:VCALENDAR",
		"PRODID:-//calendar-event-extractor//EN",
		"BEGIN:VEVENT",
		"UID:evt-1",
		"SUMMARY:Lunch with Sam",
		"DTSTART:20240602T100000Z",
		"DTEND:20240602T110000Z",
		"LOCATION:Cafe Luna",
		"DESCRIPTION:Catch up",
		"ATTENDEE;CN=sam@example.com:mailto:sam@example.com",
		"Attendees: Alex",
		"END:VCALENDAR",
	}
	for _, want := range expected {
		if !strings.Contains(ics, want) {
			t.Errorf("Expected ICS to contain %q, got:\n%s", want, ics)
		}
	}

	for _, unwanted := range []string{"VALUE=TEXT", "unknown@invalid", "CN=Alex"} {
		if strings.Contains(ics, unwanted) {
			t.Errorf("ICS should not contain %q, got:\n%s", unwanted, ics)
		}
	}
}

func TestEncodeICS_FloatingTimes(t *testing.T) {
	end := "2024-06-02T13:30"
	event := &models.CalendarEvent{
		Title:     "Lunch",
		StartTime: "2024-06-02T12:00",
		EndTime:   &end,
	}

	data, err := EncodeICS(event, "evt-4")
	if err != nil {
		t.Fatalf("EncodeICS failed: %v", err)
	}
	ics := string(data)

	if !strings.Contains(ics, "DTSTART:20240602T120000\r\n") {
		t.Errorf("Expected floating start without Z, got:\n%s", ics)
	}
	if !strings.Contains(ics, "DTEND:20240602T133000\r\n") {
		t.Errorf("Expected floating end without Z, got:\n%s", ics)
	}
	if strings.Contains(ics, "TZID") {
		t.Errorf("Floating times should carry no TZID, got:\n%s", ics)
	}
}

func TestEncodeICS_MinimalEvent(t *testing.T) {
	event := &models.CalendarEvent{Title: "Standup", StartTime: "2024-06-03T09:00:00Z"}

	data, err := EncodeICS(event, "evt-2")
	if err != nil {
		t.Fatalf("EncodeICS failed: %v", err)
	}
	ics := string(data)

	if strings.Contains(ics, "DTEND") || strings.Contains(ics, "LOCATION") {
		t.Errorf("Minimal event should not carry optional properties:\n%s", ics)
	}
	if !strings.Contains(ics, "DTSTART:20240603T090000Z") {
		t.Errorf("Expected UTC start, got:\n%s", ics)
	}
}

func TestEncodeICS_InvalidStart(t *testing.T) {
	event := &models.CalendarEvent{Title: "Standup", StartTime: "someday"}
	if _, err := EncodeICS(event, "evt-3"); err == nil {
		t.Error("Expected error for unparseable start time")
	}
}
