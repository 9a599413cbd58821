package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"calendar-event-extractor/internal/models"
)

const icalProductID = "-//calendar-event-extractor//EN"

// EncodeICS renders an extracted event as a single-VEVENT iCalendar document
func EncodeICS(event *models.CalendarEvent, uid string) ([]byte, error) {
	vevent, err := toICal(event, uid)
	if err != nil {
		return nil, err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icalProductID)
	cal.Children = append(cal.Children, vevent)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode event to iCal format: %w", err)
	}
	return buf.Bytes(), nil
}

// toICal converts a CalendarEvent to a VEVENT component
func toICal(event *models.CalendarEvent, uid string) (*ical.Component, error) {
	start, err := event.ParseStart()
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, uid)
	ve.Props.SetText(ical.PropSummary, event.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	setEventTime(ve, ical.PropDateTimeStart, start, event.StartTime)

	if event.HasEndTime() {
		end, err := event.ParseEnd()
		if err != nil {
			return nil, fmt.Errorf("invalid end time: %w", err)
		}
		setEventTime(ve, ical.PropDateTimeEnd, end, *event.EndTime)
	}
	if event.Location != nil && *event.Location != "" {
		ve.Props.SetText(ical.PropLocation, *event.Location)
	}

	// ATTENDEE is a CAL-ADDRESS, so only email-like names get one; the rest
	// are listed in the description
	var description []string
	if event.Description != nil && *event.Description != "" {
		description = append(description, *event.Description)
	}
	var unaddressed []string
	for _, attendee := range event.Attendees {
		if !strings.Contains(attendee, "@") {
			unaddressed = append(unaddressed, attendee)
			continue
		}
		p := ical.NewProp(ical.PropAttendee)
		p.Params.Set(ical.ParamCommonName, attendee)
		p.Value = "mailto:" + attendee
		ve.Props.Add(p)
	}
	if len(unaddressed) > 0 {
		description = append(description, "Attendees: "+strings.Join(unaddressed, ", "))
	}
	if len(description) > 0 {
		ve.Props.SetText(ical.PropDescription, strings.Join(description, "\n\n"))
	}

	return ve, nil
}

// setEventTime writes t in UTC, or as a floating local DATE-TIME when raw
// carried no offset
func setEventTime(ve *ical.Component, name string, t time.Time, raw string) {
	if !models.IsFloatingISOTime(raw) {
		ve.Props.SetDateTime(name, t.UTC())
		return
	}
	p := ical.NewProp(name)
	p.Value = t.Format("20060102T150405")
	ve.Props.Set(p)
}
