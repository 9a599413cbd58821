package services

import (
	"fmt"

	"calendar-event-extractor/internal/models"
)

var requiredEventFields = []string{models.FieldTitle, models.FieldStartTime}

var eventTimeFields = []string{models.FieldStartTime, models.FieldEndTime}

// EventValidator gates parsed provider objects against the calendar event contract
type EventValidator struct{}

// NewEventValidator creates a validator
func NewEventValidator() *EventValidator {
	return &EventValidator{}
}

// Validate checks required fields, then every present time field. The object is
// returned unchanged on success.
func (v *EventValidator) Validate(obj map[string]interface{}) (map[string]interface{}, error) {
	for _, field := range requiredEventFields {
		if isFalsy(obj[field]) {
			return nil, &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("Missing required field: %s", field),
			}
		}
	}

	for _, field := range eventTimeFields {
		value := obj[field]
		if isFalsy(value) {
			continue
		}

		s, ok := value.(string)
		if !ok {
			return nil, &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("Invalid datetime format: %s must be a string, got %T", field, value),
			}
		}
		if _, err := models.ParseISOTime(s); err != nil {
			return nil, &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("Invalid datetime format: %v", err),
				Err:     err,
			}
		}
	}

	return obj, nil
}

// isFalsy treats null, empty strings, zero, false and empty collections as absent
func isFalsy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	default:
		return false
	}
}
