package services

import (
	"encoding/json"
	"errors"
	"log"
	"regexp"

	"github.com/kaptinlin/jsonrepair"
)

// jsonObjectPattern greedily spans the first "{" to the last "}" across newlines.
// Braces in surrounding prose can widen the span past the intended object.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ResponseParser recovers a JSON object from raw provider text
type ResponseParser struct {
	// RepairJSON enables a final jsonrepair attempt on the extracted span
	RepairJSON bool
}

// NewResponseParser creates a parser; repair is off unless explicitly enabled
func NewResponseParser(repairJSON bool) *ResponseParser {
	return &ResponseParser{RepairJSON: repairJSON}
}

// Parse decodes the full text as a JSON object, falling back to the
// first-"{"-to-last-"}" span when the text is wrapped in prose or code fences
func (p *ResponseParser) Parse(raw string) (map[string]interface{}, error) {
	if obj, err := decodeObject(raw); err == nil {
		return obj, nil
	}

	span := jsonObjectPattern.FindString(raw)
	if span == "" {
		return nil, &ParseError{Message: "response did not contain valid JSON"}
	}

	obj, err := decodeObject(span)
	if err == nil {
		return obj, nil
	}

	if p.RepairJSON {
		if repaired, repairErr := jsonrepair.JSONRepair(span); repairErr == nil {
			if obj, repairedErr := decodeObject(repaired); repairedErr == nil {
				log.Printf("WARNING: provider response needed JSON repair")
				return obj, nil
			}
		}
	}

	return nil, &ParseError{Message: "could not parse JSON from response", Err: err}
}

// decodeObject decodes text that must hold a single JSON object
func decodeObject(text string) (map[string]interface{}, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("response JSON is null")
	}
	return obj, nil
}
