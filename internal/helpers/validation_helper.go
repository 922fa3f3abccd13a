package helpers

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ValidationError is the structured result of a failed payload check.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

var eventTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseEventTime accepts the timestamp shapes the frontend sends: RFC 3339
// or an ISO local time down to second or minute precision.
func ParseEventTime(value string) (time.Time, error) {
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", value)
}

var requiredEventFields = []string{"title", "description", "startTime", "endTime", "location"}

// ValidateEventData checks a loosely-typed event payload: required fields
// present, times parseable and ordered, location carrying both coordinates.
// Pure check; returns nil when the payload is valid.
func ValidateEventData(eventData map[string]any) *ValidationError {
	var missing []string
	for _, field := range requiredEventFields {
		if _, ok := eventData[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return newValidationError("Missing required fields: %s", strings.Join(missing, ", "))
	}

	startRaw, startOK := eventData["startTime"].(string)
	endRaw, endOK := eventData["endTime"].(string)
	if !startOK || !endOK {
		return newValidationError("Invalid date format")
	}
	startTime, err := ParseEventTime(startRaw)
	if err != nil {
		return newValidationError("Invalid date format: %v", err)
	}
	endTime, err := ParseEventTime(endRaw)
	if err != nil {
		return newValidationError("Invalid date format: %v", err)
	}
	if !endTime.After(startTime) {
		return newValidationError("End time must be after start time")
	}

	location, ok := eventData["location"].(map[string]any)
	if !ok {
		return newValidationError("Invalid location format")
	}
	if _, ok := location["latitude"]; !ok {
		return newValidationError("Invalid location format")
	}
	if _, ok := location["longitude"]; !ok {
		return newValidationError("Invalid location format")
	}

	return nil
}
