package helpers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEventData() map[string]any {
	return map[string]any{
		"title":       "Picnic",
		"description": "Fun",
		"startTime":   "2025-06-01T10:00",
		"endTime":     "2025-06-01T12:00",
		"location":    map[string]any{"latitude": "36.9", "longitude": "-122.0"},
	}
}

func TestValidateEventDataValid(t *testing.T) {
	assert.Nil(t, ValidateEventData(validEventData()))
}

func TestValidateEventDataMissingFields(t *testing.T) {
	data := validEventData()
	delete(data, "title")
	delete(data, "endTime")

	verr := ValidateEventData(data)
	require.NotNil(t, verr)
	assert.Equal(t, http.StatusBadRequest, verr.Status)
	assert.Contains(t, verr.Message, "Missing required fields")
	assert.Contains(t, verr.Message, "title")
	assert.Contains(t, verr.Message, "endTime")
	assert.NotContains(t, verr.Message, "description")
}

func TestValidateEventDataTimeOrdering(t *testing.T) {
	data := validEventData()
	data["endTime"] = "2025-06-01T10:00"
	verr := ValidateEventData(data)
	require.NotNil(t, verr)
	assert.Equal(t, "End time must be after start time", verr.Message)

	data["endTime"] = "2025-06-01T09:00"
	verr = ValidateEventData(data)
	require.NotNil(t, verr)
	assert.Equal(t, "End time must be after start time", verr.Message)
}

func TestValidateEventDataBadTimes(t *testing.T) {
	data := validEventData()
	data["startTime"] = "yesterday"
	verr := ValidateEventData(data)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Message, "Invalid date format")

	data = validEventData()
	data["startTime"] = 12345
	verr = ValidateEventData(data)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Message, "Invalid date format")
}

func TestValidateEventDataBadLocation(t *testing.T) {
	data := validEventData()
	data["location"] = "Santa Cruz"
	verr := ValidateEventData(data)
	require.NotNil(t, verr)
	assert.Equal(t, "Invalid location format", verr.Message)

	data["location"] = map[string]any{"latitude": "36.9"}
	verr = ValidateEventData(data)
	require.NotNil(t, verr)
	assert.Equal(t, "Invalid location format", verr.Message)

	data["location"] = map[string]any{"longitude": "-122.0"}
	verr = ValidateEventData(data)
	require.NotNil(t, verr)
	assert.Equal(t, "Invalid location format", verr.Message)
}

func TestParseEventTime(t *testing.T) {
	cases := map[string]time.Time{
		"2025-06-01T10:00":     time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		"2025-06-01T10:00:30":  time.Date(2025, 6, 1, 10, 0, 30, 0, time.UTC),
		"2025-06-01T10:00:00Z": time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	for input, want := range cases {
		got, err := ParseEventTime(input)
		require.NoError(t, err, input)
		assert.True(t, want.Equal(got), input)
	}

	_, err := ParseEventTime("June 1st")
	assert.Error(t, err)
}
