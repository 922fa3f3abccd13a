package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slug-events/backend/internal/store"
)

func sampleEventData() map[string]any {
	return map[string]any{
		"title":       "Test Event",
		"description": "This is a test event.",
		"startTime":   "2025-03-09T12:00",
		"endTime":     "2025-03-09T14:00",
		"location":    map[string]any{"latitude": "37.7749", "longitude": "-122.4194"},
		"address":     "123 Test St",
		"category":    "Social",
		"capacity":    "100",
		"age_limit":   "18+",
		"image":       "test.jpg",
	}
}

func TestNewEvent(t *testing.T) {
	event, verr := NewEvent(sampleEventData(), "test@example.com")
	require.Nil(t, verr)

	assert.Empty(t, event.EventID)
	assert.Equal(t, "Test Event", event.Title)
	assert.Equal(t, "This is a test event.", event.Description)
	assert.Equal(t, Location{Latitude: "37.7749", Longitude: "-122.4194"}, event.Location)
	assert.Equal(t, "123 Test St", event.Address)
	assert.Equal(t, "Social", event.Category)
	require.NotNil(t, event.Capacity)
	assert.Equal(t, "100", *event.Capacity)
	assert.Equal(t, "test@example.com", event.OwnerEmail)
	assert.Equal(t, StatusActive, event.Status)
	assert.False(t, event.CreatedAt.IsZero())
	assert.True(t, event.EndTime.After(event.StartTime))
}

func TestNewEventValidationFailures(t *testing.T) {
	data := sampleEventData()
	delete(data, "title")
	delete(data, "location")
	_, verr := NewEvent(data, "test@example.com")
	require.NotNil(t, verr)
	assert.Contains(t, verr.Message, "title")
	assert.Contains(t, verr.Message, "location")

	data = sampleEventData()
	data["endTime"] = data["startTime"]
	_, verr = NewEvent(data, "test@example.com")
	require.NotNil(t, verr)
	assert.Equal(t, "End time must be after start time", verr.Message)
}

func TestEventToMap(t *testing.T) {
	event, verr := NewEvent(sampleEventData(), "test@example.com")
	require.Nil(t, verr)

	data := event.ToMap()
	assert.Equal(t, "Test Event", data["title"])
	assert.Equal(t, "2025-03-09T12:00:00Z", data["startTime"])
	assert.Equal(t, "2025-03-09T14:00:00Z", data["endTime"])
	assert.Equal(t, map[string]any{"latitude": "37.7749", "longitude": "-122.4194"}, data["location"])
	assert.Equal(t, "100", data["capacity"])
	assert.Equal(t, "18+", data["age_limit"])
	assert.Equal(t, "test@example.com", data["ownerEmail"])
	assert.Equal(t, StatusActive, data["status"])
	assert.NotContains(t, data, "calendar_events")
}

func TestEventCreateAndFetchRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	event, verr := NewEvent(sampleEventData(), "test@example.com")
	require.Nil(t, verr)
	require.NoError(t, event.Create(ctx, s))
	require.NotEmpty(t, event.EventID)

	fetched, err := GetEvent(ctx, s, event.EventID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, event.EventID, fetched.EventID)
	assert.Equal(t, event.ToMap(), fetched.ToMap())
}

func TestGetEventMissing(t *testing.T) {
	event, err := GetEvent(context.Background(), store.NewMemoryStore(), "nope")
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestEventUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	event, _ := NewEvent(sampleEventData(), "test@example.com")
	require.NoError(t, event.Create(ctx, s))

	// A calendar link written by another request must survive the merge.
	require.NoError(t, event.SetCalendarLink(ctx, s, "alice@example.com", "g1"))

	verr := event.ApplyUpdate(map[string]any{"title": "Updated Title", "capacity": "200"})
	require.Nil(t, verr)
	require.NoError(t, event.Update(ctx, s))

	fetched, err := GetEvent(ctx, s, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", fetched.Title)
	require.NotNil(t, fetched.Capacity)
	assert.Equal(t, "200", *fetched.Capacity)
	assert.Equal(t, "This is a test event.", fetched.Description)

	remoteID, ok := fetched.CalendarLink("alice@example.com")
	assert.True(t, ok)
	assert.Equal(t, "g1", remoteID)
}

func TestApplyUpdateRejectsBadTimes(t *testing.T) {
	event, _ := NewEvent(sampleEventData(), "test@example.com")

	verr := event.ApplyUpdate(map[string]any{"endTime": "2025-03-09T11:00"})
	require.NotNil(t, verr)
	assert.Equal(t, "End time must be after start time", verr.Message)

	verr = event.ApplyUpdate(map[string]any{"startTime": "not-a-time"})
	require.NotNil(t, verr)
	assert.Contains(t, verr.Message, "Invalid date format")
}

func TestApplyUpdateIgnoresProtectedFields(t *testing.T) {
	event, _ := NewEvent(sampleEventData(), "test@example.com")
	createdAt := event.CreatedAt

	verr := event.ApplyUpdate(map[string]any{
		"ownerEmail": "mallory@example.com",
		"status":     "expired",
		"createdAt":  "1999-01-01T00:00",
	})
	require.Nil(t, verr)
	assert.Equal(t, "test@example.com", event.OwnerEmail)
	assert.Equal(t, StatusActive, event.Status)
	assert.Equal(t, createdAt, event.CreatedAt)
}

func TestEventDelete(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	event, _ := NewEvent(sampleEventData(), "test@example.com")
	require.NoError(t, event.Create(ctx, s))
	require.NoError(t, event.Delete(ctx, s))

	fetched, err := GetEvent(ctx, s, event.EventID)
	require.NoError(t, err)
	assert.Nil(t, fetched)
}

func TestRSVPAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	event, _ := NewEvent(sampleEventData(), "test@example.com")
	require.NoError(t, event.Create(ctx, s))

	require.NoError(t, event.AddRSVP(ctx, s, "user@example.com"))
	require.NoError(t, event.AddRSVP(ctx, s, "user@example.com"))

	rsvps, err := event.RSVPs(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"user@example.com"}, rsvps)
}

func TestRSVPRemoveMissingIsNotAnError(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	event, _ := NewEvent(sampleEventData(), "test@example.com")
	require.NoError(t, event.Create(ctx, s))
	require.NoError(t, event.RemoveRSVP(ctx, s, "nobody@example.com"))
}

func TestRSVPLifecycle(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	event, _ := NewEvent(sampleEventData(), "test@example.com")
	require.NoError(t, event.Create(ctx, s))

	require.NoError(t, event.AddRSVP(ctx, s, "user1@example.com"))
	require.NoError(t, event.AddRSVP(ctx, s, "user2@example.com"))

	rsvps, err := event.RSVPs(ctx, s)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user1@example.com", "user2@example.com"}, rsvps)

	require.NoError(t, event.RemoveRSVP(ctx, s, "user1@example.com"))
	rsvps, err = event.RSVPs(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"user2@example.com"}, rsvps)
}

func TestCalendarLinkLifecycle(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	event, _ := NewEvent(sampleEventData(), "test@example.com")
	require.NoError(t, event.Create(ctx, s))

	_, ok := event.CalendarLink("alice@example.com")
	assert.False(t, ok)

	require.NoError(t, event.SetCalendarLink(ctx, s, "alice@example.com", "g1"))
	require.NoError(t, event.SetCalendarLink(ctx, s, "bob@example.com", "g2"))

	fetched, err := GetEvent(ctx, s, event.EventID)
	require.NoError(t, err)
	remoteID, ok := fetched.CalendarLink("alice@example.com")
	require.True(t, ok)
	assert.Equal(t, "g1", remoteID)

	require.NoError(t, fetched.RemoveCalendarLink(ctx, s, "alice@example.com"))

	fetched, err = GetEvent(ctx, s, event.EventID)
	require.NoError(t, err)
	_, ok = fetched.CalendarLink("alice@example.com")
	assert.False(t, ok)
	remoteID, ok = fetched.CalendarLink("bob@example.com")
	require.True(t, ok)
	assert.Equal(t, "g2", remoteID)
}

func TestExpiredPredicate(t *testing.T) {
	event, _ := NewEvent(sampleEventData(), "test@example.com")

	before := event.EndTime.Add(-1)
	after := event.EndTime.Add(1)
	assert.False(t, event.Expired(before))
	assert.False(t, event.Expired(event.EndTime))
	assert.True(t, event.Expired(after))
}
