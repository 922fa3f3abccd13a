package models

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/slug-events/backend/internal/helpers"
	"github.com/slug-events/backend/internal/store"
)

const (
	eventsCollection = "events"
	rsvpsCollection  = "rsvps"

	StatusActive  = "active"
	StatusExpired = "expired"
)

// Location is a latitude/longitude pair. Coordinates travel as strings
// end to end, matching what the map frontend sends and renders.
type Location struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// Event is the central entity. EventID is empty until Create assigns it;
// OwnerEmail is set once at construction from the authenticated caller and
// authorizes updates and deletes.
type Event struct {
	EventID     string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    Location
	Address     string
	Category    string
	Capacity    *string
	AgeLimit    *string
	Image       *string
	OwnerEmail  string
	CreatedAt   time.Time
	Status      string

	// CalendarEvents maps sanitized participant emails to remote calendar
	// event ids. Loaded on fetch; mutated only through SetCalendarLink and
	// RemoveCalendarLink, never rewritten wholesale.
	CalendarEvents map[string]string
}

// NewEvent validates a loosely-typed payload and constructs an Event owned
// by ownerEmail. CreatedAt and Status are server-assigned, never taken from
// the payload.
func NewEvent(eventData map[string]any, ownerEmail string) (*Event, *helpers.ValidationError) {
	if verr := helpers.ValidateEventData(eventData); verr != nil {
		return nil, verr
	}

	startTime, _ := helpers.ParseEventTime(eventData["startTime"].(string))
	endTime, _ := helpers.ParseEventTime(eventData["endTime"].(string))
	location := eventData["location"].(map[string]any)

	return &Event{
		Title:       stringField(eventData, "title"),
		Description: stringField(eventData, "description"),
		StartTime:   startTime,
		EndTime:     endTime,
		Location: Location{
			Latitude:  coordinate(location["latitude"]),
			Longitude: coordinate(location["longitude"]),
		},
		Address:    stringField(eventData, "address"),
		Category:   stringField(eventData, "category"),
		Capacity:   optStringField(eventData, "capacity"),
		AgeLimit:   optStringField(eventData, "age_limit"),
		Image:      optStringField(eventData, "image"),
		OwnerEmail: ownerEmail,
		CreatedAt:  time.Now().UTC(),
		Status:     StatusActive,
	}, nil
}

// ToMap returns the persisted document shape. CalendarEvents is excluded:
// link entries are merged and removed individually so concurrent syncs
// never clobber each other's entries.
func (e *Event) ToMap() map[string]any {
	return map[string]any{
		"title":       e.Title,
		"description": e.Description,
		"startTime":   e.StartTime.Format(time.RFC3339),
		"endTime":     e.EndTime.Format(time.RFC3339),
		"address":     e.Address,
		"location": map[string]any{
			"latitude":  e.Location.Latitude,
			"longitude": e.Location.Longitude,
		},
		"category":   e.Category,
		"capacity":   optValue(e.Capacity),
		"age_limit":  optValue(e.AgeLimit),
		"image":      optValue(e.Image),
		"ownerEmail": e.OwnerEmail,
		"createdAt":  e.CreatedAt.Format(time.RFC3339),
		"status":     e.Status,
	}
}

// Create allocates a fresh id from the store and persists the event.
// EventID is assigned exactly once, here.
func (e *Event) Create(ctx context.Context, s store.Store) error {
	doc := s.Collection(eventsCollection).NewDoc()
	if err := doc.Set(ctx, e.ToMap()); err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	e.EventID = doc.ID()
	return nil
}

// GetEvent reconstructs an event from the store. A missing id yields
// (nil, nil), not an error. RSVPs live in a sub-collection and are fetched
// separately.
func GetEvent(ctx context.Context, s store.Store, eventID string) (*Event, error) {
	snap, err := s.Collection(eventsCollection).Doc(eventID).Get(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching event %s: %w", eventID, err)
	}
	return eventFromData(eventID, snap.Data), nil
}

// Update merge-writes the event's current fields over the stored record.
// Fields absent from the entity's document shape are left untouched server
// side. Callers must have checked ownership before calling this.
func (e *Event) Update(ctx context.Context, s store.Store) error {
	err := s.Collection(eventsCollection).Doc(e.EventID).Merge(ctx, e.ToMap())
	if err != nil {
		return fmt.Errorf("updating event %s: %w", e.EventID, err)
	}
	return nil
}

// Delete removes the event document. Store failures are reported as a
// wrapped error, never a panic.
func (e *Event) Delete(ctx context.Context, s store.Store) error {
	if err := s.Collection(eventsCollection).Doc(e.EventID).Delete(ctx); err != nil {
		return fmt.Errorf("deleting event %s: %w", e.EventID, err)
	}
	return nil
}

// ApplyUpdate overlays the mutable fields present in eventData onto the
// entity, then re-checks the time ordering invariant. Identity, ownership
// and lifecycle fields are ignored even if the payload carries them.
func (e *Event) ApplyUpdate(eventData map[string]any) *helpers.ValidationError {
	if v, ok := eventData["title"].(string); ok {
		e.Title = v
	}
	if v, ok := eventData["description"].(string); ok {
		e.Description = v
	}
	if v, ok := eventData["startTime"].(string); ok {
		t, err := helpers.ParseEventTime(v)
		if err != nil {
			return &helpers.ValidationError{Status: http.StatusBadRequest, Message: fmt.Sprintf("Invalid date format: %v", err)}
		}
		e.StartTime = t
	}
	if v, ok := eventData["endTime"].(string); ok {
		t, err := helpers.ParseEventTime(v)
		if err != nil {
			return &helpers.ValidationError{Status: http.StatusBadRequest, Message: fmt.Sprintf("Invalid date format: %v", err)}
		}
		e.EndTime = t
	}
	if v, ok := eventData["location"].(map[string]any); ok {
		lat, latOK := v["latitude"]
		lon, lonOK := v["longitude"]
		if !latOK || !lonOK {
			return &helpers.ValidationError{Status: http.StatusBadRequest, Message: "Invalid location format"}
		}
		e.Location = Location{Latitude: coordinate(lat), Longitude: coordinate(lon)}
	}
	if v, ok := eventData["address"].(string); ok {
		e.Address = v
	}
	if v, ok := eventData["category"].(string); ok {
		e.Category = v
	}
	if v := optStringField(eventData, "capacity"); v != nil {
		e.Capacity = v
	}
	if v := optStringField(eventData, "age_limit"); v != nil {
		e.AgeLimit = v
	}
	if v := optStringField(eventData, "image"); v != nil {
		e.Image = v
	}

	if !e.EndTime.After(e.StartTime) {
		return &helpers.ValidationError{Status: http.StatusBadRequest, Message: "End time must be after start time"}
	}
	return nil
}

// Expired reports whether the event's end time has passed. Pure predicate;
// marking is the query service's concern.
func (e *Event) Expired(now time.Time) bool {
	return e.EndTime.Before(now)
}

// AddRSVP upserts the caller's RSVP. Re-adding overwrites the existing
// record rather than duplicating it.
func (e *Event) AddRSVP(ctx context.Context, s store.Store, userEmail string) error {
	doc := s.Collection(eventsCollection).Doc(e.EventID).Collection(rsvpsCollection).Doc(userEmail)
	err := doc.Set(ctx, map[string]any{
		"email":     userEmail,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    "confirmed",
	})
	if err != nil {
		return fmt.Errorf("adding rsvp for %s: %w", userEmail, err)
	}
	return nil
}

// RemoveRSVP deletes the caller's RSVP if present. Removing a non-existent
// RSVP is not an error.
func (e *Event) RemoveRSVP(ctx context.Context, s store.Store, userEmail string) error {
	doc := s.Collection(eventsCollection).Doc(e.EventID).Collection(rsvpsCollection).Doc(userEmail)
	if err := doc.Delete(ctx); err != nil {
		return fmt.Errorf("removing rsvp for %s: %w", userEmail, err)
	}
	return nil
}

// RSVPs returns the participant emails, in store iteration order.
func (e *Event) RSVPs(ctx context.Context, s store.Store) ([]string, error) {
	snaps, err := s.Collection(eventsCollection).Doc(e.EventID).Collection(rsvpsCollection).Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing rsvps: %w", err)
	}
	emails := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		emails = append(emails, snap.ID)
	}
	return emails, nil
}

// CalendarLink returns the remote calendar event id linked for userEmail.
func (e *Event) CalendarLink(userEmail string) (string, bool) {
	id, ok := e.CalendarEvents[helpers.CalendarKey(userEmail)]
	return id, ok
}

// SetCalendarLink records the remote calendar event id for userEmail.
func (e *Event) SetCalendarLink(ctx context.Context, s store.Store, userEmail, remoteID string) error {
	key := helpers.CalendarKey(userEmail)
	err := s.Collection(eventsCollection).Doc(e.EventID).Merge(ctx, map[string]any{
		"calendar_events": map[string]any{key: remoteID},
	})
	if err != nil {
		return fmt.Errorf("linking calendar event for %s: %w", userEmail, err)
	}
	if e.CalendarEvents == nil {
		e.CalendarEvents = make(map[string]string)
	}
	e.CalendarEvents[key] = remoteID
	return nil
}

// RemoveCalendarLink drops the calendar map entry for userEmail.
func (e *Event) RemoveCalendarLink(ctx context.Context, s store.Store, userEmail string) error {
	key := helpers.CalendarKey(userEmail)
	err := s.Collection(eventsCollection).Doc(e.EventID).DeleteField(ctx, "calendar_events", key)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("unlinking calendar event for %s: %w", userEmail, err)
	}
	delete(e.CalendarEvents, key)
	return nil
}

func eventFromData(eventID string, data map[string]any) *Event {
	event := &Event{
		EventID:     eventID,
		Title:       stringField(data, "title"),
		Description: stringField(data, "description"),
		StartTime:   timeField(data, "startTime"),
		EndTime:     timeField(data, "endTime"),
		Address:     stringField(data, "address"),
		Category:    stringField(data, "category"),
		Capacity:    optStringField(data, "capacity"),
		AgeLimit:    optStringField(data, "age_limit"),
		Image:       optStringField(data, "image"),
		OwnerEmail:  stringField(data, "ownerEmail"),
		CreatedAt:   timeField(data, "createdAt"),
		Status:      stringField(data, "status"),
	}
	if location, ok := data["location"].(map[string]any); ok {
		event.Location = Location{
			Latitude:  coordinate(location["latitude"]),
			Longitude: coordinate(location["longitude"]),
		}
	}
	if links, ok := data["calendar_events"].(map[string]any); ok {
		event.CalendarEvents = make(map[string]string, len(links))
		for key, value := range links {
			if id, ok := value.(string); ok {
				event.CalendarEvents[key] = id
			}
		}
	}
	return event
}

func stringField(data map[string]any, key string) string {
	v, _ := data[key].(string)
	return v
}

func optStringField(data map[string]any, key string) *string {
	if v, ok := data[key].(string); ok {
		return &v
	}
	return nil
}

func optValue(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func timeField(data map[string]any, key string) time.Time {
	switch v := data[key].(type) {
	case time.Time:
		return v
	case string:
		t, _ := helpers.ParseEventTime(v)
		return t
	}
	return time.Time{}
}

// coordinate tolerates both string and numeric coordinates from older
// clients; everything is normalized to the string form the frontend sends.
func coordinate(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return fmt.Sprintf("%g", value)
	}
	return ""
}
