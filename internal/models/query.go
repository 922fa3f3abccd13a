package models

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/slug-events/backend/internal/store"
)

// EventQuery lists and filters the event collection. Every pass evaluates
// expiry lazily: a record past its end time is written back as expired and
// excluded from the results in the same sweep. The write is an
// unconditional idempotent set, so two concurrent sweeps marking the same
// record are harmless.
type EventQuery struct {
	store store.Store
	now   func() time.Time
}

func NewEventQuery(s store.Store) *EventQuery {
	return &EventQuery{store: s, now: time.Now}
}

// ListActive returns every active event, each record carrying its eventId.
func (q *EventQuery) ListActive(ctx context.Context) ([]map[string]any, error) {
	return q.list(ctx, nil)
}

// FilterByCategory keeps only active events whose category equals the
// requested value. Exact, case-sensitive match.
func (q *EventQuery) FilterByCategory(ctx context.Context, category string) ([]map[string]any, error) {
	return q.list(ctx, func(data map[string]any) bool {
		return stringField(data, "category") == category
	})
}

// FilterByTime returns active events whose [startTime, endTime) interval
// strictly contains the given minute-precision timestamp
// (YYYY-MM-DDTHH:MM).
func (q *EventQuery) FilterByTime(ctx context.Context, timestamp string) ([]map[string]any, error) {
	t, err := time.Parse("2006-01-02T15:04", timestamp)
	if err != nil {
		return nil, fmt.Errorf("parsing filter time %q: %w", timestamp, err)
	}
	return q.list(ctx, func(data map[string]any) bool {
		start := timeField(data, "startTime")
		end := timeField(data, "endTime")
		return start.Before(t) && end.After(t)
	})
}

func (q *EventQuery) list(ctx context.Context, keep func(map[string]any) bool) ([]map[string]any, error) {
	snaps, err := q.store.Collection(eventsCollection).Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	now := q.now()
	events := make([]map[string]any, 0, len(snaps))
	for _, snap := range snaps {
		if stringField(snap.Data, "status") != StatusActive {
			continue
		}
		if endTime := timeField(snap.Data, "endTime"); endTime.Before(now) {
			q.markExpired(ctx, snap.ID)
			continue
		}
		if keep != nil && !keep(snap.Data) {
			continue
		}
		record := snap.Data
		record["eventId"] = snap.ID
		events = append(events, record)
	}
	return events, nil
}

func (q *EventQuery) markExpired(ctx context.Context, eventID string) {
	doc := q.store.Collection(eventsCollection).Doc(eventID)
	if err := doc.Merge(ctx, map[string]any{"status": StatusExpired}); err != nil {
		// Best effort: the record is excluded from this pass either way
		// and the next read will retry the mark.
		log.Warn().Err(err).Str("event_id", eventID).Msg("failed to mark event expired")
		return
	}
	log.Debug().Str("event_id", eventID).Msg("event marked expired")
}
