package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	doc := s.Collection("events").Doc("e1")
	require.NoError(t, doc.Set(ctx, map[string]any{"title": "Picnic"}))

	snap, err := doc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "e1", snap.ID)
	assert.Equal(t, "Picnic", snap.Data["title"])

	_, err = s.Collection("events").Doc("missing").Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreNewDocAllocatesUniqueIDs(t *testing.T) {
	s := NewMemoryStore()
	a := s.Collection("events").NewDoc()
	b := s.Collection("events").NewDoc()
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestMemoryStoreMergeDeep(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := s.Collection("events").Doc("e1")

	require.NoError(t, doc.Set(ctx, map[string]any{
		"title":           "Picnic",
		"calendar_events": map[string]any{"alice_at_example_com": "g1"},
	}))
	require.NoError(t, doc.Merge(ctx, map[string]any{
		"status":          "expired",
		"calendar_events": map[string]any{"bob_at_example_com": "g2"},
	}))

	snap, err := doc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Picnic", snap.Data["title"])
	assert.Equal(t, "expired", snap.Data["status"])
	links := snap.Data["calendar_events"].(map[string]any)
	assert.Equal(t, "g1", links["alice_at_example_com"])
	assert.Equal(t, "g2", links["bob_at_example_com"])
}

func TestMemoryStoreMergeCreatesMissingDoc(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := s.Collection("events").Doc("e1")

	require.NoError(t, doc.Merge(ctx, map[string]any{"status": "active"}))
	snap, err := doc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "active", snap.Data["status"])
}

func TestMemoryStoreDeleteField(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := s.Collection("events").Doc("e1")

	require.NoError(t, doc.Set(ctx, map[string]any{
		"title": "Picnic",
		"calendar_events": map[string]any{
			"alice_at_example_com": "g1",
			"bob_at_example_com":   "g2",
		},
	}))
	require.NoError(t, doc.DeleteField(ctx, "calendar_events", "alice_at_example_com"))

	snap, err := doc.Get(ctx)
	require.NoError(t, err)
	links := snap.Data["calendar_events"].(map[string]any)
	assert.NotContains(t, links, "alice_at_example_com")
	assert.Equal(t, "g2", links["bob_at_example_com"])

	// Removing a field that is already gone is a no-op.
	require.NoError(t, doc.DeleteField(ctx, "calendar_events", "alice_at_example_com"))
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := s.Collection("events").Doc("e1")

	require.NoError(t, doc.Set(ctx, map[string]any{"title": "Picnic"}))
	require.NoError(t, doc.Delete(ctx))
	require.NoError(t, doc.Delete(ctx))

	_, err := doc.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDocumentsSkipsSubCollections(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	events := s.Collection("events")
	require.NoError(t, events.Doc("e1").Set(ctx, map[string]any{"title": "A"}))
	require.NoError(t, events.Doc("e2").Set(ctx, map[string]any{"title": "B"}))
	rsvps := events.Doc("e1").Collection("rsvps")
	require.NoError(t, rsvps.Doc("alice@example.com").Set(ctx, map[string]any{"status": "confirmed"}))

	snaps, err := events.Documents(ctx)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)

	nested, err := rsvps.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, nested, 1)
	assert.Equal(t, "alice@example.com", nested[0].ID)
}

func TestMemoryStoreSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := s.Collection("events").Doc("e1")
	require.NoError(t, doc.Set(ctx, map[string]any{"title": "Picnic"}))

	snap, err := doc.Get(ctx)
	require.NoError(t, err)
	snap.Data["title"] = "Mutated"

	again, err := doc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Picnic", again.Data["title"])
}
