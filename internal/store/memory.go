package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in a mutex-guarded map keyed by full path
// ("events/<id>", "events/<id>/rsvps/<email>"). Used as the test backend.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]any)}
}

func (s *MemoryStore) Collection(path string) Collection {
	return &memoryCollection{store: s, path: path}
}

func (s *MemoryStore) Close() error { return nil }

type memoryCollection struct {
	store *MemoryStore
	path  string
}

func (c *memoryCollection) NewDoc() Doc {
	return c.Doc(uuid.New().String())
}

func (c *memoryCollection) Doc(id string) Doc {
	return &memoryDoc{store: c.store, path: c.path + "/" + id, id: id}
}

func (c *memoryCollection) Documents(_ context.Context) ([]Snapshot, error) {
	prefix := c.path + "/"
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var snaps []Snapshot
	for path, data := range c.store.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		id := strings.TrimPrefix(path, prefix)
		if strings.Contains(id, "/") {
			// Document of a nested sub-collection, not a member here.
			continue
		}
		snaps = append(snaps, Snapshot{ID: id, Data: cloneMap(data)})
	}
	return snaps, nil
}

type memoryDoc struct {
	store *MemoryStore
	path  string
	id    string
}

func (d *memoryDoc) ID() string { return d.id }

func (d *memoryDoc) Get(_ context.Context) (Snapshot, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	data, ok := d.store.docs[d.path]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return Snapshot{ID: d.id, Data: cloneMap(data)}, nil
}

func (d *memoryDoc) Set(_ context.Context, data map[string]any) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	d.store.docs[d.path] = cloneMap(data)
	return nil
}

func (d *memoryDoc) Merge(_ context.Context, data map[string]any) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	existing, ok := d.store.docs[d.path]
	if !ok {
		existing = make(map[string]any)
		d.store.docs[d.path] = existing
	}
	mergeMaps(existing, data)
	return nil
}

func (d *memoryDoc) DeleteField(_ context.Context, path ...string) error {
	if len(path) == 0 {
		return nil
	}
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	current, ok := d.store.docs[d.path]
	if !ok {
		return ErrNotFound
	}
	for _, key := range path[:len(path)-1] {
		nested, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = nested
	}
	delete(current, path[len(path)-1])
	return nil
}

func (d *memoryDoc) Delete(_ context.Context) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	delete(d.store.docs, d.path)
	return nil
}

func (d *memoryDoc) Collection(path string) Collection {
	return &memoryCollection{store: d.store, path: d.path + "/" + path}
}
