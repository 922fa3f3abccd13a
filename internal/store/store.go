package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Doc.Get when no document exists for the id.
var ErrNotFound = errors.New("document not found")

// Store is the document-store capability handlers and entities operate on.
// It mirrors the collection/document shape of the managed backend so the
// self-hosted and in-memory backends can implement the same contract.
type Store interface {
	Collection(path string) Collection
	Close() error
}

// Collection is a named set of documents, possibly nested under a document.
type Collection interface {
	// NewDoc returns a handle to a document with a freshly allocated id.
	// Nothing is written until Set is called.
	NewDoc() Doc
	Doc(id string) Doc
	Documents(ctx context.Context) ([]Snapshot, error)
}

// Doc is a handle to a single document. Get returns ErrNotFound for ids
// with no stored data; Delete on a missing document is not an error.
type Doc interface {
	ID() string
	Get(ctx context.Context) (Snapshot, error)
	Set(ctx context.Context, data map[string]any) error
	// Merge writes only the given fields, deep-merging nested maps into
	// whatever is already stored. Creates the document if absent.
	Merge(ctx context.Context, data map[string]any) error
	// DeleteField removes a single (possibly nested) field from the
	// document, leaving the rest untouched.
	DeleteField(ctx context.Context, path ...string) error
	Delete(ctx context.Context) error
	Collection(path string) Collection
}

// Snapshot is a point-in-time read of a document.
type Snapshot struct {
	ID   string
	Data map[string]any
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}

// mergeMaps merges src into dst in place, recursing where both sides hold
// a map for the same key.
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		srcNested, srcIsMap := v.(map[string]any)
		dstNested, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			mergeMaps(dstNested, srcNested)
			continue
		}
		if srcIsMap {
			dst[k] = cloneMap(srcNested)
			continue
		}
		dst[k] = v
	}
}
