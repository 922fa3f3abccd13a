package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on the managed document database.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(ctx context.Context, projectID string, opts ...option.ClientOption) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Collection(path string) Collection {
	return &firestoreCollection{ref: s.client.Collection(path)}
}

func (s *FirestoreStore) Close() error { return s.client.Close() }

type firestoreCollection struct {
	ref *firestore.CollectionRef
}

func (c *firestoreCollection) NewDoc() Doc {
	return &firestoreDoc{ref: c.ref.NewDoc()}
}

func (c *firestoreCollection) Doc(id string) Doc {
	return &firestoreDoc{ref: c.ref.Doc(id)}
}

func (c *firestoreCollection) Documents(ctx context.Context) ([]Snapshot, error) {
	docs, err := c.ref.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", c.ref.Path, err)
	}
	snaps := make([]Snapshot, 0, len(docs))
	for _, doc := range docs {
		snaps = append(snaps, Snapshot{ID: doc.Ref.ID, Data: doc.Data()})
	}
	return snaps, nil
}

type firestoreDoc struct {
	ref *firestore.DocumentRef
}

func (d *firestoreDoc) ID() string { return d.ref.ID }

func (d *firestoreDoc) Get(ctx context.Context) (Snapshot, error) {
	doc, err := d.ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading %s: %w", d.ref.Path, err)
	}
	return Snapshot{ID: d.ref.ID, Data: doc.Data()}, nil
}

func (d *firestoreDoc) Set(ctx context.Context, data map[string]any) error {
	if _, err := d.ref.Set(ctx, data); err != nil {
		return fmt.Errorf("writing %s: %w", d.ref.Path, err)
	}
	return nil
}

func (d *firestoreDoc) Merge(ctx context.Context, data map[string]any) error {
	if _, err := d.ref.Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("merging %s: %w", d.ref.Path, err)
	}
	return nil
}

func (d *firestoreDoc) DeleteField(ctx context.Context, path ...string) error {
	if len(path) == 0 {
		return nil
	}
	_, err := d.ref.Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath(path), Value: firestore.Delete},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("updating %s: %w", d.ref.Path, err)
	}
	return nil
}

func (d *firestoreDoc) Delete(ctx context.Context) error {
	if _, err := d.ref.Delete(ctx); err != nil {
		return fmt.Errorf("deleting %s: %w", d.ref.Path, err)
	}
	return nil
}

func (d *firestoreDoc) Collection(path string) Collection {
	return &firestoreCollection{ref: d.ref.Collection(path)}
}
