package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentRow is the single-table layout backing the self-hosted store:
// one jsonb payload per document path.
type documentRow struct {
	Path string `gorm:"primaryKey"`
	Data []byte `gorm:"type:jsonb;not null"`
}

func (documentRow) TableName() string { return "documents" }

// PostgresStore implements Store on a Postgres jsonb table through gorm,
// for deployments without access to the managed document database.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("migrating documents table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Collection(path string) Collection {
	return &postgresCollection{store: s, path: path}
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type postgresCollection struct {
	store *PostgresStore
	path  string
}

func (c *postgresCollection) NewDoc() Doc {
	return c.Doc(uuid.New().String())
}

func (c *postgresCollection) Doc(id string) Doc {
	return &postgresDoc{store: c.store, path: c.path + "/" + id, id: id}
}

func (c *postgresCollection) Documents(ctx context.Context) ([]Snapshot, error) {
	prefix := c.path + "/"
	var rows []documentRow
	err := c.store.db.WithContext(ctx).
		Where("path LIKE ? AND path NOT LIKE ?", prefix+"%", prefix+"%/%").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", c.path, err)
	}

	snaps := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		data, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, Snapshot{ID: strings.TrimPrefix(row.Path, prefix), Data: data})
	}
	return snaps, nil
}

type postgresDoc struct {
	store *PostgresStore
	path  string
	id    string
}

func (d *postgresDoc) ID() string { return d.id }

func (d *postgresDoc) Get(ctx context.Context) (Snapshot, error) {
	var row documentRow
	err := d.store.db.WithContext(ctx).Where("path = ?", d.path).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading %s: %w", d.path, err)
	}
	data, err := decodeRow(row)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{ID: d.id, Data: data}, nil
}

func (d *postgresDoc) Set(ctx context.Context, data map[string]any) error {
	return d.write(ctx, data)
}

func (d *postgresDoc) Merge(ctx context.Context, data map[string]any) error {
	existing := make(map[string]any)
	snap, err := d.Get(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err == nil {
		existing = snap.Data
	}
	mergeMaps(existing, data)
	return d.write(ctx, existing)
}

func (d *postgresDoc) DeleteField(ctx context.Context, path ...string) error {
	if len(path) == 0 {
		return nil
	}
	snap, err := d.Get(ctx)
	if err != nil {
		return err
	}
	current := snap.Data
	for _, key := range path[:len(path)-1] {
		nested, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = nested
	}
	delete(current, path[len(path)-1])
	return d.write(ctx, snap.Data)
}

func (d *postgresDoc) Delete(ctx context.Context) error {
	err := d.store.db.WithContext(ctx).Where("path = ?", d.path).Delete(&documentRow{}).Error
	if err != nil {
		return fmt.Errorf("deleting %s: %w", d.path, err)
	}
	return nil
}

func (d *postgresDoc) Collection(path string) Collection {
	return &postgresCollection{store: d.store, path: d.path + "/" + path}
}

func (d *postgresDoc) write(ctx context.Context, data map[string]any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", d.path, err)
	}
	row := documentRow{Path: d.path, Data: payload}
	err = d.store.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"data"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("writing %s: %w", d.path, err)
	}
	return nil
}

func decodeRow(row documentRow) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", row.Path, err)
	}
	return data, nil
}
