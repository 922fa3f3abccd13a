package config

import (
	"context"
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/slug-events/backend/internal/store"
)

type Config struct {
	Port         string
	FrontendURL  string
	StoreBackend string

	FirestoreProject string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		Port:             os.Getenv("PORT"),
		FrontendURL:      os.Getenv("FRONTEND_URL"),
		StoreBackend:     os.Getenv("STORE_BACKEND"),
		FirestoreProject: os.Getenv("FIRESTORE_PROJECT_ID"),
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           os.Getenv("DB_PORT"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
	}, nil
}

// InitStore builds the document store named by STORE_BACKEND: "firestore"
// (default) for the managed database, "postgres" for the self-hosted jsonb
// table.
func InitStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "", "firestore":
		if cfg.FirestoreProject == "" {
			return nil, fmt.Errorf("FIRESTORE_PROJECT_ID is not set")
		}
		return store.NewFirestoreStore(ctx, cfg.FirestoreProject)
	case "postgres":
		db, err := initPostgres(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(db)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func initPostgres(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
