// Package database provides the optional Postgres run-history store.
package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	// Postgres driver registration.
	_ "github.com/lib/pq"

	"github.com/jonesrussell/fundwatch/internal/config"
)

// NewPostgresConnection opens and verifies a Postgres connection.
func NewPostgresConnection(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return db, nil
}
