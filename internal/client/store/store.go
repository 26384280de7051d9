// Package store opens the local SQLite database and wires up the client-side
// repositories. Migrations are embedded and applied on open.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dkraev/mycolog/internal/client/migrations"
	"github.com/dkraev/mycolog/internal/client/repositories/records"
	"github.com/dkraev/mycolog/internal/client/repositories/settings"
	"github.com/pressly/goose/v3"
)

type Repositories struct {
	Records  records.Repository
	Settings settings.Repository

	db *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func Open(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Records:  records.NewSQLiteRepository(db),
		Settings: settings.NewSQLiteRepository(db),
		db:       db,
	}, nil
}

func (r *Repositories) Close() error {
	return r.db.Close()
}
