package db

import (
	"context"
	"database/sql"

	"github.com/dkraev/mycolog/internal/server/repositories/records"
	"github.com/dkraev/mycolog/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Close() error
	Users() users.Repository
	Records() records.Repository
}
