// Package db wires the SQL connection, goose migrations and the per-entity
// repositories behind one RepositoryManager.
package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/workboard/internal/server/repositories/listings"
	"github.com/dmitrijs2005/workboard/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Listings() listings.Repository
}
