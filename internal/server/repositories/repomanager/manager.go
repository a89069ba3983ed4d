// Package repomanager hands out repositories bound to a DB handle and runs
// schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/healthsync/healthsync/internal/dbx"
	"github.com/healthsync/healthsync/internal/server/repositories/accounts"
	"github.com/healthsync/healthsync/internal/server/repositories/records"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Records(db dbx.DBTX) records.Repository
}
