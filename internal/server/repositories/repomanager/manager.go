package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/resumehub/internal/dbx"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/changes"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/resumes"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// repository code runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Resumes(db dbx.DBTX) resumes.Repository
	Changes(db dbx.DBTX) changes.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
