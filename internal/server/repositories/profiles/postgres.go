package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/resumehub/internal/common"
	"github.com/dmitrijs2005/resumehub/internal/dbx"
	"github.com/dmitrijs2005/resumehub/internal/server/models"
)

var updatable = map[string]struct{}{
	"name": {},
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, profile *models.Profile) error {
	query :=
		`INSERT INTO profiles (account_id, name)
		 VALUES ($1, $2)
		 RETURNING created_at, updated_at`

	if err := r.db.QueryRowContext(ctx, query, profile.AccountID, profile.Name).
		Scan(&profile.CreatedAt, &profile.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByAccountID(ctx context.Context, accountID string) (*models.Profile, error) {
	return r.get(ctx, `SELECT account_id, name, created_at, updated_at FROM profiles WHERE account_id = $1`, accountID)
}

func (r *PostgresRepository) GetByAccountIDForUpdate(ctx context.Context, accountID string) (*models.Profile, error) {
	return r.get(ctx, `SELECT account_id, name, created_at, updated_at FROM profiles WHERE account_id = $1 FOR UPDATE`, accountID)
}

func (r *PostgresRepository) get(ctx context.Context, query, accountID string) (*models.Profile, error) {
	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&p.AccountID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// UpdateFields writes the given columns; only "name" is updatable.
func (r *PostgresRepository) UpdateFields(ctx context.Context, accountID string, fields models.Fields) error {
	set, args, err := dbx.SetClause(fields.Keys(), fields, updatable)
	if err != nil {
		return err
	}

	args = append(args, accountID)
	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE account_id = $%d`, set, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
