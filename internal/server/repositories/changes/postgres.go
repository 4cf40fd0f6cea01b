package changes

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/resumehub/internal/dbx"
	"github.com/dmitrijs2005/resumehub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, record *models.ChangeRecord) (*models.ChangeRecord, error) {
	query :=
		`INSERT INTO change_records (account_id, target, target_id, field, old_value, new_value)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, changed_at`

	err := r.db.QueryRowContext(ctx, query,
		record.AccountID, record.Target, record.TargetID, record.Field, record.OldValue, record.NewValue,
	).Scan(&record.ID, &record.ChangedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return record, nil
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.ChangeRecord, error) {
	query :=
		`SELECT id, account_id, target, target_id, field, old_value, new_value, changed_at
		 FROM change_records
		 WHERE account_id = $1
		 ORDER BY changed_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.ChangeRecord, 0)
	for rows.Next() {
		c := &models.ChangeRecord{}
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Target, &c.TargetID, &c.Field, &c.OldValue, &c.NewValue, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
