package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/resumehub/internal/common"
	"github.com/dmitrijs2005/resumehub/internal/dbx"
	"github.com/dmitrijs2005/resumehub/internal/server/models"
	"github.com/google/uuid"
)

// account_id is deliberately absent: ownership never changes.
var updatable = map[string]struct{}{
	"title":          {},
	"content":        {},
	"status":         {},
	"attachment_key": {},
}

var orderColumns = map[string]string{
	models.ResumeOrderCreatedAt: "r.created_at",
	models.ResumeOrderUpdatedAt: "r.updated_at",
	models.ResumeOrderTitle:     "r.title",
	models.ResumeOrderStatus:    "r.status",
}

const selectWithAuthor = `SELECT r.id, r.account_id, r.title, r.content, r.status, r.attachment_key, r.created_at, r.updated_at, COALESCE(p.name, '')
	FROM resumes r
	LEFT JOIN profiles p ON p.account_id = r.account_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, resume *models.Resume) (*models.Resume, error) {
	if resume.ID == "" {
		resume.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO resumes (id, account_id, title, content, status, attachment_key)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		resume.ID, resume.AccountID, resume.Title, resume.Content, resume.Status, resume.AttachmentKey,
	).Scan(&resume.CreatedAt, &resume.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return resume, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Resume, error) {
	res := &models.Resume{}
	err := r.db.QueryRowContext(ctx, selectWithAuthor+` WHERE r.id = $1`, id).Scan(
		&res.ID, &res.AccountID, &res.Title, &res.Content, &res.Status, &res.AttachmentKey,
		&res.CreatedAt, &res.UpdatedAt, &res.AuthorName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Resume, error) {
	query :=
		`SELECT id, account_id, title, content, status, attachment_key, created_at, updated_at
		 FROM resumes
		 WHERE id = $1
		 FOR UPDATE`

	res := &models.Resume{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.AccountID, &res.Title, &res.Content, &res.Status, &res.AttachmentKey,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

// List returns every résumé ordered by order.Key; unknown keys fall back
// to creation time. Ties are broken by id for a stable order.
func (r *PostgresRepository) List(ctx context.Context, order models.ResumeOrder) ([]*models.Resume, error) {
	column, ok := orderColumns[order.Key]
	if !ok {
		column = orderColumns[models.ResumeOrderCreatedAt]
	}
	direction := "ASC"
	if order.Desc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`%s ORDER BY %s %s, r.id %s`, selectWithAuthor, column, direction, direction)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Resume, 0)
	for rows.Next() {
		res := &models.Resume{}
		if err := rows.Scan(
			&res.ID, &res.AccountID, &res.Title, &res.Content, &res.Status, &res.AttachmentKey,
			&res.CreatedAt, &res.UpdatedAt, &res.AuthorName,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateFields(ctx context.Context, id string, fields models.Fields) error {
	set, args, err := dbx.SetClause(fields.Keys(), fields, updatable)
	if err != nil {
		return err
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE resumes SET %s WHERE id = $%d`, set, len(args))

	return execOne(ctx, r.db, query, args...)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, `DELETE FROM resumes WHERE id = $1`, id)
}

// execOne runs a statement that must touch a row; zero rows is common.ErrNotFound.
func execOne(ctx context.Context, db dbx.DBTX, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
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
