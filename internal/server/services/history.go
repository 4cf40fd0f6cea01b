package services

import (
	"context"
	"database/sql"
	"fmt"
	"maps"

	"github.com/dmitrijs2005/resumehub/internal/dbx"
	"github.com/dmitrijs2005/resumehub/internal/server/models"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/repomanager"
)

// FieldChange is one differing field between a snapshot and an update.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// Diff returns one FieldChange per key of update whose value differs from
// old, ordered by field name. Keys absent from old compare against "".
func Diff(old, update models.Fields) []FieldChange {
	var changes []FieldChange
	for _, k := range update.Keys() {
		if old[k] == update[k] {
			continue
		}
		changes = append(changes, FieldChange{Field: k, Old: old[k], New: update[k]})
	}
	return changes
}

// Target is a table whose rows are updated with history.
type Target interface {
	// Kind names the target in change records.
	Kind() string
	// Snapshot reads and locks the row, returning its owner and audited fields.
	Snapshot(ctx context.Context, tx dbx.DBTX, id string) (ownerID string, fields models.Fields, err error)
	Write(ctx context.Context, tx dbx.DBTX, id string, fields models.Fields) error
}

// HistoryResult describes a committed update.
type HistoryResult struct {
	OwnerID string
	Before  models.Fields
	After   models.Fields
	Records []*models.ChangeRecord
}

// HistoryRecorder applies partial updates together with their change records.
type HistoryRecorder struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewHistoryRecorder(db *sql.DB, m repomanager.RepositoryManager) *HistoryRecorder {
	return &HistoryRecorder{db: db, repomanager: m}
}

// ApplyWithHistory updates target row id with update and appends one change
// record per field that actually changed, all in one read-committed
// transaction. The snapshot is taken under a row lock inside that
// transaction, so concurrent updates of the same row are serialised and every
// record's old value equals the value it replaced. policy is checked against
// the snapshot's owner before anything is written. An update that changes
// nothing writes nothing.
func (h *HistoryRecorder) ApplyWithHistory(ctx context.Context, target Target, id string, update models.Fields, policy Policy, actor Actor) (*HistoryResult, error) {
	var result *HistoryResult

	err := dbx.WithTx(ctx, h.db, dbx.ReadCommitted(), func(ctx context.Context, tx dbx.DBTX) error {
		ownerID, before, err := target.Snapshot(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := policy.Authorize(actor, ownerID); err != nil {
			return err
		}

		changes := Diff(before, update)

		after := maps.Clone(before)
		records := make([]*models.ChangeRecord, 0, len(changes))

		if len(changes) > 0 {
			changed := make(models.Fields, len(changes))
			for _, c := range changes {
				changed[c.Field] = c.New
				after[c.Field] = c.New
			}

			if err := target.Write(ctx, tx, id, changed); err != nil {
				return fmt.Errorf("error updating %s: %w", target.Kind(), err)
			}

			repo := h.repomanager.Changes(tx)
			for _, c := range changes {
				rec, err := repo.Create(ctx, &models.ChangeRecord{
					AccountID: ownerID,
					Target:    target.Kind(),
					TargetID:  id,
					Field:     c.Field,
					OldValue:  c.Old,
					NewValue:  c.New,
				})
				if err != nil {
					return fmt.Errorf("error recording change: %w", err)
				}
				records = append(records, rec)
			}
		}

		result = &HistoryResult{OwnerID: ownerID, Before: before, After: after, Records: records}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

type profileTarget struct {
	repomanager repomanager.RepositoryManager
}

func (profileTarget) Kind() string { return models.TargetProfile }

func (t profileTarget) Snapshot(ctx context.Context, tx dbx.DBTX, accountID string) (string, models.Fields, error) {
	p, err := t.repomanager.Profiles(tx).GetByAccountIDForUpdate(ctx, accountID)
	if err != nil {
		return "", nil, err
	}
	return p.AccountID, p.Fields(), nil
}

func (t profileTarget) Write(ctx context.Context, tx dbx.DBTX, accountID string, fields models.Fields) error {
	return t.repomanager.Profiles(tx).UpdateFields(ctx, accountID, fields)
}

type resumeTarget struct {
	repomanager repomanager.RepositoryManager
}

func (resumeTarget) Kind() string { return models.TargetResume }

func (t resumeTarget) Snapshot(ctx context.Context, tx dbx.DBTX, id string) (string, models.Fields, error) {
	r, err := t.repomanager.Resumes(tx).GetByIDForUpdate(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return r.AccountID, r.Fields(), nil
}

func (t resumeTarget) Write(ctx context.Context, tx dbx.DBTX, id string, fields models.Fields) error {
	return t.repomanager.Resumes(tx).UpdateFields(ctx, id, fields)
}
