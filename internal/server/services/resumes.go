package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/resumehub/internal/common"
	"github.com/dmitrijs2005/resumehub/internal/dbx"
	"github.com/dmitrijs2005/resumehub/internal/logging"
	"github.com/dmitrijs2005/resumehub/internal/server/models"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/resumehub/internal/server/storage"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

// ObjectStorage presigns attachment URLs.
type ObjectStorage interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// newObjectKey is a seam for tests.
var newObjectKey = storage.NewObjectKey

// ResumeInput is the payload of résumé creation. Status defaults to draft.
type ResumeInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

func (in ResumeInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, notBlank),
		validation.Field(&in.Content, validation.Required, notBlank),
		validation.Field(&in.Status, notBlank),
	)
}

// ResumePatch is a partial résumé update; nil fields are left alone.
// Status is passed through untouched; no transitions are enforced.
type ResumePatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Status  *string `json:"status"`
}

func (p ResumePatch) Validate() error {
	if p.Title == nil && p.Content == nil && p.Status == nil {
		return errors.New("at least one of title, content, status is required")
	}
	errs := validation.Errors{}
	for name, v := range map[string]*string{"title": p.Title, "content": p.Content, "status": p.Status} {
		if v != nil {
			errs[name] = validation.Validate(strings.TrimSpace(*v), validation.Required)
		}
	}
	return errs.Filter()
}

func (p ResumePatch) fields() models.Fields {
	f := models.Fields{}
	if p.Title != nil {
		f["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Content != nil {
		f["content"] = *p.Content
	}
	if p.Status != nil {
		f["status"] = strings.TrimSpace(*p.Status)
	}
	return f
}

// ResumeUpdate is the outcome of an audited résumé update.
type ResumeUpdate struct {
	Resume  *models.Resume
	Changes []*models.ChangeRecord
}

// Attachment is a presigned URL for a résumé's attached file.
type Attachment struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ResumeService implements résumé CRUD. Every mutation goes through exactly
// one Policy: OwnerPolicy for the owner paths, AdminPolicy for the admin paths.
type ResumeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	recorder    *HistoryRecorder
	storage     ObjectStorage
	logger      logging.Logger
}

func NewResumeService(db *sql.DB, m repomanager.RepositoryManager, recorder *HistoryRecorder, storage ObjectStorage, logger logging.Logger) *ResumeService {
	return &ResumeService{
		db:          db,
		repomanager: m,
		recorder:    recorder,
		storage:     storage,
		logger:      logger.With("module", "resumes"),
	}
}

func (s *ResumeService) Create(ctx context.Context, actor Actor, in ResumeInput) (*models.Resume, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Status = strings.TrimSpace(in.Status)
	if err := in.Validate(); err != nil {
		return nil, common.NewValidationError(err)
	}
	if in.Status == "" {
		in.Status = models.ResumeStatusDraft
	}

	r, err := s.repomanager.Resumes(s.db).Create(ctx, &models.Resume{
		AccountID: actor.AccountID,
		Title:     in.Title,
		Content:   in.Content,
		Status:    in.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating resume: %w", err)
	}

	s.logger.Info(ctx, "resume created", "resume_id", r.ID, "account_id", actor.AccountID)
	return r, nil
}

func (s *ResumeService) List(ctx context.Context, order models.ResumeOrder) ([]*models.Resume, error) {
	return s.repomanager.Resumes(s.db).List(ctx, order)
}

func (s *ResumeService) Get(ctx context.Context, id string) (*models.Resume, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}
	return s.repomanager.Resumes(s.db).GetByID(ctx, id)
}

// Update applies patch to a résumé the actor owns.
func (s *ResumeService) Update(ctx context.Context, actor Actor, id string, patch ResumePatch) (*ResumeUpdate, error) {
	return s.update(ctx, actor, id, patch, OwnerPolicy{})
}

// AdminUpdate applies patch to any résumé; the actor must be an admin.
// Change records are attributed to the résumé's owner.
func (s *ResumeService) AdminUpdate(ctx context.Context, actor Actor, id string, patch ResumePatch) (*ResumeUpdate, error) {
	return s.update(ctx, actor, id, patch, AdminPolicy{})
}

// Delete removes a résumé the actor owns and returns it as it was.
func (s *ResumeService) Delete(ctx context.Context, actor Actor, id string) (*models.Resume, error) {
	return s.delete(ctx, actor, id, OwnerPolicy{})
}

// AdminDelete removes any résumé; the actor must be an admin.
func (s *ResumeService) AdminDelete(ctx context.Context, actor Actor, id string) (*models.Resume, error) {
	return s.delete(ctx, actor, id, AdminPolicy{})
}

// AttachmentUploadURL allocates a new object key for the résumé, records it
// as the attachment_key change and returns a presigned upload URL.
func (s *ResumeService) AttachmentUploadURL(ctx context.Context, actor Actor, id string) (*Attachment, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}

	key := newObjectKey(actor.AccountID)
	if _, err := s.recorder.ApplyWithHistory(ctx, resumeTarget{repomanager: s.repomanager}, id,
		models.Fields{"attachment_key": key}, OwnerPolicy{}, actor); err != nil {
		return nil, err
	}

	// presign only once the owner check has passed
	url, err := s.storage.PresignPut(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	return &Attachment{Key: key, URL: url}, nil
}

// AttachmentDownloadURL returns a presigned download URL, or common.ErrNotFound
// when the résumé has no attachment.
func (s *ResumeService) AttachmentDownloadURL(ctx context.Context, id string) (*Attachment, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.AttachmentKey == "" {
		return nil, common.ErrNotFound
	}

	url, err := s.storage.PresignGet(ctx, r.AttachmentKey)
	if err != nil {
		return nil, fmt.Errorf("error presigning download: %w", err)
	}

	return &Attachment{Key: r.AttachmentKey, URL: url}, nil
}

func (s *ResumeService) update(ctx context.Context, actor Actor, id string, patch ResumePatch, policy Policy) (*ResumeUpdate, error) {
	if err := patch.Validate(); err != nil {
		return nil, common.NewValidationError(err)
	}
	if !validID(id) {
		return nil, common.ErrNotFound
	}

	res, err := s.recorder.ApplyWithHistory(ctx, resumeTarget{repomanager: s.repomanager}, id, patch.fields(), policy, actor)
	if err != nil {
		return nil, err
	}

	r, err := s.repomanager.Resumes(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ResumeUpdate{Resume: r, Changes: res.Records}, nil
}

func (s *ResumeService) delete(ctx context.Context, actor Actor, id string, policy Policy) (*models.Resume, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}

	var snapshot *models.Resume
	err := dbx.WithTx(ctx, s.db, dbx.ReadCommitted(), func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Resumes(tx)

		r, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.Authorize(actor, r.AccountID); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}

		snapshot = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "resume deleted", "resume_id", id, "account_id", actor.AccountID)
	return snapshot, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
