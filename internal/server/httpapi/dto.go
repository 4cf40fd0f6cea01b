package httpapi

import (
	"time"

	"github.com/dmitrijs2005/resumehub/internal/server/models"
	"github.com/dmitrijs2005/resumehub/internal/server/services"
)

type accountDTO struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	VerificationStatus string    `json:"verificationStatus"`
	Verified           bool      `json:"verified"`
	Admin              bool      `json:"admin"`
	CreatedAt          time.Time `json:"createdAt"`
}

func toAccountDTO(a *models.Account) accountDTO {
	return accountDTO{
		ID:                 a.ID,
		Email:              a.Email,
		Name:               a.Name,
		Role:               a.Role,
		VerificationStatus: a.VerificationStatus,
		Verified:           a.IsVerified(),
		Admin:              a.IsAdmin(),
		CreatedAt:          a.CreatedAt,
	}
}

type profileDTO struct {
	accountDTO
	ProfileName string    `json:"profileName"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProfileDTO(v *services.AccountView) profileDTO {
	return profileDTO{
		accountDTO:  toAccountDTO(v.Account),
		ProfileName: v.Profile.Name,
		UpdatedAt:   v.Profile.UpdatedAt,
	}
}

type profileNameDTO struct {
	Name string `json:"name"`
}

type resumeDTO struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"accountId"`
	AuthorName    string    `json:"authorName,omitempty"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Status        string    `json:"status"`
	HasAttachment bool      `json:"hasAttachment"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toResumeDTO(r *models.Resume) resumeDTO {
	return resumeDTO{
		ID:            r.ID,
		AccountID:     r.AccountID,
		AuthorName:    r.AuthorName,
		Title:         r.Title,
		Content:       r.Content,
		Status:        r.Status,
		HasAttachment: r.AttachmentKey != "",
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toResumeDTOs(rs []*models.Resume) []resumeDTO {
	out := make([]resumeDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, toResumeDTO(r))
	}
	return out
}

type changeDTO struct {
	ID        int64     `json:"id"`
	Target    string    `json:"target"`
	TargetID  string    `json:"targetId"`
	Field     string    `json:"field"`
	OldValue  string    `json:"oldValue"`
	NewValue  string    `json:"newValue"`
	ChangedAt time.Time `json:"changedAt"`
}

func toChangeDTOs(cs []*models.ChangeRecord) []changeDTO {
	out := make([]changeDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, changeDTO{
			ID:        c.ID,
			Target:    c.Target,
			TargetID:  c.TargetID,
			Field:     c.Field,
			OldValue:  c.OldValue,
			NewValue:  c.NewValue,
			ChangedAt: c.ChangedAt,
		})
	}
	return out
}

type updateDTO[T any] struct {
	Item    T           `json:"item"`
	Changes []changeDTO `json:"changes"`
}
