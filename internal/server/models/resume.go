package models

import "time"

// ResumeStatusDraft is assigned to new résumés when no status is given.
// Status values are otherwise opaque to the server.
const ResumeStatusDraft = "draft"

type Resume struct {
	ID            string
	AccountID     string
	Title         string
	Content       string
	Status        string
	AttachmentKey string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// AuthorName is the owner's profile name; filled by read queries only.
	AuthorName string
}

// Fields returns the audited attributes of the résumé.
func (r *Resume) Fields() Fields {
	return Fields{
		"title":          r.Title,
		"content":        r.Content,
		"status":         r.Status,
		"attachment_key": r.AttachmentKey,
	}
}

// ResumeOrder selects the sort column and direction of a résumé listing.
type ResumeOrder struct {
	Key  string
	Desc bool
}

const (
	ResumeOrderCreatedAt = "createdAt"
	ResumeOrderUpdatedAt = "updatedAt"
	ResumeOrderTitle     = "title"
	ResumeOrderStatus    = "status"
)

// DefaultResumeOrder lists newest résumés first.
var DefaultResumeOrder = ResumeOrder{Key: ResumeOrderCreatedAt, Desc: true}
