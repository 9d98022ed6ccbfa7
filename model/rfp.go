package model

import "time"

// RFP represents a Request for Proposal document owned by a user.
// ObjectKey locates the uploaded file in object storage; Filename is the
// original upload name and is display metadata only.
type RFP struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Filename       string     `json:"filename"`
	ObjectKey      string     `json:"-"`
	DraftText      *string    `json:"draft_text"`
	CompanyName    string     `json:"company_name"`
	DocumentType   string     `json:"document_type"`
	SubmissionDate *time.Time `json:"-"`
	UserID         int64      `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// SubmissionDateISO renders the submission date as an ISO date string,
// or nil when unset.
func (r *RFP) SubmissionDateISO() *string {
	if r.SubmissionDate == nil {
		return nil
	}
	s := r.SubmissionDate.Format("2006-01-02")
	return &s
}

// HasDraft reports whether a draft has been generated or edited.
func (r *RFP) HasDraft() bool {
	return r.DraftText != nil && *r.DraftText != ""
}
