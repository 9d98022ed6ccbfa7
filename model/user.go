package model

import "time"

// User is a registered account. Every RFP belongs to exactly one user.
type User struct {
	ID                    int64      `json:"id"`
	Email                 string     `json:"email"`
	HashedPassword        string     `json:"-"`
	DefaultCompanyName    string     `json:"default_company_name"`
	DefaultDocumentType   string     `json:"default_document_type"`
	DefaultSubmissionDate *time.Time `json:"default_submission_date,omitempty"`
	IsActive              bool       `json:"is_active"`
	CreatedAt             time.Time  `json:"created_at"`
}
