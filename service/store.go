package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/officialapps/govcon/model"
)

const uniqueViolation = "23505"

// Store provides PostgreSQL persistence for users and RFPs.
//
// Every RFP query carries the owner's user id in its predicate, so an
// unowned row is indistinguishable from a missing one by construction.
// Mutations are single ownership-predicated statements; the database
// arbitrates concurrent writers with last-write-wins semantics.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CreateUser inserts a user and returns the stored record with defaults
// applied. A duplicate email maps to ErrConflict via the unique index,
// not a check-then-insert.
func (s *Store) CreateUser(ctx context.Context, email, hashedPassword string) (*model.User, error) {
	const query = `INSERT INTO users (email, hashed_password)
		VALUES ($1, $2)
		RETURNING id, email, hashed_password, default_company_name, default_document_type,
			default_submission_date, is_active, created_at`

	u, err := scanUser(s.pool.QueryRow(ctx, query, email, hashedPassword))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetUserByEmail fetches a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, email, hashed_password, default_company_name, default_document_type,
			default_submission_date, is_active, created_at
		FROM users WHERE email = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.DefaultCompanyName,
		&u.DefaultDocumentType, &u.DefaultSubmissionDate, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateRFP inserts an RFP record and fills in the generated fields.
func (s *Store) CreateRFP(ctx context.Context, r *model.RFP) (*model.RFP, error) {
	const query = `INSERT INTO rfps (title, filename, object_key, company_name, document_type, submission_date, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		r.Title, r.Filename, r.ObjectKey, r.CompanyName, r.DocumentType, r.SubmissionDate, r.UserID,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create rfp: %w", err)
	}
	return r, nil
}

// ListRFPsByOwner returns all RFPs owned by userID. Ordered by id for
// determinism; the API contract leaves ordering unspecified.
func (s *Store) ListRFPsByOwner(ctx context.Context, userID int64) ([]model.RFP, error) {
	const query = `SELECT id, title, filename, object_key, draft_text, company_name, document_type,
			submission_date, user_id, created_at, updated_at
		FROM rfps WHERE user_id = $1 ORDER BY id`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list rfps: %w", err)
	}
	defer rows.Close()

	var result []model.RFP
	for rows.Next() {
		var r model.RFP
		if err := rows.Scan(&r.ID, &r.Title, &r.Filename, &r.ObjectKey, &r.DraftText,
			&r.CompanyName, &r.DocumentType, &r.SubmissionDate, &r.UserID,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list rfps: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetRFP fetches a single RFP owned by userID. A missing row and a row
// owned by someone else both return ErrNotFound.
func (s *Store) GetRFP(ctx context.Context, id, userID int64) (*model.RFP, error) {
	const query = `SELECT id, title, filename, object_key, draft_text, company_name, document_type,
			submission_date, user_id, created_at, updated_at
		FROM rfps WHERE id = $1 AND user_id = $2`

	var r model.RFP
	err := s.pool.QueryRow(ctx, query, id, userID).Scan(&r.ID, &r.Title, &r.Filename,
		&r.ObjectKey, &r.DraftText, &r.CompanyName, &r.DocumentType, &r.SubmissionDate,
		&r.UserID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get rfp: %w", err)
	}
	return &r, nil
}

// RFPUpdate carries the fields overwritten by an explicit edit.
type RFPUpdate struct {
	DraftText      string
	CompanyName    string
	DocumentType   string
	SubmissionDate time.Time
}

// UpdateRFP overwrites the editable fields of an RFP. The ownership check
// and the write are one atomic statement; zero rows affected means the RFP
// does not exist or is not owned by userID.
func (s *Store) UpdateRFP(ctx context.Context, id, userID int64, upd RFPUpdate) error {
	const query = `UPDATE rfps
		SET draft_text = $3, company_name = $4, document_type = $5, submission_date = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2`

	tag, err := s.pool.Exec(ctx, query, id, userID,
		upd.DraftText, upd.CompanyName, upd.DocumentType, upd.SubmissionDate)
	if err != nil {
		return fmt.Errorf("update rfp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDraftText persists a generated draft onto an RFP, re-checking
// ownership in the same statement.
func (s *Store) SetDraftText(ctx context.Context, id, userID int64, draft string) error {
	const query = `UPDATE rfps SET draft_text = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2`

	tag, err := s.pool.Exec(ctx, query, id, userID, draft)
	if err != nil {
		return fmt.Errorf("set draft text: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
