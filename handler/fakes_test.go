package handler

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/officialapps/govcon/model"
	"github.com/officialapps/govcon/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUserStore is an in-memory UserStore for handler tests.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (s *fakeUserStore) CreateUser(_ context.Context, email, hashedPassword string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[email]; exists {
		return nil, service.ErrConflict
	}
	s.nextID++
	u := &model.User{
		ID:                  s.nextID,
		Email:               email,
		HashedPassword:      hashedPassword,
		DefaultCompanyName:  "GovCon AI",
		DefaultDocumentType: "Proposal",
		IsActive:            true,
		CreatedAt:           time.Now(),
	}
	s.users[email] = u
	return u, nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, service.ErrNotFound
}

// fakeRFPStore is an in-memory RFPStore for handler tests.
type fakeRFPStore struct {
	mu     sync.Mutex
	nextID int64
	rfps   map[int64]*model.RFP
}

func newFakeRFPStore() *fakeRFPStore {
	return &fakeRFPStore{rfps: make(map[int64]*model.RFP)}
}

func (s *fakeRFPStore) CreateRFP(_ context.Context, r *model.RFP) (*model.RFP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	stored := *r
	s.rfps[r.ID] = &stored
	return r, nil
}

func (s *fakeRFPStore) ListRFPsByOwner(_ context.Context, userID int64) ([]model.RFP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.RFP
	for _, r := range s.rfps {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (s *fakeRFPStore) GetRFP(_ context.Context, id, userID int64) (*model.RFP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rfps[id]
	if !ok || r.UserID != userID {
		return nil, service.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *fakeRFPStore) UpdateRFP(_ context.Context, id, userID int64, upd service.RFPUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rfps[id]
	if !ok || r.UserID != userID {
		return service.ErrNotFound
	}
	draft := upd.DraftText
	date := upd.SubmissionDate
	r.DraftText = &draft
	r.CompanyName = upd.CompanyName
	r.DocumentType = upd.DocumentType
	r.SubmissionDate = &date
	r.UpdatedAt = time.Now()
	return nil
}

func (s *fakeRFPStore) SetDraftText(_ context.Context, id, userID int64, draft string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rfps[id]
	if !ok || r.UserID != userID {
		return service.ErrNotFound
	}
	r.DraftText = &draft
	r.UpdatedAt = time.Now()
	return nil
}

// fakeFileStore is an in-memory FileStore for handler tests.
type fakeFileStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{objects: make(map[string][]byte)}
}

func (s *fakeFileStore) Upload(_ context.Context, objectKey string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = data
	return nil
}

func (s *fakeFileStore) Download(_ context.Context, objectKey string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objectKey]
	if !ok {
		return nil, service.ErrNotFound
	}
	return data, nil
}

// fakeExtractor returns the raw bytes as text.
type fakeExtractor struct {
	err error
}

func (e *fakeExtractor) Extract(data []byte) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return string(data), nil
}

// fakeDrafter returns a deterministic draft derived from the input text.
type fakeDrafter struct {
	err   error
	calls []string
}

func (d *fakeDrafter) GenerateDraft(_ context.Context, rfpText string) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.calls = append(d.calls, rfpText)
	return "SUMMARY: " + rfpText, nil
}

// asUser binds a handler behind a context with the given authenticated user.
func asUser(user *model.User, fn gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("current_user", user)
		fn(c)
	}
}
