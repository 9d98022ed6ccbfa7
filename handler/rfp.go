package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/officialapps/govcon/middleware"
	"github.com/officialapps/govcon/model"
	"github.com/officialapps/govcon/pkg/logger"
	"github.com/officialapps/govcon/service"
)

// RFPStore is the persistence surface the RFP handlers need.
type RFPStore interface {
	CreateRFP(ctx context.Context, r *model.RFP) (*model.RFP, error)
	ListRFPsByOwner(ctx context.Context, userID int64) ([]model.RFP, error)
	GetRFP(ctx context.Context, id, userID int64) (*model.RFP, error)
	UpdateRFP(ctx context.Context, id, userID int64, upd service.RFPUpdate) error
	SetDraftText(ctx context.Context, id, userID int64, draft string) error
}

// FileStore holds the uploaded file blobs.
type FileStore interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, objectKey string) ([]byte, error)
}

// TextExtractor turns uploaded file bytes into plain text.
type TextExtractor interface {
	Extract(data []byte) (string, error)
}

// DraftGenerator produces an executive summary draft from extracted text.
type DraftGenerator interface {
	GenerateDraft(ctx context.Context, rfpText string) (string, error)
}

type RFPHandler struct {
	store     RFPStore
	files     FileStore
	extractor TextExtractor
	drafter   DraftGenerator
}

func NewRFPHandler(store RFPStore, files FileStore, extractor TextExtractor, drafter DraftGenerator) *RFPHandler {
	return &RFPHandler{
		store:     store,
		files:     files,
		extractor: extractor,
		drafter:   drafter,
	}
}

// Upload handles RFP file upload. The file is stored under a fresh
// UUID-based object key; the original filename is kept as display
// metadata only, so identical filenames never overwrite each other.
func (h *RFPHandler) Upload(c *gin.Context) {
	user := middleware.CurrentUser(c)

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed"})
		return
	}

	objectKey := fmt.Sprintf("%d/%s%s", user.ID, uuid.New().String(), ext)

	if err := h.files.Upload(c.Request.Context(), objectKey, file, header.Size, "application/pdf"); err != nil {
		logger.Error(c.Request.Context(), "failed to store upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	submissionDate := user.DefaultSubmissionDate
	if submissionDate == nil {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		submissionDate = &today
	}

	rfp := &model.RFP{
		Title:          title,
		Filename:       header.Filename,
		ObjectKey:      objectKey,
		CompanyName:    user.DefaultCompanyName,
		DocumentType:   user.DefaultDocumentType,
		SubmissionDate: submissionDate,
		UserID:         user.ID,
	}

	rfp, err = h.store.CreateRFP(c.Request.Context(), rfp)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to create rfp", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create RFP"})
		return
	}

	logger.Info(c.Request.Context(), "rfp uploaded", "rfp_id", rfp.ID, "object_key", objectKey)
	c.JSON(http.StatusOK, gin.H{
		"id":       rfp.ID,
		"title":    rfp.Title,
		"filename": rfp.Filename,
		"message":  fmt.Sprintf("RFP '%s' uploaded successfully.", rfp.Title),
	})
}

// List returns all RFPs owned by the caller.
func (h *RFPHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	rfps, err := h.store.ListRFPsByOwner(c.Request.Context(), user.ID)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list rfps", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list RFPs"})
		return
	}

	result := make([]gin.H, len(rfps))
	for i := range rfps {
		r := &rfps[i]
		result[i] = gin.H{
			"id":              r.ID,
			"title":           r.Title,
			"filename":        r.Filename,
			"company_name":    r.CompanyName,
			"document_type":   r.DocumentType,
			"submission_date": r.SubmissionDateISO(),
			"has_draft":       r.HasDraft(),
			"created_at":      r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	c.JSON(http.StatusOK, gin.H{"rfps": result})
}

// Get returns a single RFP. A missing RFP and one owned by another user
// are both a 404.
func (h *RFPHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "RFP not found"})
		return
	}

	rfp, err := h.store.GetRFP(c.Request.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "RFP not found"})
			return
		}
		logger.Error(c.Request.Context(), "failed to get rfp", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get RFP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              rfp.ID,
		"title":           rfp.Title,
		"filename":        rfp.Filename,
		"draft_text":      rfp.DraftText,
		"company_name":    rfp.CompanyName,
		"document_type":   rfp.DocumentType,
		"submission_date": rfp.SubmissionDateISO(),
	})
}

type UpdateRFPRequest struct {
	DraftText      string `json:"draft_text"`
	CompanyName    string `json:"company_name"`
	DocumentType   string `json:"document_type"`
	SubmissionDate string `json:"submission_date"` // YYYY-MM-DD
}

// Update overwrites the draft text and cover-page fields. Last write
// wins; the ownership check and the write are one statement.
func (h *RFPHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "RFP not found"})
		return
	}

	var req UpdateRFPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	submissionDate, err := time.Parse("2006-01-02", req.SubmissionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission date, expected YYYY-MM-DD"})
		return
	}

	upd := service.RFPUpdate{
		DraftText:      req.DraftText,
		CompanyName:    req.CompanyName,
		DocumentType:   req.DocumentType,
		SubmissionDate: submissionDate,
	}

	if err := h.store.UpdateRFP(c.Request.Context(), id, user.ID, upd); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "RFP not found"})
			return
		}
		logger.Error(c.Request.Context(), "failed to update rfp", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update RFP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Draft updated successfully", "rfp_id": id})
}

// GenerateDraft extracts text from the stored file and asks the external
// generator for an executive summary, then persists it. Generator
// failures are logged in full and surfaced as a sanitized 502.
func (h *RFPHandler) GenerateDraft(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "RFP not found"})
		return
	}

	rfp, err := h.store.GetRFP(c.Request.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "RFP not found"})
			return
		}
		logger.Error(c.Request.Context(), "failed to get rfp", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get RFP"})
		return
	}

	data, err := h.files.Download(c.Request.Context(), rfp.ObjectKey)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "RFP file not found"})
			return
		}
		logger.Error(c.Request.Context(), "failed to fetch rfp file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch RFP file"})
		return
	}

	text, err := h.extractor.Extract(data)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to extract text", "rfp_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract text from RFP file"})
		return
	}

	draft, err := h.drafter.GenerateDraft(c.Request.Context(), text)
	if err != nil {
		logger.Error(c.Request.Context(), "draft generation failed", "rfp_id", id, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Draft generation failed"})
		return
	}

	if err := h.store.SetDraftText(c.Request.Context(), id, user.ID, draft); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "RFP not found"})
			return
		}
		logger.Error(c.Request.Context(), "failed to persist draft", "rfp_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save draft"})
		return
	}

	logger.Info(c.Request.Context(), "draft generated", "rfp_id", id)
	c.JSON(http.StatusOK, gin.H{
		"rfp_id": id,
		"title":  rfp.Title,
		"draft":  draft,
	})
}
