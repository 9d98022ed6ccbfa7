package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/officialapps/govcon/config"
	"github.com/officialapps/govcon/middleware"
	"github.com/officialapps/govcon/model"
	"github.com/officialapps/govcon/pkg/logger"
	"github.com/officialapps/govcon/service"
)

// UserStore is the persistence surface the auth handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, email, hashedPassword string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type AuthHandler struct {
	users  UserStore
	config *config.Config
}

func NewAuthHandler(users UserStore, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, config: cfg}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Email, string(hash))
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		logger.Error(c.Request.Context(), "failed to create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	logger.Info(c.Request.Context(), "user registered", "user_id", user.ID)
	c.JSON(http.StatusOK, RegisterResponse{ID: user.ID, Email: user.Email})
}

// Login authenticates with form-encoded credentials (password grant style)
// and issues a bearer token. Unknown email and wrong password produce the
// same response.
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logger.Error(c.Request.Context(), "failed to look up user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, expiresAt, err := middleware.GenerateToken(user.Email, &h.config.Auth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// GetCurrentUser returns the authenticated user's profile.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	c.JSON(http.StatusOK, user)
}
