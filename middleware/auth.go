package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/officialapps/govcon/config"
	"github.com/officialapps/govcon/model"
	"github.com/officialapps/govcon/pkg/logger"
	"github.com/officialapps/govcon/service"
)

const userContextKey = "current_user"

// Claims represents the JWT claims. The subject is the user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// UserResolver resolves a token subject to a stored user record.
type UserResolver interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// GenerateToken signs a bearer token for the given email.
func GenerateToken(email string, cfg *config.AuthConfig) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(cfg.TokenExpireMinutes) * time.Minute)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// AuthMiddleware validates the bearer token and resolves its subject to a
// user record. A valid signature with an unknown subject is rejected the
// same as a bad token.
func AuthMiddleware(cfg *config.AuthConfig, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid || claims.Subject == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		user, err := users.GetUserByEmail(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			c.Abort()
			return
		}

		c.Set(userContextKey, user)

		// Add to request context for logger
		ctx := context.WithValue(c.Request.Context(), logger.EmailKey, user.Email)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// CurrentUser gets the authenticated user from context. It is only valid
// behind AuthMiddleware.
func CurrentUser(c *gin.Context) *model.User {
	if user, exists := c.Get(userContextKey); exists {
		return user.(*model.User)
	}
	return nil
}
