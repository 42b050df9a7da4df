package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prajwal-kadam12/reqgen/internal/store"
	"github.com/prajwal-kadam12/reqgen/internal/utils"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users  store.UserStore
	logger *zap.Logger
}

func NewAuthHandler(users store.UserStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		logger: logger.With(zap.String("handler", "auth")),
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login checks the credentials against the seeded user table and returns
// the user record (sans password hash). The frontend carries the returned
// role on subsequent requests.
func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	user, err := ah.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		ah.logger.Error("User lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		ah.logger.Warn("Invalid password", zap.String("email", req.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	ah.logger.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}
