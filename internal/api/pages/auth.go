package pages

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/postline/postline/internal/auth"
	"github.com/postline/postline/internal/models"
)

// AuthHandlers serves signup and login
type AuthHandlers struct {
	*Handlers
	tokens *auth.Manager
}

// NewAuthHandlers creates the auth page handlers
func NewAuthHandlers(h *Handlers, tokens *auth.Manager) *AuthHandlers {
	return &AuthHandlers{Handlers: h, tokens: tokens}
}

type signupInput struct {
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Password  string `form:"password" json:"password"`
}

type loginInput struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Signup registers a user and issues a token pair
func (h *AuthHandlers) Signup(c *gin.Context) {
	var in signupInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"form": "invalid form data"}})
		return
	}

	errs := map[string]string{}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		errs["username"] = "this field is required"
	}
	if len(in.Password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	existing, err := h.users.GetByUsername(c.Request.Context(), in.Username)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"username": "username is already taken"}})
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		h.serverError(c, err)
		return
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.serverError(c, err)
		return
	}

	h.logger.Info("user registered", zap.String("username", user.Username))
	h.issuePair(c, user, http.StatusCreated)
}

// LoginForm serves the login page context; this is also the redirect
// target for guarded routes
func (h *AuthHandlers) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "login"})
}

// Login verifies credentials and issues a token pair
func (h *AuthHandlers) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"form": "invalid form data"}})
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), in.Username)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, in.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"form": "invalid username or password"}})
		return
	}

	h.issuePair(c, user, http.StatusOK)
}

// Refresh exchanges a valid refresh token for a fresh pair
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var in struct {
		RefreshToken string `form:"refresh_token" json:"refresh_token"`
	}
	if err := c.ShouldBind(&in); err != nil || in.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"refresh_token": "this field is required"}})
		return
	}

	pair, err := h.tokens.Refresh(in.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid refresh token"})
		return
	}

	c.SetCookie(auth.SessionCookie, pair.AccessToken, int(auth.AccessTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Me returns the authenticated caller's identity
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)
	username, _ := auth.CurrentUsername(c)
	c.JSON(http.StatusOK, gin.H{
		"id":       userID,
		"username": username,
	})
}

func (h *AuthHandlers) issuePair(c *gin.Context, user *models.User, status int) {
	pair, err := h.tokens.GeneratePair(user.ID, user.Username)
	if err != nil {
		h.serverError(c, err)
		return
	}

	// The cookie carries the access token for page navigation; API
	// clients use the Authorization header instead.
	c.SetCookie(auth.SessionCookie, pair.AccessToken, int(auth.AccessTTL.Seconds()), "/", "", false, true)
	c.JSON(status, gin.H{
		"username":      user.Username,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}
