package handlers

import (
	"errors"
	"net/http"

	"taskify/internal/apierr"
	"taskify/internal/config"
	"taskify/internal/models"
	"taskify/internal/services"
	"taskify/internal/sessions"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler is the identity boundary: sign-up, sign-in, sign-out,
// current-session, and the session-to-bearer-token exchange.
type AuthHandler struct {
	db              *gorm.DB
	authService     services.AuthService
	registerService services.RegisterService
	sessionStore    sessions.Store
	authCfg         config.AuthConfig
}

func NewAuthHandler(db *gorm.DB, authService services.AuthService, registerService services.RegisterService, store sessions.Store, authCfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		db:              db,
		authService:     authService,
		registerService: registerService,
		sessionStore:    store,
		authCfg:         authCfg,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, apierr.CodeValidation, "email and a password of at least 8 characters are required")
		return
	}

	user, err := h.registerService.RegisterUser(h.db, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			respondError(c, http.StatusConflict, apierr.CodeConflict, "email already registered")
		} else {
			respondError(c, http.StatusInternalServerError, apierr.CodeInternal, "failed to register user")
		}
		return
	}

	h.establishSession(c, user, http.StatusCreated)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Same generic message as a failed credential check: the response
		// must not reveal whether the email exists.
		respondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, "invalid email or password")
		return
	}

	user, err := h.authService.Authenticate(h.db, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, "invalid email or password")
		} else {
			respondError(c, http.StatusInternalServerError, apierr.CodeInternal, "failed to sign in")
		}
		return
	}

	h.establishSession(c, user, http.StatusOK)
}

func (h *AuthHandler) establishSession(c *gin.Context, user *models.User, status int) {
	session, err := h.sessionStore.Create(c.Request.Context(), user.ID, h.authCfg.SessionTTL)
	if err != nil {
		respondError(c, http.StatusInternalServerError, apierr.CodeInternal, "failed to create session")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.authCfg.CookieName, session.ID, int(h.authCfg.SessionTTL.Seconds()), "/", "", false, true)
	c.JSON(status, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(h.authCfg.CookieName); err == nil {
		// Best effort: the cookie is cleared even if the store delete fails.
		_ = h.sessionStore.Delete(c.Request.Context(), id)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.authCfg.CookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// Session reports the current session as ready (200 with the user) or
// absent (401).
func (h *AuthHandler) Session(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Token exchanges a valid session cookie for a short-lived signed bearer
// token scoped to the task API.
func (h *AuthHandler) Token(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}

	token, err := h.authService.IssueToken(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, apierr.CodeInternal, "failed to issue token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) sessionUser(c *gin.Context) (*models.User, bool) {
	id, err := c.Cookie(h.authCfg.CookieName)
	if err != nil {
		respondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, "no active session")
		return nil, false
	}

	session, err := h.sessionStore.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			respondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, "session expired or invalid")
		} else {
			respondError(c, http.StatusInternalServerError, apierr.CodeInternal, "failed to load session")
		}
		return nil, false
	}

	var user models.User
	if err := h.db.Where("id = ? AND is_active = ?", session.UserID, true).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, "session expired or invalid")
		return nil, false
	}
	return &user, true
}
