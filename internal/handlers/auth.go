package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/kuzmin-dev/counterparty-api/internal/constants"
	"github.com/kuzmin-dev/counterparty-api/internal/dto"
	apierrors "github.com/kuzmin-dev/counterparty-api/internal/errors"
	"github.com/kuzmin-dev/counterparty-api/internal/i18n"
	"github.com/kuzmin-dev/counterparty-api/internal/middleware"
	"github.com/kuzmin-dev/counterparty-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup registers a new user.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Password string `json:"password" binding:"required"`
		Email    string `json:"email" binding:"omitempty,email"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, i18n.T(middleware.GetLocale(c), i18n.MsgInvalidRequest))
		return
	}

	user, err := h.authService.Signup(services.SignupInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    dto.ToUserDTO(*user),
	})
}

// Login authenticates a user and initializes the session. With "remember"
// set the session cookie survives the browser for thirty days; otherwise it
// is a plain browser-session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Remember bool   `json:"remember"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, i18n.T(middleware.GetLocale(c), i18n.MsgInvalidRequest))
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if req.Remember {
		session.Options(sessions.Options{
			Path:     "/",
			MaxAge:   int(constants.RememberMeDuration.Seconds()),
			HttpOnly: true,
		})
	}
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, i18n.T(middleware.GetLocale(c), i18n.MsgInternalError))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.ToUserDTO(*user),
	})
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, i18n.T(middleware.GetLocale(c), i18n.MsgInternalError))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": i18n.T(middleware.GetLocale(c), i18n.MsgLoggedOut),
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, i18n.T(middleware.GetLocale(c), i18n.MsgLoginRequired))
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.ToUserDTO(*user),
	})
}

// DeleteAccount removes the authenticated user and all owned data.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, i18n.T(middleware.GetLocale(c), i18n.MsgLoginRequired))
		return
	}

	if err := h.authService.DeleteUser(userID); err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("Failed to clear session after account deletion: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": i18n.T(middleware.GetLocale(c), i18n.MsgAccountDeleted),
	})
}

// RequestPasswordReset issues a reset token and mails the reset link. The
// response is the same acknowledgment whether or not the email is registered
// and whether or not delivery worked.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	type ResetRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, i18n.T(middleware.GetLocale(c), i18n.MsgInvalidRequest))
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		log.Printf("Password reset request failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": i18n.T(middleware.GetLocale(c), i18n.MsgCheckYourEmail),
	})
}

// ConfirmPasswordReset exchanges a reset token for a new password.
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	type ConfirmRequest struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, i18n.T(middleware.GetLocale(c), i18n.MsgInvalidRequest))
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": i18n.T(middleware.GetLocale(c), i18n.MsgPasswordUpdated),
	})
}

func respondAuthError(c *gin.Context, err error) {
	locale := middleware.GetLocale(c)
	switch {
	case errors.Is(err, services.ErrUsernameRequired):
		apierrors.BadRequest(c, i18n.T(locale, i18n.MsgInvalidRequest))
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, i18n.T(locale, i18n.MsgPasswordTooShort))
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, i18n.T(locale, i18n.MsgUsernameTaken))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, i18n.T(locale, i18n.MsgEmailTaken))
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, i18n.T(locale, i18n.MsgInvalidCredentials))
	case errors.Is(err, services.ErrInvalidResetToken):
		apierrors.BadRequest(c, i18n.T(locale, i18n.MsgInvalidResetToken))
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, i18n.T(locale, i18n.MsgLoginRequired))
	default:
		log.Printf("Unexpected auth error: %v", err)
		apierrors.InternalError(c, i18n.T(locale, i18n.MsgInternalError))
	}
}
