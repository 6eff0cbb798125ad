package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/kuzmin-dev/counterparty-api/internal/constants"
	apierrors "github.com/kuzmin-dev/counterparty-api/internal/errors"
	"github.com/kuzmin-dev/counterparty-api/internal/i18n"
	"github.com/kuzmin-dev/counterparty-api/internal/middleware"
)

// LanguageHandler switches the session language.
type LanguageHandler struct{}

// NewLanguageHandler creates a new LanguageHandler.
func NewLanguageHandler() *LanguageHandler {
	return &LanguageHandler{}
}

// SetLanguage stores the chosen locale in the session. The confirmation
// message is already in the new language.
func (h *LanguageHandler) SetLanguage(c *gin.Context) {
	type LanguageRequest struct {
		Language string `json:"language" binding:"required"`
	}

	var req LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, i18n.T(middleware.GetLocale(c), i18n.MsgInvalidRequest))
		return
	}

	if !i18n.IsSupported(req.Language) {
		apierrors.BadRequest(c, i18n.T(middleware.GetLocale(c), i18n.MsgInvalidRequest))
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyLocale, req.Language)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, i18n.T(middleware.GetLocale(c), i18n.MsgInternalError))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  i18n.T(req.Language, i18n.MsgLanguageChanged),
		"language": req.Language,
	})
}
