package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/kuzmin-dev/counterparty-api/internal/constants"
	"github.com/kuzmin-dev/counterparty-api/internal/i18n"
)

// Locale resolves the response language for the request: an explicit choice
// stored in the session wins, then the Accept-Language header, then the
// configured default.
func Locale(defaultLocale string) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := defaultLocale

		session := sessions.Default(c)
		if v, ok := session.Get(constants.SessionKeyLocale).(string); ok && i18n.IsSupported(v) {
			locale = v
		} else if header := c.GetHeader("Accept-Language"); header != "" {
			locale = i18n.Resolve(header)
		}

		c.Set(constants.ContextKeyLocale, locale)
		c.Next()
	}
}

// GetLocale retrieves the resolved locale from context
func GetLocale(c *gin.Context) string {
	if v, ok := c.Get(constants.ContextKeyLocale); ok {
		if locale, ok := v.(string); ok {
			return locale
		}
	}
	return i18n.DefaultLocale
}
