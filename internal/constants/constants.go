package constants

import "time"

// Session
const (
	SessionCookieName = "counterparty_session"
	ContextKeyUserID  = "user_id"
	SessionKeyLocale  = "locale"
	ContextKeyLocale  = "locale"

	// Session lifetime when "remember me" is requested at login.
	RememberMeDuration = 30 * 24 * time.Hour
)

// Validation
const (
	MinPasswordLength = 8
)

// Password reset
const (
	ResetTokenTTL = time.Hour
)
