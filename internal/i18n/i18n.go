// Package i18n holds the localized API messages and locale negotiation.
package i18n

import (
	"golang.org/x/text/language"
)

const DefaultLocale = "en"

var supported = []language.Tag{
	language.English,
	language.Russian,
}

var matcher = language.NewMatcher(supported)

var locales = map[language.Tag]string{
	language.English: "en",
	language.Russian: "ru",
}

// Message ids
const (
	MsgLoginRequired       = "login_required"
	MsgInvalidCredentials  = "invalid_credentials"
	MsgLoggedOut           = "logged_out"
	MsgUsernameTaken       = "username_taken"
	MsgEmailTaken          = "email_taken"
	MsgPasswordTooShort    = "password_too_short"
	MsgAccountDeleted      = "account_deleted"
	MsgCounterpartyCreated = "counterparty_created"
	MsgCounterpartyUpdated = "counterparty_updated"
	MsgCounterpartyDeleted = "counterparty_deleted"
	MsgCounterpartyMissing = "counterparty_missing"
	MsgOrgNameRequired     = "org_name_required"
	MsgCheckYourEmail      = "check_your_email"
	MsgPasswordUpdated     = "password_updated"
	MsgInvalidResetToken   = "invalid_reset_token"
	MsgLanguageChanged     = "language_changed"
	MsgInvalidRequest      = "invalid_request"
	MsgInternalError       = "internal_error"
)

var catalog = map[string]map[string]string{
	"en": {
		MsgLoginRequired:       "Authentication required",
		MsgInvalidCredentials:  "Invalid username or password",
		MsgLoggedOut:           "Logged out successfully",
		MsgUsernameTaken:       "This username is already taken",
		MsgEmailTaken:          "This email is already registered",
		MsgPasswordTooShort:    "Password is too short",
		MsgAccountDeleted:      "Account deleted",
		MsgCounterpartyCreated: "Counterparty added",
		MsgCounterpartyUpdated: "Counterparty updated",
		MsgCounterpartyDeleted: "Counterparty deleted",
		MsgCounterpartyMissing: "Counterparty not found",
		MsgOrgNameRequired:     "Organization name is required",
		MsgCheckYourEmail:      "If this email is registered, a reset link has been sent",
		MsgPasswordUpdated:     "Password updated, you can now log in",
		MsgInvalidResetToken:   "The reset link is invalid or has expired",
		MsgLanguageChanged:     "Language changed",
		MsgInvalidRequest:      "Invalid request body",
		MsgInternalError:       "Something went wrong, please try again",
	},
	"ru": {
		MsgLoginRequired:       "Требуется вход в систему",
		MsgInvalidCredentials:  "Неверное имя пользователя или пароль",
		MsgLoggedOut:           "Вы вышли из системы",
		MsgUsernameTaken:       "Это имя пользователя уже занято",
		MsgEmailTaken:          "Этот email уже зарегистрирован",
		MsgPasswordTooShort:    "Пароль слишком короткий",
		MsgAccountDeleted:      "Аккаунт удалён",
		MsgCounterpartyCreated: "Контрагент добавлен",
		MsgCounterpartyUpdated: "Контрагент обновлён",
		MsgCounterpartyDeleted: "Контрагент удалён",
		MsgCounterpartyMissing: "Контрагент не найден",
		MsgOrgNameRequired:     "Название организации обязательно",
		MsgCheckYourEmail:      "Если этот email зарегистрирован, ссылка для сброса отправлена",
		MsgPasswordUpdated:     "Пароль обновлён, теперь можно войти",
		MsgInvalidResetToken:   "Ссылка для сброса недействительна или устарела",
		MsgLanguageChanged:     "Язык изменён",
		MsgInvalidRequest:      "Некорректный запрос",
		MsgInternalError:       "Что-то пошло не так, попробуйте ещё раз",
	},
}

// Resolve maps a language preference (a locale name or an Accept-Language
// header value) to a supported locale. Unrecognized input resolves to the
// default locale.
func Resolve(pref string) string {
	if pref == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(pref)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	tag, _, _ := matcher.Match(tags...)
	if locale, ok := locales[tag]; ok {
		return locale
	}
	// Match may return a variant of a supported tag; fall back through its
	// parent chain.
	for t := tag; t != language.Und; t = t.Parent() {
		if locale, ok := locales[t]; ok {
			return locale
		}
	}
	return DefaultLocale
}

// IsSupported reports whether locale names one of the shipped catalogs.
func IsSupported(locale string) bool {
	_, ok := catalog[locale]
	return ok
}

// T returns the message for the given locale, falling back to the default
// locale for unknown locales or missing entries.
func T(locale, id string) string {
	if msgs, ok := catalog[locale]; ok {
		if msg, ok := msgs[id]; ok {
			return msg
		}
	}
	return catalog[DefaultLocale][id]
}
