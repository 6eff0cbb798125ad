package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kuzmin-dev/counterparty-api/internal/database"
	apierrors "github.com/kuzmin-dev/counterparty-api/internal/errors"
	"github.com/kuzmin-dev/counterparty-api/internal/i18n"
	"github.com/kuzmin-dev/counterparty-api/internal/models"
)

// RequireCounterpartyOwner checks that the counterparty in the URL belongs to
// the current user and stashes it in the context. A record owned by someone
// else answers 404, not 403, so callers cannot probe for existence.
func RequireCounterpartyOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, i18n.T(GetLocale(c), i18n.MsgInvalidRequest))
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, i18n.T(GetLocale(c), i18n.MsgLoginRequired))
			c.Abort()
			return
		}

		var cp models.Counterparty
		err = database.GetDB().
			Scopes(database.OwnedBy(userID)).
			Preload("Phones").
			Preload("Emails").
			Preload("Websites").
			First(&cp, id).Error
		if err != nil {
			apierrors.NotFound(c, i18n.T(GetLocale(c), i18n.MsgCounterpartyMissing))
			c.Abort()
			return
		}

		c.Set("counterparty", cp)
		c.Next()
	}
}
