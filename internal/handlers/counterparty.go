package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kuzmin-dev/counterparty-api/internal/dto"
	apierrors "github.com/kuzmin-dev/counterparty-api/internal/errors"
	"github.com/kuzmin-dev/counterparty-api/internal/i18n"
	"github.com/kuzmin-dev/counterparty-api/internal/middleware"
	"github.com/kuzmin-dev/counterparty-api/internal/models"
	"github.com/kuzmin-dev/counterparty-api/internal/services"
)

// CounterpartyHandler coordinates counterparty HTTP handlers.
type CounterpartyHandler struct {
	counterpartyService *services.CounterpartyService
}

// NewCounterpartyHandler creates a new CounterpartyHandler.
func NewCounterpartyHandler(counterpartyService *services.CounterpartyService) *CounterpartyHandler {
	return &CounterpartyHandler{
		counterpartyService: counterpartyService,
	}
}

// CounterpartyRequest is the body for create and update.
type CounterpartyRequest struct {
	OrgName       string   `json:"org_name" binding:"required"`
	INN           string   `json:"inn"`
	ContactPerson string   `json:"contact_person"`
	Position      string   `json:"position"`
	Address       string   `json:"address"`
	Phones        []string `json:"phones"`
	Emails        []string `json:"emails"`
	Websites      []string `json:"websites"`
}

func (r CounterpartyRequest) toInput() services.CounterpartyInput {
	return services.CounterpartyInput{
		OrgName:       r.OrgName,
		INN:           r.INN,
		ContactPerson: r.ContactPerson,
		Position:      r.Position,
		Address:       r.Address,
		Phones:        r.Phones,
		Emails:        r.Emails,
		Websites:      r.Websites,
	}
}

// List returns the current user's counterparties, optionally filtered by a
// search query (?q=) against a single field or all fields (?field=).
func (h *CounterpartyHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, i18n.T(middleware.GetLocale(c), i18n.MsgLoginRequired))
		return
	}

	query := c.Query("q")
	selector := services.FieldSelector(c.DefaultQuery("field", string(services.FieldAll)))

	cps, err := h.counterpartyService.Search(userID, query, selector)
	if err != nil {
		respondCounterpartyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"counterparties": dto.ToCounterpartyDTOs(cps),
	})
}

// Get returns a single counterparty. The record is already loaded, ownership
// checked, by RequireCounterpartyOwner.
func (h *CounterpartyHandler) Get(c *gin.Context) {
	cp, ok := counterpartyFromContext(c)
	if !ok {
		apierrors.InternalError(c, i18n.T(middleware.GetLocale(c), i18n.MsgInternalError))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"counterparty": dto.ToCounterpartyDTO(cp),
	})
}

// Create adds a counterparty owned by the current user.
func (h *CounterpartyHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, i18n.T(middleware.GetLocale(c), i18n.MsgLoginRequired))
		return
	}

	var req CounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, i18n.T(middleware.GetLocale(c), i18n.MsgOrgNameRequired))
		return
	}

	cp, err := h.counterpartyService.Create(userID, req.toInput())
	if err != nil {
		respondCounterpartyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      i18n.T(middleware.GetLocale(c), i18n.MsgCounterpartyCreated),
		"counterparty": dto.ToCounterpartyDTO(*cp),
	})
}

// Update replaces a counterparty's fields and its whole contact set.
func (h *CounterpartyHandler) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, i18n.T(middleware.GetLocale(c), i18n.MsgLoginRequired))
		return
	}

	cp, ok := counterpartyFromContext(c)
	if !ok {
		apierrors.InternalError(c, i18n.T(middleware.GetLocale(c), i18n.MsgInternalError))
		return
	}

	var req CounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, i18n.T(middleware.GetLocale(c), i18n.MsgOrgNameRequired))
		return
	}

	updated, err := h.counterpartyService.Update(userID, cp.ID, req.toInput())
	if err != nil {
		respondCounterpartyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      i18n.T(middleware.GetLocale(c), i18n.MsgCounterpartyUpdated),
		"counterparty": dto.ToCounterpartyDTO(*updated),
	})
}

// Delete removes a counterparty and its contact entries.
func (h *CounterpartyHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, i18n.T(middleware.GetLocale(c), i18n.MsgLoginRequired))
		return
	}

	cp, ok := counterpartyFromContext(c)
	if !ok {
		apierrors.InternalError(c, i18n.T(middleware.GetLocale(c), i18n.MsgInternalError))
		return
	}

	if err := h.counterpartyService.Delete(userID, cp.ID); err != nil {
		respondCounterpartyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": i18n.T(middleware.GetLocale(c), i18n.MsgCounterpartyDeleted),
	})
}

func counterpartyFromContext(c *gin.Context) (models.Counterparty, bool) {
	v, exists := c.Get("counterparty")
	if !exists {
		return models.Counterparty{}, false
	}
	cp, ok := v.(models.Counterparty)
	return cp, ok
}

func respondCounterpartyError(c *gin.Context, err error) {
	locale := middleware.GetLocale(c)
	switch {
	case errors.Is(err, services.ErrOrgNameRequired):
		apierrors.BadRequest(c, i18n.T(locale, i18n.MsgOrgNameRequired))
	case errors.Is(err, services.ErrCounterpartyNotFound):
		apierrors.NotFound(c, i18n.T(locale, i18n.MsgCounterpartyMissing))
	default:
		log.Printf("Unexpected counterparty error: %v", err)
		apierrors.InternalError(c, i18n.T(locale, i18n.MsgInternalError))
	}
}
