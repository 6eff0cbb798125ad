package dto

import (
	"time"

	"github.com/kuzmin-dev/counterparty-api/internal/models"
)

// CounterpartyDTO represents a counterparty in API responses. Contact
// collections are flattened to plain string lists in stored order.
type CounterpartyDTO struct {
	ID            uint64    `json:"id"`
	OrgName       string    `json:"org_name"`
	INN           string    `json:"inn"`
	ContactPerson string    `json:"contact_person"`
	Position      string    `json:"position"`
	Address       string    `json:"address"`
	Phones        []string  `json:"phones"`
	Emails        []string  `json:"emails"`
	Websites      []string  `json:"websites"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToCounterpartyDTO converts a Counterparty model to CounterpartyDTO
func ToCounterpartyDTO(cp models.Counterparty) CounterpartyDTO {
	phones := make([]string, len(cp.Phones))
	for i, p := range cp.Phones {
		phones[i] = p.Number
	}

	emails := make([]string, len(cp.Emails))
	for i, e := range cp.Emails {
		emails[i] = e.Address
	}

	websites := make([]string, len(cp.Websites))
	for i, w := range cp.Websites {
		websites[i] = w.URL
	}

	return CounterpartyDTO{
		ID:            cp.ID,
		OrgName:       cp.OrgName,
		INN:           cp.INN,
		ContactPerson: cp.ContactPerson,
		Position:      cp.Position,
		Address:       cp.Address,
		Phones:        phones,
		Emails:        emails,
		Websites:      websites,
		CreatedAt:     cp.CreatedAt,
	}
}

// ToCounterpartyDTOs converts a slice of counterparties preserving order
func ToCounterpartyDTOs(cps []models.Counterparty) []CounterpartyDTO {
	dtos := make([]CounterpartyDTO, len(cps))
	for i, cp := range cps {
		dtos[i] = ToCounterpartyDTO(cp)
	}
	return dtos
}
