package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kuzmin-dev/counterparty-api/internal/models"
	"github.com/kuzmin-dev/counterparty-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrOrgNameRequired      = errors.New("organization name is required")
	ErrCounterpartyNotFound = errors.New("counterparty not found")
)

// FieldSelector names the attribute(s) a search query targets.
type FieldSelector string

const (
	FieldAll           FieldSelector = "all"
	FieldOrgName       FieldSelector = "org_name"
	FieldINN           FieldSelector = "inn"
	FieldContactPerson FieldSelector = "contact_person"
	FieldPosition      FieldSelector = "position"
	FieldAddress       FieldSelector = "address"
	FieldPhones        FieldSelector = "phones"
	FieldEmails        FieldSelector = "emails"
	FieldWebsites      FieldSelector = "websites"
)

// CounterpartyService handles counterparty business logic
type CounterpartyService struct {
	counterpartyRepo repository.CounterpartyRepository
}

// NewCounterpartyService creates a new CounterpartyService
func NewCounterpartyService(counterpartyRepo repository.CounterpartyRepository) *CounterpartyService {
	return &CounterpartyService{
		counterpartyRepo: counterpartyRepo,
	}
}

// CounterpartyInput carries the scalar fields and the raw contact lists
// submitted for a create or update.
type CounterpartyInput struct {
	OrgName       string
	INN           string
	ContactPerson string
	Position      string
	Address       string
	Phones        []string
	Emails        []string
	Websites      []string
}

// Create validates the input and persists a counterparty with its contact
// entries in one atomic write. Empty-after-trim contact values are dropped;
// the remaining values keep their submitted order.
func (s *CounterpartyService) Create(userID uint64, input CounterpartyInput) (*models.Counterparty, error) {
	orgName := strings.TrimSpace(input.OrgName)
	if orgName == "" {
		return nil, ErrOrgNameRequired
	}

	cp := &models.Counterparty{
		OrgName:       orgName,
		INN:           strings.TrimSpace(input.INN),
		ContactPerson: strings.TrimSpace(input.ContactPerson),
		Position:      strings.TrimSpace(input.Position),
		Address:       strings.TrimSpace(input.Address),
		UserID:        userID,
	}
	applyContacts(cp, input)

	if err := s.counterpartyRepo.CreateWithContacts(cp); err != nil {
		return nil, fmt.Errorf("failed to create counterparty: %w", err)
	}

	return cp, nil
}

// Get returns a counterparty owned by the user. A record owned by someone
// else reports ErrCounterpartyNotFound, never a permission error.
func (s *CounterpartyService) Get(userID, id uint64) (*models.Counterparty, error) {
	cp, err := s.counterpartyRepo.FindByIDForUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCounterpartyNotFound
		}
		return nil, fmt.Errorf("failed to find counterparty: %w", err)
	}
	return cp, nil
}

// Update replaces the counterparty's scalar fields and swaps out its entire
// contact set for the submitted lists. Editors resubmit the complete desired
// set on every save; no per-entry identity survives an edit.
func (s *CounterpartyService) Update(userID, id uint64, input CounterpartyInput) (*models.Counterparty, error) {
	orgName := strings.TrimSpace(input.OrgName)
	if orgName == "" {
		return nil, ErrOrgNameRequired
	}

	cp, err := s.counterpartyRepo.FindByIDForUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCounterpartyNotFound
		}
		return nil, fmt.Errorf("failed to find counterparty: %w", err)
	}

	cp.OrgName = orgName
	cp.INN = strings.TrimSpace(input.INN)
	cp.ContactPerson = strings.TrimSpace(input.ContactPerson)
	cp.Position = strings.TrimSpace(input.Position)
	cp.Address = strings.TrimSpace(input.Address)
	applyContacts(cp, input)

	if err := s.counterpartyRepo.ReplaceWithContacts(cp); err != nil {
		return nil, fmt.Errorf("failed to update counterparty: %w", err)
	}

	return cp, nil
}

// Delete removes a counterparty and all of its contact entries.
func (s *CounterpartyService) Delete(userID, id uint64) error {
	if err := s.counterpartyRepo.DeleteForUser(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCounterpartyNotFound
		}
		return fmt.Errorf("failed to delete counterparty: %w", err)
	}
	return nil
}

// Search returns the user's counterparties matching the query under the given
// field selector, descending by id. An empty query returns everything the
// user owns. Matching is a case-folded substring comparison done in the
// application layer so it holds for non-ASCII text regardless of database
// collation. Unknown selectors behave like FieldAll.
func (s *CounterpartyService) Search(userID uint64, query string, selector FieldSelector) ([]models.Counterparty, error) {
	cps, err := s.counterpartyRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list counterparties: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return cps, nil
	}

	match := matcherFor(selector)
	matched := make([]models.Counterparty, 0, len(cps))
	for _, cp := range cps {
		if match(&cp, query) {
			matched = append(matched, cp)
		}
	}

	return matched, nil
}

type fieldMatcher func(cp *models.Counterparty, query string) bool

var fieldMatchers = map[FieldSelector]fieldMatcher{
	FieldOrgName:       func(cp *models.Counterparty, q string) bool { return contains(cp.OrgName, q) },
	FieldINN:           func(cp *models.Counterparty, q string) bool { return contains(cp.INN, q) },
	FieldContactPerson: func(cp *models.Counterparty, q string) bool { return contains(cp.ContactPerson, q) },
	FieldPosition:      func(cp *models.Counterparty, q string) bool { return contains(cp.Position, q) },
	FieldAddress:       func(cp *models.Counterparty, q string) bool { return contains(cp.Address, q) },
	FieldPhones:        matchPhones,
	FieldEmails:        matchEmails,
	FieldWebsites:      matchWebsites,
	FieldAll:           matchAll,
}

// matcherFor resolves a selector to its matcher. Unknown selectors fall back
// to matching across every field rather than erroring.
func matcherFor(selector FieldSelector) fieldMatcher {
	if m, ok := fieldMatchers[selector]; ok {
		return m
	}
	return matchAll
}

func matchAll(cp *models.Counterparty, q string) bool {
	return contains(cp.OrgName, q) ||
		contains(cp.INN, q) ||
		contains(cp.ContactPerson, q) ||
		contains(cp.Position, q) ||
		contains(cp.Address, q) ||
		matchPhones(cp, q) ||
		matchEmails(cp, q) ||
		matchWebsites(cp, q)
}

func matchPhones(cp *models.Counterparty, q string) bool {
	for _, p := range cp.Phones {
		if contains(p.Number, q) {
			return true
		}
	}
	return false
}

func matchEmails(cp *models.Counterparty, q string) bool {
	for _, e := range cp.Emails {
		if contains(e.Address, q) {
			return true
		}
	}
	return false
}

func matchWebsites(cp *models.Counterparty, q string) bool {
	for _, w := range cp.Websites {
		if contains(w.URL, q) {
			return true
		}
	}
	return false
}

// contains expects query already lower-cased.
func contains(value, query string) bool {
	return strings.Contains(strings.ToLower(value), query)
}

// applyContacts replaces cp's contact slices with the cleaned input lists.
func applyContacts(cp *models.Counterparty, input CounterpartyInput) {
	phones := cleanValues(input.Phones)
	cp.Phones = make([]models.Phone, len(phones))
	for i, v := range phones {
		cp.Phones[i] = models.Phone{Number: v}
	}

	emails := cleanValues(input.Emails)
	cp.Emails = make([]models.Email, len(emails))
	for i, v := range emails {
		cp.Emails[i] = models.Email{Address: v}
	}

	websites := cleanValues(input.Websites)
	cp.Websites = make([]models.Website, len(websites))
	for i, v := range websites {
		cp.Websites[i] = models.Website{URL: v}
	}
}

// cleanValues trims every value and drops the ones left empty, preserving
// the order of the survivors.
func cleanValues(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		result = append(result, v)
	}
	return result
}
