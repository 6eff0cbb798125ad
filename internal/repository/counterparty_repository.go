package repository

import (
	"github.com/kuzmin-dev/counterparty-api/internal/database"
	"github.com/kuzmin-dev/counterparty-api/internal/models"
	"gorm.io/gorm"
)

// GormCounterpartyRepository is a GORM implementation of CounterpartyRepository
type GormCounterpartyRepository struct {
	db *gorm.DB
}

// NewCounterpartyRepository creates a new CounterpartyRepository
func NewCounterpartyRepository(db *gorm.DB) CounterpartyRepository {
	return &GormCounterpartyRepository{db: db}
}

// CreateWithContacts creates a counterparty and its contact entries atomically.
// The contact slices on cp are inserted in the order given; a failure at any
// point rolls back the whole insert so no orphan child rows survive.
func (r *GormCounterpartyRepository) CreateWithContacts(cp *models.Counterparty) error {
	phones, emails, websites := cp.Phones, cp.Emails, cp.Websites
	cp.Phones, cp.Emails, cp.Websites = nil, nil, nil

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cp).Error; err != nil {
			return err
		}

		if err := insertContacts(tx, cp.ID, phones, emails, websites); err != nil {
			return err
		}

		cp.Phones, cp.Emails, cp.Websites = phones, emails, websites
		return nil
	})
}

// FindByIDForUser finds a counterparty by ID, restricted to the owner. A
// foreign-owned record is indistinguishable from an absent one.
func (r *GormCounterpartyRepository) FindByIDForUser(id, userID uint64) (*models.Counterparty, error) {
	var cp models.Counterparty
	err := r.db.Scopes(database.OwnedBy(userID)).
		Preload("Phones").
		Preload("Emails").
		Preload("Websites").
		First(&cp, id).Error
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

// ListByUser lists a user's counterparties, descending by id
func (r *GormCounterpartyRepository) ListByUser(userID uint64) ([]models.Counterparty, error) {
	var cps []models.Counterparty
	err := r.db.Scopes(database.OwnedBy(userID)).
		Preload("Phones").
		Preload("Emails").
		Preload("Websites").
		Order("id DESC").
		Find(&cps).Error
	if err != nil {
		return nil, err
	}
	return cps, nil
}

// ReplaceWithContacts saves the counterparty's scalar fields, then deletes all
// existing contact entries and inserts the ones carried on cp. Full
// replacement, no diffing; the delete-then-insert sequence is atomic.
func (r *GormCounterpartyRepository) ReplaceWithContacts(cp *models.Counterparty) error {
	phones, emails, websites := cp.Phones, cp.Emails, cp.Websites
	cp.Phones, cp.Emails, cp.Websites = nil, nil, nil

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Phones", "Emails", "Websites").Save(cp).Error; err != nil {
			return err
		}

		if err := deleteContacts(tx, cp.ID); err != nil {
			return err
		}

		if err := insertContacts(tx, cp.ID, phones, emails, websites); err != nil {
			return err
		}

		cp.Phones, cp.Emails, cp.Websites = phones, emails, websites
		return nil
	})
}

// DeleteForUser removes a counterparty and its contact entries, restricted to
// the owner. Deleting a record that does not exist (or is not yours) reports
// gorm.ErrRecordNotFound.
func (r *GormCounterpartyRepository) DeleteForUser(id, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var cp models.Counterparty
		if err := tx.Scopes(database.OwnedBy(userID)).First(&cp, id).Error; err != nil {
			return err
		}

		if err := deleteContacts(tx, cp.ID); err != nil {
			return err
		}

		return tx.Delete(&models.Counterparty{}, cp.ID).Error
	})
}

func insertContacts(tx *gorm.DB, counterpartyID uint64, phones []models.Phone, emails []models.Email, websites []models.Website) error {
	for i := range phones {
		phones[i].ID = 0
		phones[i].CounterpartyID = counterpartyID
		if err := tx.Create(&phones[i]).Error; err != nil {
			return err
		}
	}
	for i := range emails {
		emails[i].ID = 0
		emails[i].CounterpartyID = counterpartyID
		if err := tx.Create(&emails[i]).Error; err != nil {
			return err
		}
	}
	for i := range websites {
		websites[i].ID = 0
		websites[i].CounterpartyID = counterpartyID
		if err := tx.Create(&websites[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func deleteContacts(tx *gorm.DB, counterpartyID uint64) error {
	if err := tx.Where("counterparty_id = ?", counterpartyID).Delete(&models.Phone{}).Error; err != nil {
		return err
	}
	if err := tx.Where("counterparty_id = ?", counterpartyID).Delete(&models.Email{}).Error; err != nil {
		return err
	}
	return tx.Where("counterparty_id = ?", counterpartyID).Delete(&models.Website{}).Error
}
