package repository

import (
	"github.com/kuzmin-dev/counterparty-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user. Username and email uniqueness is enforced by the
// database unique indexes, so a concurrent duplicate surfaces here as a
// constraint violation rather than slipping past an application pre-check.
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email address
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByResetToken finds a user holding the given password reset token
func (r *GormUserRepository) FindByResetToken(token string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("reset_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user and all owned data in a transaction
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var counterpartyIDs []uint64
		if err := tx.Model(&models.Counterparty{}).
			Where("user_id = ?", id).
			Pluck("id", &counterpartyIDs).Error; err != nil {
			return err
		}

		if len(counterpartyIDs) > 0 {
			if err := tx.Where("counterparty_id IN ?", counterpartyIDs).Delete(&models.Phone{}).Error; err != nil {
				return err
			}
			if err := tx.Where("counterparty_id IN ?", counterpartyIDs).Delete(&models.Email{}).Error; err != nil {
				return err
			}
			if err := tx.Where("counterparty_id IN ?", counterpartyIDs).Delete(&models.Website{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", id).Delete(&models.Counterparty{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
