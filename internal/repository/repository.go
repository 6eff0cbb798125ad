package repository

import (
	"github.com/kuzmin-dev/counterparty-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email address
	FindByEmail(email string) (*models.User, error)

	// FindByResetToken finds a user holding the given password reset token
	FindByResetToken(token string) (*models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete removes a user together with all owned counterparties and
	// their contact entries
	Delete(id uint64) error
}

// CounterpartyRepository defines the interface for counterparty data access
type CounterpartyRepository interface {
	// CreateWithContacts creates a counterparty and its contact entries
	// within a single transaction
	CreateWithContacts(cp *models.Counterparty) error

	// FindByIDForUser finds a counterparty by ID, restricted to the given
	// owner, with contact entries preloaded
	FindByIDForUser(id, userID uint64) (*models.Counterparty, error)

	// ListByUser lists all counterparties owned by a user, newest first,
	// with contact entries preloaded
	ListByUser(userID uint64) ([]models.Counterparty, error)

	// ReplaceWithContacts updates a counterparty's scalar fields and swaps
	// out all of its contact entries within a single transaction
	ReplaceWithContacts(cp *models.Counterparty) error

	// DeleteForUser removes a counterparty and its contact entries,
	// restricted to the given owner
	DeleteForUser(id, userID uint64) error
}
