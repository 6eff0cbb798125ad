package dto

import (
	"github.com/kuzmin-dev/counterparty-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}
