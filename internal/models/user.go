package models

import (
	"time"
)

type User struct {
	ID               uint64     `gorm:"primarykey" json:"id"`
	Username         string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash     string     `gorm:"type:varchar(255);not null" json:"-"`
	Email            *string    `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	ResetToken       *string    `gorm:"type:varchar(64);index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relations
	Counterparties []Counterparty `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
