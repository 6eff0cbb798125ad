package models

import (
	"time"
)

type Counterparty struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	OrgName       string    `gorm:"type:varchar(255);not null" json:"org_name"`
	INN           string    `gorm:"type:varchar(12)" json:"inn"`
	ContactPerson string    `gorm:"type:varchar(255)" json:"contact_person"`
	Position      string    `gorm:"type:varchar(255)" json:"position"`
	Address       string    `gorm:"type:varchar(500)" json:"address"`
	UserID        uint64    `gorm:"not null;index" json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Owner    User      `gorm:"foreignKey:UserID" json:"-"`
	Phones   []Phone   `gorm:"foreignKey:CounterpartyID;constraint:OnDelete:CASCADE" json:"phones,omitempty"`
	Emails   []Email   `gorm:"foreignKey:CounterpartyID;constraint:OnDelete:CASCADE" json:"emails,omitempty"`
	Websites []Website `gorm:"foreignKey:CounterpartyID;constraint:OnDelete:CASCADE" json:"websites,omitempty"`
}
