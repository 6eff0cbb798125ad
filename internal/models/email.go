package models

type Email struct {
	ID             uint64 `gorm:"primarykey" json:"id"`
	CounterpartyID uint64 `gorm:"not null;index" json:"counterparty_id"`
	Address        string `gorm:"type:varchar(255);not null" json:"address"`
}
