package models

type Website struct {
	ID             uint64 `gorm:"primarykey" json:"id"`
	CounterpartyID uint64 `gorm:"not null;index" json:"counterparty_id"`
	URL            string `gorm:"type:varchar(500);not null" json:"url"`
}
