package models

type Phone struct {
	ID             uint64 `gorm:"primarykey" json:"id"`
	CounterpartyID uint64 `gorm:"not null;index" json:"counterparty_id"`
	Number         string `gorm:"type:varchar(50);not null" json:"number"`
}
