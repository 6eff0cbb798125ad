package database

import (
	"gorm.io/gorm"
)

// OwnedBy restricts a query to records belonging to the given user.
func OwnedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
