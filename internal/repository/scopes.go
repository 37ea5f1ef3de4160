package repository

import (
	"gorm.io/gorm"
)

// OwnedBy restricts a query to rows owned by userID
func OwnedBy(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// MatchingFilter applies the optional exact-match filters of a TaskFilter
func MatchingFilter(filter TaskFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		if filter.Priority != nil {
			db = db.Where("priority = ?", *filter.Priority)
		}
		if filter.Category != nil {
			db = db.Where("category = ?", *filter.Category)
		}
		return db
	}
}
