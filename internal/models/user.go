package models

import (
	"time"
)

type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" bson:"username" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
