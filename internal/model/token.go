package model

import "gorm.io/gorm"

// UserToken is the capability token handed out when a paid subscription
// becomes active. One row per email; deleted when the subscription lapses.
type UserToken struct {
	gorm.Model
	Email string `json:"email" gorm:"uniqueIndex;not null"`
	Token string `json:"token" gorm:"uniqueIndex;not null"`
	Tier  Tier   `json:"tier" gorm:"not null"`
}

func (UserToken) TableName() string {
	return "user_tokens"
}
