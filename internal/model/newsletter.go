package model

import "time"

type NewsletterSubscription struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	SubscribedAt time.Time `gorm:"autoCreateTime"`
}

func (NewsletterSubscription) TableName() string {
	return "newsletter_subscriptions"
}
