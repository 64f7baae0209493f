package models

import "time"

// Subscriber lifecycle states. Transitions are one-directional:
// pending_confirmation → confirmed.
const (
	StatusPendingConfirmation = "pending_confirmation"
	StatusConfirmed           = "confirmed"
)

// SubscriberModel is a newsletter subscriber.
type SubscriberModel struct {
	Base
	Email        string    `json:"email"  gorm:"uniqueIndex;not null"`
	Name         string    `json:"name"   gorm:"not null"`
	Status       string    `json:"status" gorm:"not null;default:pending_confirmation"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

func (SubscriberModel) TableName() string { return "subscriptions" }

// SubscriptionTokenModel pairs a confirmation token with its subscriber. A
// pending subscriber has exactly one live token; the row is kept after
// confirmation and simply stops having any effect.
type SubscriptionTokenModel struct {
	Base
	SubscriberID string `json:"-"     gorm:"index;not null"`
	Token        string `json:"token" gorm:"uniqueIndex;not null;column:subscription_token"`
}

func (SubscriptionTokenModel) TableName() string { return "subscription_tokens" }
