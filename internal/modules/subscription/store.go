package subscription

import (
	"errors"
	"time"

	"github.com/tahaafzal5/zero2prod/internal/models"
	"gorm.io/gorm"
)

// ErrTokenNotFound is returned by Confirm when no subscriber owns the token.
var ErrTokenNotFound = errors.New("subscription token not found")

// Store owns the persisted subscriber records and their status transitions.
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// FindPendingTokenByEmail returns the live confirmation token for a
// subscriber still pending confirmation, or "" if there is none. Lookup
// failures are propagated, not treated as "not found".
func (s *Store) FindPendingTokenByEmail(email string) (string, error) {
	var row struct {
		Token string
	}
	err := s.db.Table("subscription_tokens").
		Select("subscription_tokens.subscription_token AS token").
		Joins("INNER JOIN subscriptions ON subscription_tokens.subscriber_id = subscriptions.id").
		Where("subscriptions.email = ? AND subscriptions.status = ?", email, models.StatusPendingConfirmation).
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return "", err
	}
	return row.Token, nil
}

// InsertSubscriberAndToken creates a pending subscriber and its confirmation
// token in a single transaction. Either both rows become visible or neither.
func (s *Store) InsertSubscriberAndToken(name, email, token string) (string, error) {
	sub := models.SubscriberModel{
		Email:        email,
		Name:         name,
		Status:       models.StatusPendingConfirmation,
		SubscribedAt: time.Now().UTC(),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		return tx.Create(&models.SubscriptionTokenModel{
			SubscriberID: sub.ID,
			Token:        token,
		}).Error
	})
	if err != nil {
		return "", err
	}
	return sub.ID, nil
}

// Confirm resolves token to its subscriber and moves the subscriber to
// confirmed. The transition is one-way: confirming an already-confirmed
// subscriber is a no-op success. The token row is kept; it simply has no
// further effect.
func (s *Store) Confirm(token string) error {
	var t models.SubscriptionTokenModel
	if err := s.db.Where("subscription_token = ?", token).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		return err
	}

	var sub models.SubscriberModel
	if err := s.db.First(&sub, "id = ?", t.SubscriberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		return err
	}
	if sub.Status == models.StatusConfirmed {
		return nil
	}
	return s.db.Model(&sub).Update("status", models.StatusConfirmed).Error
}

// ListConfirmed returns every confirmed subscriber, freshly queried.
func (s *Store) ListConfirmed() ([]models.SubscriberModel, error) {
	var subs []models.SubscriberModel
	err := s.db.Where("status = ?", models.StatusConfirmed).Find(&subs).Error
	return subs, err
}
