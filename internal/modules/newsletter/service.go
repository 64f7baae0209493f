package newsletter

import (
	"fmt"

	"github.com/tahaafzal5/zero2prod/internal/models"
)

// SubscriberLister provides the confirmed-subscriber list.
type SubscriberLister interface {
	ListConfirmed() ([]models.SubscriberModel, error)
}

// IssueMailer delivers one newsletter issue to a single recipient.
type IssueMailer interface {
	SendIssue(to, title, htmlBody, textBody string) error
}

// DeliveryFailure records one recipient that did not receive the issue.
type DeliveryFailure struct {
	Email string `json:"email"`
	Err   error  `json:"-"`
}

// Result is the per-recipient outcome of a publish run.
type Result struct {
	Delivered int               `json:"delivered"`
	Failed    []DeliveryFailure `json:"failed,omitempty"`
}

// Service dispatches a newsletter issue to every confirmed subscriber.
type Service struct {
	store  SubscriberLister
	mailer IssueMailer
}

func NewService(store SubscriberLister, mailer IssueMailer) *Service {
	return &Service{store: store, mailer: mailer}
}

// Publish sends the issue to each confirmed subscriber in turn. A store
// failure aborts the whole operation before any send. Delivery failures are
// isolated per recipient: the loop continues and the result reports who was
// missed, so an operator can retry just those.
func (s *Service) Publish(title, htmlBody, textBody string) (*Result, error) {
	subs, err := s.store.ListConfirmed()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch confirmed subscribers: %w", err)
	}

	result := &Result{}
	for _, sub := range subs {
		if err := s.mailer.SendIssue(sub.Email, title, htmlBody, textBody); err != nil {
			result.Failed = append(result.Failed, DeliveryFailure{Email: sub.Email, Err: err})
			continue
		}
		result.Delivered++
	}
	return result, nil
}
