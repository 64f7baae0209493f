package subscription

import (
	"errors"
	"fmt"

	"github.com/tahaafzal5/zero2prod/internal/pkg/token"
	"gorm.io/gorm"
)

// ErrAlreadySubscribed is returned when the email belongs to a subscriber who
// already confirmed; no new token is issued and no email is sent.
var ErrAlreadySubscribed = errors.New("email is already subscribed and confirmed")

// ConfirmationMailer sends the confirmation email for a pending subscriber.
type ConfirmationMailer interface {
	SendConfirmation(to, confirmationLink string) error
}

// Service orchestrates the sign-up lifecycle: validate, issue or reuse a
// token, persist atomically, send the confirmation email.
type Service struct {
	store   *Store
	mailer  ConfirmationMailer
	baseURL string
}

func NewService(store *Store, mailer ConfirmationMailer, baseURL string) *Service {
	return &Service{store: store, mailer: mailer, baseURL: baseURL}
}

// Subscribe registers name/email as a pending subscriber and sends the
// confirmation link. Re-submitting while pending re-sends the same link. The
// subscriber row stays persisted even if the email fails to send; delivery is
// best-effort notification on top of already-durable state.
func (s *Service) Subscribe(name, email string) error {
	sub, err := ParseNewSubscriber(name, email)
	if err != nil {
		return err
	}

	tok, err := s.store.FindPendingTokenByEmail(sub.Email)
	if err != nil {
		return fmt.Errorf("failed to look up a pending subscription token: %w", err)
	}

	if tok == "" {
		tok, err = s.insertWithFreshToken(sub)
		if err != nil {
			return err
		}
	}

	link := s.confirmationLink(tok)
	if err := s.mailer.SendConfirmation(sub.Email, link); err != nil {
		return fmt.Errorf("failed to send a confirmation email: %w", err)
	}
	return nil
}

// insertWithFreshToken mints a token and stores subscriber+token atomically.
// The email column carries a uniqueness constraint, so a concurrent duplicate
// sign-up loses the insert race with a duplicate-key error; the loser reuses
// the winner's pending token instead of minting a second one.
func (s *Service) insertWithFreshToken(sub NewSubscriber) (string, error) {
	tok := token.Generate()
	_, err := s.store.InsertSubscriberAndToken(sub.Name, sub.Email, tok)
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", fmt.Errorf("failed to store a new subscriber: %w", err)
	}

	existing, lookupErr := s.store.FindPendingTokenByEmail(sub.Email)
	if lookupErr != nil {
		return "", fmt.Errorf("failed to look up the winning subscription token: %w", lookupErr)
	}
	if existing == "" {
		return "", ErrAlreadySubscribed
	}
	return existing, nil
}

func (s *Service) confirmationLink(tok string) string {
	return fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", s.baseURL, tok)
}

// Confirm performs the one-way pending → confirmed transition for the
// subscriber owning tok.
func (s *Service) Confirm(tok string) error {
	return s.store.Confirm(tok)
}
