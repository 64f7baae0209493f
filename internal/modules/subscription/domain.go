package subscription

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rivo/uniseg"
)

const maxNameGraphemes = 256

var forbiddenNameCharacters = []rune{'/', '(', ')', '"', '<', '>', '\\', '{', '}', '[', ']', ';', ':'}

var validate = validator.New()

// ValidationError reports malformed sign-up input. It is user-correctable and
// surfaced as a client error; no persistence or email side effect happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NewSubscriber is a validated sign-up request.
type NewSubscriber struct {
	Name  string
	Email string
}

// ParseNewSubscriber validates the raw form input against the domain rules.
func ParseNewSubscriber(name, email string) (NewSubscriber, error) {
	if err := validateName(name); err != nil {
		return NewSubscriber{}, err
	}
	if err := validateEmail(email); err != nil {
		return NewSubscriber{}, err
	}
	return NewSubscriber{Name: name, Email: email}, nil
}

// validateName enforces: non-empty after trimming, at most 256 grapheme
// clusters, and none of the forbidden control/markup characters.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Reason: "subscriber name must not be empty"}
	}
	if uniseg.GraphemeClusterCount(name) > maxNameGraphemes {
		return &ValidationError{Reason: fmt.Sprintf("subscriber name must not exceed %d characters", maxNameGraphemes)}
	}
	for _, r := range name {
		for _, forbidden := range forbiddenNameCharacters {
			if r == forbidden {
				return &ValidationError{Reason: fmt.Sprintf("subscriber name must not contain %q", forbidden)}
			}
		}
	}
	return nil
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("%s is not a valid subscriber email", email)}
	}
	return nil
}
