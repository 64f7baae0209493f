// Package signer provides a keyed integrity tag for short text payloads,
// used to carry a human-readable message across an HTTP redirect without
// server-side session state.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrTampered is returned when a tag does not verify against the payload.
// Callers must discard the payload and proceed as if no message were present.
var ErrTampered = errors.New("signed message failed verification")

// Sign computes an HMAC-SHA256 tag over the exact payload bytes and renders
// it as lowercase hex.
func Sign(payload string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the tag over payload and compares it to the supplied hex
// tag in constant time. Malformed hex counts as tampering.
func Verify(payload, tag string, secret []byte) error {
	got, err := hex.DecodeString(tag)
	if err != nil {
		return ErrTampered
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrTampered
	}
	return nil
}
