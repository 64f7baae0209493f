package token

import "crypto/rand"

const (
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	length   = 25
)

// Generate returns a 25-character subscription token drawn uniformly from the
// alphanumeric alphabet. Collisions are treated as negligible; uniqueness is
// not checked against the store.
func Generate() string {
	buf := make([]byte, length)
	for i := 0; i < length; {
		raw := make([]byte, length)
		if _, err := rand.Read(raw); err != nil {
			panic("token: entropy source unavailable: " + err.Error())
		}
		for _, b := range raw {
			// Reject bytes outside the largest multiple of 62 to keep the
			// distribution uniform.
			if b >= 248 {
				continue
			}
			buf[i] = alphabet[int(b)%len(alphabet)]
			i++
			if i == length {
				break
			}
		}
	}
	return string(buf)
}
