package healthid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// New mints a fresh identifier from a random (v4) UUID.
func New() string {
	return Prefix + uuid.New().String()
}

// Parse trims s and checks that it is Prefix followed by a canonical
// hyphenated UUID. The returned value is lowercased.
func Parse(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, Prefix) {
		return "", fmt.Errorf("%w: missing %s prefix", ErrMalformedIdentity, Prefix)
	}
	body := s[len(Prefix):]
	if len(body) != 36 {
		return "", fmt.Errorf("%w: expected 36 character uuid", ErrMalformedIdentity)
	}
	id, err := uuid.Parse(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedIdentity, err)
	}
	return Prefix + id.String(), nil
}
