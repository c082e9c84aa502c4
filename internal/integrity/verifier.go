package integrity

import (
	"fmt"

	"tour-solver-service/internal/domain"
)

// Verifier checks client-supplied checksums against the canonical form of
// the request data. The zero value uses an empty salt.
type Verifier struct {
	Salt string
}

// Fingerprint returns the checksum of the canonical form of data.
func (v Verifier) Fingerprint(data []byte) (string, error) {
	canonical, err := Canonicalize(data)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w: %v", domain.ErrDecode, err)
	}
	return Digest(canonical, v.Salt), nil
}

// Verify returns nil when claimed equals the checksum of data, and an error
// wrapping domain.ErrIntegrity otherwise.
func (v Verifier) Verify(data []byte, claimed string) error {
	canonical, err := Canonicalize(data)
	if err != nil {
		return fmt.Errorf("verify: %w: %v", domain.ErrDecode, err)
	}
	if !VerifyDigest(canonical, v.Salt, claimed) {
		return fmt.Errorf("verify: %w", domain.ErrIntegrity)
	}
	return nil
}
