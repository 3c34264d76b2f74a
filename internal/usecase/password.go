package usecase

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/odonto-agenda/auth-api/internal/domain"
)

// BcryptHashLength is the fixed length of every bcrypt hash string.
const BcryptHashLength = 60

type PasswordHasher interface {
	// Hash returns the raw bcrypt error; callers classify it.
	Hash(password string) (string, error)
	// Verify reports a plain mismatch as (false, nil). A malformed hash is
	// (false, ErrVerificationFailure) and must be treated as "not matched".
	Verify(password, hash string) (bool, error)
	IsLegacyFormat(stored string) bool
}

type bcryptHasher struct{ cost int }

func NewBcryptHasher(cost int) PasswordHasher { return bcryptHasher{cost: cost} }

func (h bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

func (h bcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrVerificationFailure, err)
	}
}

// IsLegacyFormat is a length heuristic: a legacy plaintext of exactly 60
// characters is misread as a hash.
func (bcryptHasher) IsLegacyFormat(stored string) bool {
	return len(stored) != BcryptHashLength
}

// isLegacyCredential prefers the stored format marker and falls back to the
// length heuristic for rows written before the marker existed.
func isLegacyCredential(hasher PasswordHasher, p *domain.Profile) bool {
	if p.CredentialFormat != nil {
		return *p.CredentialFormat == domain.CredentialLegacyPlaintext
	}
	return hasher.IsLegacyFormat(p.Credential)
}
