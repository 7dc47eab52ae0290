package identity

import (
	"fmt"
	"unicode"

	"courier/internal/crypto"
	"courier/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
)

// Service manages the local endpoint identity using a backing store.
//
// The identity contains:
//   - an RSA key pair others encrypt to, and
//   - an RSA key pair that signs the published address book entry.
type Service struct {
	store  domain.IdentityStore
	crypto *crypto.Facade
}

// New returns an identity service backed by the given store and facade.
func New(store domain.IdentityStore, f *crypto.Facade) *Service {
	return &Service{store: store, crypto: f}
}

// Generate creates a new endpoint identity, saves it encrypted with the
// passphrase, and returns it plus the thumbprint of its signing key.
func (s *Service) Generate(passphrase string) (domain.OwnEndpoint, domain.Thumbprint, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.OwnEndpoint{}, "", ErrWeakPassphrase
	}
	own, err := crypto.GenerateOwnEndpoint()
	if err != nil {
		return domain.OwnEndpoint{}, "", err
	}
	if err := s.store.SaveIdentity(passphrase, own); err != nil {
		return domain.OwnEndpoint{}, "", err
	}
	return own, s.crypto.Thumbprint(own.SigningKey), nil
}

// Load decrypts and returns the local identity.
func (s *Service) Load(passphrase string) (domain.OwnEndpoint, error) {
	return s.store.LoadIdentity(passphrase)
}

// Thumbprint returns the thumbprint of the local signing key.
func (s *Service) Thumbprint(passphrase string) (domain.Thumbprint, error) {
	own, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return "", err
	}
	return s.crypto.Thumbprint(own.SigningKey), nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}
