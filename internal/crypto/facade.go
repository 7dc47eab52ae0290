package crypto

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"courier/internal/domain"
)

// Facade bundles the configured hash and signature algorithm selection. It
// holds no state beyond configuration and is safe for concurrent use.
type Facade struct {
	alg SignatureAlgorithm
}

// New builds a facade for the named hash algorithm.
func New(hashName string) (*Facade, error) {
	alg, err := SelectSignatureAlgorithm(hashName)
	if err != nil {
		return nil, err
	}
	return &Facade{alg: alg}, nil
}

// Default returns the SHA256 facade.
func Default() *Facade {
	return &Facade{alg: SignatureAlgorithm{Hash: SHA256}}
}

// Algorithm returns the configured signature algorithm.
func (f *Facade) Algorithm() SignatureAlgorithm { return f.alg }

// Thumbprint hashes buf with the configured algorithm and encodes the digest
// as unpadded URL-safe base64. Deterministic; used to name keys and to pin
// an expected identity in a lookup URL fragment.
func (f *Facade) Thumbprint(buf []byte) domain.Thumbprint {
	digest := f.alg.Hash.Sum(buf)
	return domain.Thumbprint(base64.RawURLEncoding.EncodeToString(digest))
}

// VerifyThumbprint recomputes the thumbprint of buf and compares it against
// candidate. The hash kind is inferred from the candidate's decoded length,
// so thumbprints made with any supported algorithm verify regardless of the
// facade's own configuration. The comparison covers the full buffer so a
// mismatch position is not observable through timing.
func (f *Facade) VerifyThumbprint(buf []byte, candidate domain.Thumbprint) (bool, error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(candidate))
	if err != nil {
		return false, fmt.Errorf("decode thumbprint: %w", err)
	}
	kind, err := InferHashKind(len(raw))
	if err != nil {
		return false, err
	}
	digest := kind.Sum(buf)
	return subtle.ConstantTimeCompare(digest, raw) == 1, nil
}
