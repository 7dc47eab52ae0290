package crypto

import (
	stdcrypto "crypto"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"

	"courier/internal/domain"
)

// HashKind enumerates the hash algorithms this build supports.
type HashKind int

const (
	SHA1 HashKind = iota + 1
	SHA256
	SHA384
	SHA512
)

// Size returns the digest length in bytes.
func (k HashKind) Size() int {
	switch k {
	case SHA1:
		return 20
	case SHA256:
		return 32
	case SHA384:
		return 48
	case SHA512:
		return 64
	default:
		return 0
	}
}

// Hash returns the matching stdlib hash identifier.
func (k HashKind) Hash() stdcrypto.Hash {
	switch k {
	case SHA1:
		return stdcrypto.SHA1
	case SHA256:
		return stdcrypto.SHA256
	case SHA384:
		return stdcrypto.SHA384
	case SHA512:
		return stdcrypto.SHA512
	default:
		return 0
	}
}

// String returns the canonical algorithm name.
func (k HashKind) String() string {
	switch k {
	case SHA1:
		return "SHA1"
	case SHA256:
		return "SHA256"
	case SHA384:
		return "SHA384"
	case SHA512:
		return "SHA512"
	default:
		return "unknown"
	}
}

// Sum hashes buf with the kind's algorithm.
func (k HashKind) Sum(buf []byte) []byte {
	h := k.Hash().New()
	h.Write(buf)
	return h.Sum(nil)
}

// InferHashKind maps a digest byte length to the one hash kind producing it.
// It supports verifying digests whose generating algorithm was not
// transmitted alongside them. Any length no supported kind produces fails
// with domain.ErrUnknownDigestLength.
func InferHashKind(n int) (HashKind, error) {
	for _, k := range []HashKind{SHA1, SHA256, SHA384, SHA512} {
		if k.Size() == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %d bytes", domain.ErrUnknownDigestLength, n)
}

// SignatureAlgorithm pairs the asymmetric scheme (RSA PKCS#1 v1.5) with a
// hash kind.
type SignatureAlgorithm struct {
	Hash HashKind
}

// String returns a wire-style name such as "RSA-PKCS1-SHA256".
func (a SignatureAlgorithm) String() string {
	return "RSA-PKCS1-" + a.Hash.String()
}

// SelectSignatureAlgorithm resolves a hash algorithm name to the signature
// algorithm used for entries. Unknown names fail with
// domain.ErrUnsupportedAlgorithm.
func SelectSignatureAlgorithm(hashName string) (SignatureAlgorithm, error) {
	switch hashName {
	case "SHA1":
		return SignatureAlgorithm{Hash: SHA1}, nil
	case "SHA256":
		return SignatureAlgorithm{Hash: SHA256}, nil
	case "SHA384":
		return SignatureAlgorithm{Hash: SHA384}, nil
	case "SHA512":
		return SignatureAlgorithm{Hash: SHA512}, nil
	default:
		return SignatureAlgorithm{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedAlgorithm, hashName)
	}
}
