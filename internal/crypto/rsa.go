package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"

	"courier/internal/domain"
)

// endpointKeyBits sizes the RSA key pairs backing an endpoint.
const endpointKeyBits = 2048

// ErrMalformedSignature marks a signature whose encoding is structurally
// invalid for the verifying key, as opposed to one that simply does not
// verify.
var ErrMalformedSignature = errors.New("malformed signature encoding")

// GenerateOwnEndpoint creates fresh RSA encryption and signing key pairs and
// returns them as an OwnEndpoint. Public and private keys are PKCS#1 DER.
func GenerateOwnEndpoint() (domain.OwnEndpoint, error) {
	encKey, err := rsa.GenerateKey(rand.Reader, endpointKeyBits)
	if err != nil {
		return domain.OwnEndpoint{}, fmt.Errorf("generate encryption key: %w", err)
	}
	sigKey, err := rsa.GenerateKey(rand.Reader, endpointKeyBits)
	if err != nil {
		return domain.OwnEndpoint{}, fmt.Errorf("generate signing key: %w", err)
	}
	return domain.OwnEndpoint{
		Endpoint: domain.Endpoint{
			EncryptionKey: x509.MarshalPKCS1PublicKey(&encKey.PublicKey),
			SigningKey:    x509.MarshalPKCS1PublicKey(&sigKey.PublicKey),
		},
		EncryptionPrivateKey: x509.MarshalPKCS1PrivateKey(encKey),
		SigningPrivateKey:    x509.MarshalPKCS1PrivateKey(sigKey),
	}, nil
}

// Sign signs msg with own's private signing key using the configured
// algorithm.
func (f *Facade) Sign(own domain.OwnEndpoint, msg []byte) ([]byte, error) {
	key, err := x509.ParsePKCS1PrivateKey(own.SigningPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("parse signing private key: %w", err)
	}
	digest := f.alg.Hash.Sum(msg)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, f.alg.Hash.Hash(), digest)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	return sig, nil
}

// Verify checks sig over msg with ep's public signing key. A structurally
// valid but mismatched signature yields (false, nil); only an unparseable
// key or a signature of the wrong shape yields an error.
func (f *Facade) Verify(ep domain.Endpoint, msg, sig []byte) (bool, error) {
	key, err := x509.ParsePKCS1PublicKey(ep.SigningKey)
	if err != nil {
		return false, fmt.Errorf("parse signing public key: %w", err)
	}
	if len(sig) != key.Size() {
		return false, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedSignature, len(sig), key.Size())
	}
	digest := f.alg.Hash.Sum(msg)
	if err := rsa.VerifyPKCS1v15(key, f.alg.Hash.Hash(), digest, sig); err != nil {
		return false, nil
	}
	return true, nil
}
