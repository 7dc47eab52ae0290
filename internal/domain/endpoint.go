package domain

import "bytes"

// Thumbprint is an unpadded URL-safe base64 hash of a public key, used as a
// short fingerprint to pin and display identities.
type Thumbprint string

// String returns the string form of the thumbprint.
func (t Thumbprint) String() string { return string(t) }

// Location identifies a stored blob or a published entry.
type Location string

// String returns the string form of the location.
func (l Location) String() string { return string(l) }

// Endpoint is a party's public key material: one key for encrypting to the
// party and one for verifying its signatures. Both buffers are opaque DER
// encodings owned by the crypto facade; nothing else inspects them.
type Endpoint struct {
	EncryptionKey []byte `json:"encryption_key"`
	SigningKey    []byte `json:"signing_key"`
}

// Equal reports whether both key buffers are byte-equal.
func (e Endpoint) Equal(other Endpoint) bool {
	return bytes.Equal(e.EncryptionKey, other.EncryptionKey) &&
		bytes.Equal(e.SigningKey, other.SigningKey)
}

// OwnEndpoint is the local party's endpoint together with the matching
// private key material. Only the embedded public Endpoint ever leaves the
// process; the private buffers are persisted encrypted by the identity store
// and are never serialized into an address book entry.
type OwnEndpoint struct {
	Endpoint

	EncryptionPrivateKey []byte `json:"encryption_private_key"`
	SigningPrivateKey    []byte `json:"signing_private_key"`
}

// Public returns the shareable projection of the endpoint.
func (o OwnEndpoint) Public() Endpoint { return o.Endpoint }
