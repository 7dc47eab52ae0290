package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"courier/internal/util/memzero"
)

// The current supported version of the sealed blob format stored on disk.
const keystoreFormatVersion = 1

// ErrWrongPassphrase is returned when the passphrase is incorrect or the
// ciphertext has been modified / corrupted.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted identity")

// sealedBlob is the on-disk JSON structure holding the ciphertext and KDF
// parameters.
type sealedBlob struct {
	V       int    `json:"v"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Time    uint32 `json:"argon2_time"`
	Memory  uint32 `json:"argon2_memory"`
	Threads uint8  `json:"argon2_threads"`
	Cipher  []byte `json:"cipher"`
}

// seal derives a key from passphrase with Argon2id and seals raw.
func seal(passphrase string, raw []byte) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	timeCost, memory, threads := argon2ParamsDefault()

	key := argon2.IDKey([]byte(passphrase), salt[:], timeCost, memory, threads, chacha20poly1305.KeySize)
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ct := aead.Seal(nil, nonce, raw, salt[:])

	return json.Marshal(sealedBlob{
		V:       keystoreFormatVersion,
		Salt:    salt[:],
		Nonce:   nonce,
		Time:    timeCost,
		Memory:  memory,
		Threads: threads,
		Cipher:  ct,
	})
}

// open unseals a JSON blob using a key derived from passphrase.
func open(passphrase string, b []byte) ([]byte, error) {
	var bl sealedBlob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, err
	}
	if bl.V > keystoreFormatVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", bl.V)
	}

	key := argon2.IDKey([]byte(passphrase), bl.Salt, bl.Time, bl.Memory, bl.Threads, chacha20poly1305.KeySize)
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, bl.Nonce, bl.Cipher, bl.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

// Tunables for Argon2id key derivation.
func argon2ParamsDefault() (timeCost, memory uint32, threads uint8) {
	return 1, 64 << 10, 4
}
