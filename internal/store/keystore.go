package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"courier/internal/domain"
	"courier/internal/util/memzero"
)

const identityFilename = "identity.enc"

// IdentityFileStore persists the local endpoint's key material to disk,
// sealed under a passphrase.
type IdentityFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir}
}

// SaveIdentity writes the sealed identity to disk.
func (s *IdentityFileStore) SaveIdentity(passphrase string, own domain.OwnEndpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(own)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)

	blob, err := seal(passphrase, raw)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, identityFilename), blob, 0o600)
}

// LoadIdentity reads and unseals the identity.
func (s *IdentityFileStore) LoadIdentity(passphrase string) (domain.OwnEndpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := os.ReadFile(filepath.Join(s.dir, identityFilename))
	if errors.Is(err, os.ErrNotExist) {
		return domain.OwnEndpoint{}, ErrNoIdentity
	}
	if err != nil {
		return domain.OwnEndpoint{}, err
	}
	raw, err := open(passphrase, blob)
	if err != nil {
		return domain.OwnEndpoint{}, err
	}
	defer memzero.Zero(raw)

	var own domain.OwnEndpoint
	if err := json.Unmarshal(raw, &own); err != nil {
		return domain.OwnEndpoint{}, err
	}
	return own, nil
}

// ErrNoIdentity is returned when no identity has been generated yet.
var ErrNoIdentity = errors.New("no identity found, run init first")

var _ domain.IdentityStore = (*IdentityFileStore)(nil)
