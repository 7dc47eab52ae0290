package addressbook

import (
	"context"
	"fmt"
	"os"

	"courier/internal/domain"
)

// FileDirectory reads entries from the local filesystem; the location is a
// path. Useful for sneakernet exchange and tests.
type FileDirectory struct{}

// NewFileDirectory returns a filesystem-backed directory.
func NewFileDirectory() *FileDirectory { return &FileDirectory{} }

// DownloadEntry reads and decodes the envelope at path location.
func (FileDirectory) DownloadEntry(ctx context.Context, location string) (domain.AddressBookEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.AddressBookEntry{}, err
	}
	raw, err := os.ReadFile(location)
	if err != nil {
		return domain.AddressBookEntry{}, fmt.Errorf("read entry %s: %w", location, err)
	}
	return UnmarshalEntry(raw)
}

// WriteEntry marshals entry to path, the publish half of FileDirectory.
func WriteEntry(path string, entry domain.AddressBookEntry) error {
	return os.WriteFile(path, MarshalEntry(entry), 0o644)
}

var _ domain.Directory = (*FileDirectory)(nil)
