package domain

import (
	"context"
	"io"
	"time"
)

// BlobContainer is the storage capability the relay consumes. Concrete
// backends (filesystem, memory, a cloud bucket) stay behind this interface;
// the relay never touches one directly.
//
// Upload reports ErrContainerNotFound when the backing destination has not
// been provisioned; Ensure provisions it and must be idempotent so that
// concurrent retries converge safely.
type BlobContainer interface {
	Upload(ctx context.Context, name string, data io.Reader, expiresAt time.Time) (Location, error)
	Open(ctx context.Context, loc Location) (io.ReadCloser, error)
	List(ctx context.Context) ([]UploadedBlob, error)
	Delete(ctx context.Context, loc Location) error
	Ensure(ctx context.Context) error
}

// Directory fetches raw address book entries from a location. Backends own
// transport and content negotiation; signature verification stays with the
// caller.
type Directory interface {
	DownloadEntry(ctx context.Context, location string) (AddressBookEntry, error)
}

// IdentityStore persists the local endpoint's key material, encrypted under
// a passphrase.
type IdentityStore interface {
	SaveIdentity(passphrase string, own OwnEndpoint) error
	LoadIdentity(passphrase string) (OwnEndpoint, error)
}

// RelayClient is how we talk to a relay server.
type RelayClient interface {
	UploadBlob(ctx context.Context, data io.Reader, size int64, lifetime time.Duration) (Location, error)
	PublishEntry(ctx context.Context, name string, entry AddressBookEntry) (Location, error)
	TriggerPurge(ctx context.Context, cutoff time.Time) (int, error)
}
