// Package store provides the concrete storage backends: a filesystem blob
// container, an in-memory container for tests, and the passphrase-encrypted
// identity keystore.
//
// The blob containers implement domain.BlobContainer. A container that has
// not been provisioned reports domain.ErrContainerNotFound from Upload;
// Ensure provisions it and is idempotent, so concurrent provisioning
// attempts converge.
package store
