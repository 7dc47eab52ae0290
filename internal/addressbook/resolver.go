package addressbook

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"courier/internal/crypto"
	"courier/internal/domain"
)

const (
	// defaultCacheTTL bounds how long a verified endpoint is reused without
	// refetching its entry.
	defaultCacheTTL = 5 * time.Minute

	cacheSweepInterval = 10 * time.Minute
)

// Resolver turns an untrusted lookup location into a verified Endpoint.
//
// The location may carry a URL fragment ("#<thumbprint>"); when present, the
// verified endpoint's signing key must hash to exactly that thumbprint.
// Verified endpoints are cached by full location (fragment included) for a
// short TTL, so repeated lookups of a pinned identity skip the network.
type Resolver struct {
	dir    domain.Directory
	crypto *crypto.Facade
	cache  *gocache.Cache
}

// NewResolver builds a resolver over the given directory backend. The crypto
// facade is a hard precondition: passing nil is a programming error, not a
// recoverable one, so it panics immediately rather than at first lookup.
func NewResolver(dir domain.Directory, f *crypto.Facade) *Resolver {
	if f == nil {
		panic("addressbook: NewResolver requires a crypto facade")
	}
	if dir == nil {
		panic("addressbook: NewResolver requires a directory backend")
	}
	return &Resolver{
		dir:    dir,
		crypto: f,
		cache:  gocache.New(defaultCacheTTL, cacheSweepInterval),
	}
}

// DownloadEntry fetches the raw entry at location, fragment stripped.
func (r *Resolver) DownloadEntry(ctx context.Context, location string) (domain.AddressBookEntry, error) {
	base, _ := splitFragment(location)
	return r.dir.DownloadEntry(ctx, base)
}

// DownloadEndpoint fetches, verifies and returns the endpoint published at
// location.
//
// Failures keep their distinct kinds: transport errors surface verbatim,
// undecodable or forged entries fail with domain.ErrBadEntry, and a pinned
// thumbprint that does not match the verified signing key fails with
// FaultThumbprintMismatch even though the entry's own signature was valid.
func (r *Resolver) DownloadEndpoint(ctx context.Context, location string) (domain.Endpoint, error) {
	if ep, found := r.cache.Get(location); found {
		return ep.(domain.Endpoint), nil
	}

	base, fragment := splitFragment(location)
	entry, err := r.dir.DownloadEntry(ctx, base)
	if err != nil {
		return domain.Endpoint{}, err
	}
	ep, err := ExtractEndpoint(r.crypto, entry)
	if err != nil {
		return domain.Endpoint{}, err
	}
	if fragment != "" {
		ok, err := r.crypto.VerifyThumbprint(ep.SigningKey, domain.Thumbprint(fragment))
		if err != nil {
			return domain.Endpoint{}, domain.NewBadEntry(domain.FaultThumbprintMismatch, err)
		}
		if !ok {
			return domain.Endpoint{}, domain.NewBadEntry(domain.FaultThumbprintMismatch, nil)
		}
	}

	r.cache.SetDefault(location, ep)
	return ep, nil
}

// splitFragment separates a location from its optional #fragment. It works
// for URLs and plain file paths alike.
func splitFragment(location string) (base, fragment string) {
	base, fragment, _ = strings.Cut(location, "#")
	return base, fragment
}
