package app

import (
	"context"
	"net/http"
	"strings"

	"courier/internal/addressbook"
	"courier/internal/crypto"
	"courier/internal/domain"
	"courier/internal/relay"
	identitysvc "courier/internal/services/identity"
	"courier/internal/store"
)

// Wire bundles the stores, services, and clients for the CLI.
type Wire struct {
	Crypto   *crypto.Facade
	Identity *identitysvc.Service
	Resolver *addressbook.Resolver
	Relay    *relay.Client // nil unless a relay URL was configured
	HTTP     *http.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	hash := cfg.Hash
	if hash == "" {
		hash = "SHA256"
	}
	facade, err := crypto.New(hash)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	idStore := store.NewIdentityFileStore(cfg.Home)
	idSvc := identitysvc.New(idStore, facade)

	// Lookups accept both URLs and plain file paths.
	dir := autoDirectory{
		http: addressbook.NewHTTPDirectory(httpClient),
		file: addressbook.NewFileDirectory(),
	}
	resolver := addressbook.NewResolver(dir, facade)

	var rc *relay.Client
	if cfg.RelayURL != "" {
		rc = relay.NewClient(strings.TrimRight(cfg.RelayURL, "/"), httpClient)
	}

	return &Wire{
		Crypto:   facade,
		Identity: idSvc,
		Resolver: resolver,
		Relay:    rc,
		HTTP:     httpClient,
	}, nil
}

// autoDirectory routes a lookup to the HTTP or file backend by location
// shape.
type autoDirectory struct {
	http domain.Directory
	file domain.Directory
}

func (d autoDirectory) DownloadEntry(ctx context.Context, location string) (domain.AddressBookEntry, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return d.http.DownloadEntry(ctx, location)
	}
	return d.file.DownloadEntry(ctx, location)
}
