package addressbook

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"courier/internal/domain"
)

// maxEntryBytes caps how much of a response body is read when fetching an
// entry; genuine entries are well under the relay's smallest policy tier.
const maxEntryBytes = 64 << 10

// HTTPDirectory fetches entries over HTTP. The client is injected once at
// construction; tests and proxies supply their own instead of mutating a
// shared default.
type HTTPDirectory struct {
	http *http.Client
}

// NewHTTPDirectory returns a directory using httpClient, or
// http.DefaultClient when nil.
func NewHTTPDirectory(httpClient *http.Client) *HTTPDirectory {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPDirectory{http: httpClient}
}

// DownloadEntry GETs location and decodes the entry envelope. Transport
// failures surface verbatim with the target location attached; the caller
// owns any retry or backoff policy. Malformed payloads fail with
// FaultDeserialization.
func (d *HTTPDirectory) DownloadEntry(ctx context.Context, location string) (domain.AddressBookEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return domain.AddressBookEntry{}, fmt.Errorf("build request for %s: %w", location, err)
	}
	req.Header.Set("Accept", domain.EntryMediaType)

	resp, err := d.http.Do(req)
	if err != nil {
		return domain.AddressBookEntry{}, fmt.Errorf("fetch entry %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.AddressBookEntry{}, fmt.Errorf("fetch entry %s: %s", location, resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxEntryBytes))
	if err != nil {
		return domain.AddressBookEntry{}, fmt.Errorf("read entry %s: %w", location, err)
	}
	return UnmarshalEntry(raw)
}

var _ domain.Directory = (*HTTPDirectory)(nil)
