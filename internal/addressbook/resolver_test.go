package addressbook_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"courier/internal/addressbook"
	"courier/internal/crypto"
	"courier/internal/domain"
)

// serveEntry runs an httptest server handing out the marshalled entry and
// counting hits.
func serveEntry(t *testing.T, entry domain.AddressBookEntry, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", domain.EntryMediaType)
		_, _ = w.Write(addressbook.MarshalEntry(entry))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownloadEndpoint(t *testing.T) {
	own := ownEndpoint(t)
	f := crypto.Default()
	entry, err := addressbook.Encode(f, own)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var hits atomic.Int64
	srv := serveEntry(t, entry, &hits)
	r := addressbook.NewResolver(addressbook.NewHTTPDirectory(srv.Client()), f)

	got, err := r.DownloadEndpoint(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("DownloadEndpoint: %v", err)
	}
	if !got.Equal(own.Public()) {
		t.Fatal("downloaded endpoint differs from the published one")
	}
}

func TestDownloadEndpointPinned(t *testing.T) {
	own := ownEndpoint(t)
	f := crypto.Default()
	entry, err := addressbook.Encode(f, own)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var hits atomic.Int64
	srv := serveEntry(t, entry, &hits)
	r := addressbook.NewResolver(addressbook.NewHTTPDirectory(srv.Client()), f)

	// Correct pin verifies.
	pinned := srv.URL + "#" + f.Thumbprint(own.SigningKey).String()
	if _, err := r.DownloadEndpoint(context.Background(), pinned); err != nil {
		t.Fatalf("DownloadEndpoint with matching pin: %v", err)
	}

	// A pin for some other identity must fail even though the entry's own
	// signature is valid.
	wrong := srv.URL + "#" + f.Thumbprint([]byte("an entirely different key")).String()
	_, err = r.DownloadEndpoint(context.Background(), wrong)
	if domain.EntryFaultOf(err) != domain.FaultThumbprintMismatch {
		t.Fatalf("want FaultThumbprintMismatch, got %v", err)
	}
	if !errors.Is(err, domain.ErrBadEntry) {
		t.Fatalf("mismatch must match ErrBadEntry, got %v", err)
	}
}

func TestDownloadEndpointCaches(t *testing.T) {
	own := ownEndpoint(t)
	f := crypto.Default()
	entry, err := addressbook.Encode(f, own)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var hits atomic.Int64
	srv := serveEntry(t, entry, &hits)
	r := addressbook.NewResolver(addressbook.NewHTTPDirectory(srv.Client()), f)

	for i := 0; i < 3; i++ {
		if _, err := r.DownloadEndpoint(context.Background(), srv.URL); err != nil {
			t.Fatalf("DownloadEndpoint #%d: %v", i, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("want a single fetch for repeated lookups, got %d", got)
	}
}

func TestDownloadEndpointTransportError(t *testing.T) {
	f := crypto.Default()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone fishing", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := addressbook.NewResolver(addressbook.NewHTTPDirectory(srv.Client()), f)
	_, err := r.DownloadEndpoint(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("want transport error")
	}
	// A server failure is not a verification failure.
	if errors.Is(err, domain.ErrBadEntry) {
		t.Fatalf("transport error misreported as bad entry: %v", err)
	}
}

func TestDownloadEndpointGarbagePayload(t *testing.T) {
	f := crypto.Default()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not an entry"))
	}))
	defer srv.Close()

	r := addressbook.NewResolver(addressbook.NewHTTPDirectory(srv.Client()), f)
	_, err := r.DownloadEndpoint(context.Background(), srv.URL)
	if domain.EntryFaultOf(err) != domain.FaultDeserialization {
		t.Fatalf("want FaultDeserialization, got %v", err)
	}
}

func TestFileDirectoryRoundtrip(t *testing.T) {
	own := ownEndpoint(t)
	f := crypto.Default()
	entry, err := addressbook.Encode(f, own)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	path := filepath.Join(t.TempDir(), "alice.entry")
	if err := addressbook.WriteEntry(path, entry); err != nil {
		t.Fatalf("WriteEntry: %v", err)
	}

	r := addressbook.NewResolver(addressbook.NewFileDirectory(), f)
	pinned := path + "#" + f.Thumbprint(own.SigningKey).String()
	got, err := r.DownloadEndpoint(context.Background(), pinned)
	if err != nil {
		t.Fatalf("DownloadEndpoint(file): %v", err)
	}
	if !got.Equal(own.Public()) {
		t.Fatal("file roundtrip changed the endpoint")
	}
}

func TestNewResolverRequiresFacade(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("want panic for nil facade")
		}
	}()
	addressbook.NewResolver(addressbook.NewFileDirectory(), nil)
}
