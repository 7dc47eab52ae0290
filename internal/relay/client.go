package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"courier/internal/addressbook"
	"courier/internal/domain"
)

// Client talks to a relay server. The HTTP client is injected once at
// construction.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a client for the relay at base, using httpClient or
// http.DefaultClient when nil.
func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: base, http: httpClient}
}

// UploadBlob posts data with the requested lifetime and returns the new
// blob's location. Pass a negative size when unknown;
// domain.LifetimeUnlimited requests a blob that never expires.
//
// Policy rejections come back as domain.ErrBlobTooLarge or
// domain.ErrLifetimeTooLong; domain.ErrTemporarilyUnavailable means the
// relay just provisioned its storage and the same call should be repeated
// after a short delay.
func (c *Client) UploadBlob(ctx context.Context, data io.Reader, size int64, lifetime time.Duration) (domain.Location, error) {
	u := c.base + "/blobs"
	if lifetime != domain.LifetimeUnlimited {
		minutes := (int64(lifetime) + int64(time.Minute) - 1) / int64(time.Minute)
		u += "?lifetime=" + strconv.FormatInt(minutes, 10)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, data)
	if err != nil {
		return "", err
	}
	if size >= 0 {
		req.ContentLength = size
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	var out struct {
		Location string `json:"location"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return domain.Location(out.Location), nil
}

// PublishEntry uploads a marshalled address book entry under name and
// returns its location on the relay.
func (c *Client) PublishEntry(ctx context.Context, name string, entry domain.AddressBookEntry) (domain.Location, error) {
	raw := addressbook.MarshalEntry(entry)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.base+"/entries/"+url.PathEscape(name), bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", domain.EntryMediaType)

	var out struct {
		Location string `json:"location"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return domain.Location(out.Location), nil
}

// TriggerPurge asks the relay to delete blobs expired at or before cutoff
// and reports how many went away.
func (c *Client) TriggerPurge(ctx context.Context, cutoff time.Time) (int, error) {
	u := c.base + "/purge?before=" + url.QueryEscape(cutoff.Format(time.RFC3339))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return 0, err
	}
	var out struct {
		Purged int `json:"purged"`
	}
	if err := c.do(req, &out); err != nil {
		return 0, err
	}
	return out.Purged, nil
}

// EntryURL builds the lookup URL for a published entry, pinning thumbprint
// in the fragment when non-empty.
func (c *Client) EntryURL(name string, thumbprint domain.Thumbprint) string {
	u := c.base + "/entries/" + url.PathEscape(name)
	if thumbprint != "" {
		u += "#" + thumbprint.String()
	}
	return u
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("relay %s %s: %w", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusRequestEntityTooLarge:
		return domain.ErrBlobTooLarge
	case http.StatusPaymentRequired:
		return domain.ErrLifetimeTooLong
	case http.StatusServiceUnavailable:
		return domain.ErrTemporarilyUnavailable
	default:
		return fmt.Errorf("relay %s %s: %s", req.Method, req.URL, resp.Status)
	}
}

var _ domain.RelayClient = (*Client)(nil)
