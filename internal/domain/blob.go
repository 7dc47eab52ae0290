package domain

import "time"

// UploadedBlob describes a stored blob: where it lives and when it expires.
// A zero ExpiresAt means the blob never expires.
type UploadedBlob struct {
	Location  Location  `json:"location"`
	Size      int64     `json:"size"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the blob's expiration is at or before cutoff.
// Blobs without an expiration never expire.
func (b UploadedBlob) Expired(cutoff time.Time) bool {
	return !b.ExpiresAt.IsZero() && !b.ExpiresAt.After(cutoff)
}
