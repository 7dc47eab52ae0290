package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"courier/internal/domain"
)

type memBlob struct {
	data      []byte
	expiresAt time.Time
}

// MemoryContainer is an in-process domain.BlobContainer used by tests and
// ephemeral relays. It starts unprovisioned, exactly like a cloud container
// nobody has created yet.
type MemoryContainer struct {
	mu      sync.Mutex
	created bool
	blobs   map[domain.Location]memBlob
}

// NewMemoryContainer returns an unprovisioned container; call Ensure to
// provision it.
func NewMemoryContainer() *MemoryContainer {
	return &MemoryContainer{blobs: make(map[domain.Location]memBlob)}
}

// Upload reads data fully into memory.
func (c *MemoryContainer) Upload(ctx context.Context, name string, data io.Reader, expiresAt time.Time) (domain.Location, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	c.mu.Lock()
	created := c.created
	c.mu.Unlock()
	if !created {
		return "", fmt.Errorf("%w: memory container", domain.ErrContainerNotFound)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.blobs[domain.Location(name)] = memBlob{data: buf, expiresAt: expiresAt}
	c.mu.Unlock()
	return domain.Location(name), nil
}

// Open returns a reader over the stored bytes.
func (c *MemoryContainer) Open(ctx context.Context, loc domain.Location) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	b, ok := c.blobs[loc]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBlobNotFound, loc)
	}
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

// List enumerates stored blobs.
func (c *MemoryContainer) List(ctx context.Context) ([]domain.UploadedBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.created {
		return nil, fmt.Errorf("%w: memory container", domain.ErrContainerNotFound)
	}
	out := make([]domain.UploadedBlob, 0, len(c.blobs))
	for loc, b := range c.blobs {
		out = append(out, domain.UploadedBlob{
			Location:  loc,
			Size:      int64(len(b.data)),
			ExpiresAt: b.expiresAt,
		})
	}
	return out, nil
}

// Delete is idempotent.
func (c *MemoryContainer) Delete(ctx context.Context, loc domain.Location) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.blobs, loc)
	c.mu.Unlock()
	return nil
}

// Ensure provisions the container; repeat calls are no-ops.
func (c *MemoryContainer) Ensure(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.created = true
	c.mu.Unlock()
	return nil
}

var _ domain.BlobContainer = (*MemoryContainer)(nil)
