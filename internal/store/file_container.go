package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"courier/internal/domain"
)

const (
	blobSuffix = ".blob"
	metaSuffix = ".json"
)

// blobMeta is the JSON sidecar kept next to each blob.
type blobMeta struct {
	Size      int64     `json:"size"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// FileContainer stores blobs as files in a single directory: raw bytes in
// "<name>.blob", expiration metadata in "<name>.json". The directory is the
// container; until Ensure creates it, uploads fail with
// domain.ErrContainerNotFound, mirroring a cloud bucket that has not been
// provisioned yet.
type FileContainer struct {
	dir string
	mu  sync.Mutex
}

// NewFileContainer returns a container rooted at dir without creating it.
func NewFileContainer(dir string) *FileContainer {
	return &FileContainer{dir: dir}
}

// Upload streams data into the container under name. expiresAt zero means
// the blob never expires.
func (c *FileContainer) Upload(ctx context.Context, name string, data io.Reader, expiresAt time.Time) (domain.Location, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.dir); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", domain.ErrContainerNotFound, c.dir)
	} else if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	size, err := c.writeBlob(name, data)
	if err != nil {
		return "", err
	}
	meta := blobMeta{Size: size, ExpiresAt: expiresAt}
	if err := writeJSON(filepath.Join(c.dir, name+metaSuffix), meta, 0o600); err != nil {
		_ = os.Remove(filepath.Join(c.dir, name+blobSuffix))
		return "", err
	}
	return domain.Location(name), nil
}

// writeBlob streams data to a temp file and renames it into place,
// returning the byte count. A failing reader leaves nothing behind.
func (c *FileContainer) writeBlob(name string, data io.Reader) (int64, error) {
	f, err := os.CreateTemp(c.dir, name+".tmp-*")
	if err != nil {
		return 0, err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	size, err := io.Copy(f, data)
	if err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	return size, os.Rename(tmp, filepath.Join(c.dir, name+blobSuffix))
}

// Open returns a reader over the blob at loc.
func (c *FileContainer) Open(ctx context.Context, loc domain.Location) (io.ReadCloser, error) {
	if err := validName(loc.String()); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(c.dir, loc.String()+blobSuffix))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrBlobNotFound, loc)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// List enumerates every stored blob with its expiration.
func (c *FileContainer) List(ctx context.Context) ([]domain.UploadedBlob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrContainerNotFound, c.dir)
	}
	if err != nil {
		return nil, err
	}

	var out []domain.UploadedBlob
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), metaSuffix) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(e.Name(), metaSuffix)
		var meta blobMeta
		if err := readJSON(filepath.Join(c.dir, e.Name()), &meta); err != nil {
			return nil, fmt.Errorf("read meta for %s: %w", name, err)
		}
		out = append(out, domain.UploadedBlob{
			Location:  domain.Location(name),
			Size:      meta.Size,
			ExpiresAt: meta.ExpiresAt,
		})
	}
	return out, nil
}

// Delete removes the blob and its sidecar. Deleting an absent blob is a
// no-op so concurrent purge passes stay idempotent.
func (c *FileContainer) Delete(ctx context.Context, loc domain.Location) error {
	if err := validName(loc.String()); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	for _, suffix := range []string{blobSuffix, metaSuffix} {
		if err := os.Remove(filepath.Join(c.dir, loc.String()+suffix)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Ensure creates the container directory. Creating an existing container is
// a no-op, so concurrent retries converge.
func (c *FileContainer) Ensure(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o700)
}

// validName keeps locations from escaping the container directory.
func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid blob name %q", name)
	}
	return nil
}

var _ domain.BlobContainer = (*FileContainer)(nil)
