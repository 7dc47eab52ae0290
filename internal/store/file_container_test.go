package store

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/domain"
)

func TestFileContainerUploadBeforeEnsure(t *testing.T) {
	c := NewFileContainer(filepath.Join(t.TempDir(), "blobs"))
	ctx := context.Background()

	_, err := c.Upload(ctx, "b1", strings.NewReader("payload"), time.Time{})
	require.ErrorIs(t, err, domain.ErrContainerNotFound)

	require.NoError(t, c.Ensure(ctx))
	// Ensure is idempotent.
	require.NoError(t, c.Ensure(ctx))

	loc, err := c.Upload(ctx, "b1", strings.NewReader("payload"), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, domain.Location("b1"), loc)
}

func TestFileContainerRoundtrip(t *testing.T) {
	c := NewFileContainer(filepath.Join(t.TempDir(), "blobs"))
	ctx := context.Background()
	require.NoError(t, c.Ensure(ctx))

	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	loc, err := c.Upload(ctx, "b1", strings.NewReader("opaque encrypted bytes"), expires)
	require.NoError(t, err)

	rc, err := c.Open(ctx, loc)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "opaque encrypted bytes", string(got))

	blobs, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, loc, blobs[0].Location)
	assert.Equal(t, int64(len("opaque encrypted bytes")), blobs[0].Size)
	assert.True(t, blobs[0].ExpiresAt.Equal(expires))
}

func TestFileContainerDeleteIdempotent(t *testing.T) {
	c := NewFileContainer(filepath.Join(t.TempDir(), "blobs"))
	ctx := context.Background()
	require.NoError(t, c.Ensure(ctx))

	loc, err := c.Upload(ctx, "b1", strings.NewReader("x"), time.Time{})
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, loc))
	require.NoError(t, c.Delete(ctx, loc))

	_, err = c.Open(ctx, loc)
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)

	blobs, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, blobs)
}

func TestFileContainerFailedUploadLeavesNothing(t *testing.T) {
	c := NewFileContainer(filepath.Join(t.TempDir(), "blobs"))
	ctx := context.Background()
	require.NoError(t, c.Ensure(ctx))

	boom := io.MultiReader(strings.NewReader("partial"), failingReader{})
	_, err := c.Upload(ctx, "b1", boom, time.Time{})
	require.Error(t, err)

	blobs, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, blobs)
}

func TestFileContainerRejectsEscapingNames(t *testing.T) {
	c := NewFileContainer(filepath.Join(t.TempDir(), "blobs"))
	ctx := context.Background()
	require.NoError(t, c.Ensure(ctx))

	for _, name := range []string{"", "../evil", "a/b", `a\b`} {
		_, err := c.Upload(ctx, name, strings.NewReader("x"), time.Time{})
		assert.Error(t, err, "name %q", name)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
