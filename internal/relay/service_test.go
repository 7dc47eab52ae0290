package relay

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/domain"
	"courier/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.MemoryContainer) {
	t.Helper()
	c := store.NewMemoryContainer()
	require.NoError(t, c.Ensure(context.Background()))
	return NewService(c, domain.DefaultPolicyTable(), nil, nil), c
}

func TestUploadAccepted(t *testing.T) {
	svc, c := newTestService(t)
	ctx := context.Background()

	payload := strings.Repeat("x", 9<<10)
	loc, err := svc.Upload(ctx, strings.NewReader(payload), int64(len(payload)), domain.LifetimeUnlimited)
	require.NoError(t, err)

	rc, err := c.Open(ctx, loc)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))

	blobs, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.True(t, blobs[0].ExpiresAt.IsZero(), "unlimited lifetime must store no expiration")
}

func TestUploadComputesExpiration(t *testing.T) {
	svc, c := newTestService(t)
	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.Upload(context.Background(), strings.NewReader("x"), 1, 90*time.Minute)
	require.NoError(t, err)

	blobs, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.True(t, blobs[0].ExpiresAt.Equal(now.Add(90*time.Minute)))
}

func TestUploadPolicyRejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	day := 24 * time.Hour

	_, err := svc.Upload(ctx, strings.NewReader("x"), 1<<20, time.Hour)
	assert.ErrorIs(t, err, domain.ErrBlobTooLarge)

	_, err = svc.Upload(ctx, strings.NewReader("x"), 500<<10, 8*day)
	assert.ErrorIs(t, err, domain.ErrLifetimeTooLong)
}

func TestUploadEnforcesActualBytes(t *testing.T) {
	svc, c := newTestService(t)
	ctx := context.Background()

	// Declares 1 KiB (admitted into the 10 KiB tier) but streams 20 KiB.
	payload := strings.Repeat("y", 20<<10)
	_, err := svc.Upload(ctx, strings.NewReader(payload), 1<<10, domain.LifetimeUnlimited)
	assert.ErrorIs(t, err, domain.ErrBlobTooLarge)

	// Nothing may survive the aborted transfer.
	blobs, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, blobs)
}

func TestUploadUnknownSize(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// 100 KiB without a declared size, bounded lifetime: fits the 512 KiB tier.
	payload := strings.Repeat("z", 100<<10)
	_, err := svc.Upload(ctx, strings.NewReader(payload), -1, 24*time.Hour)
	require.NoError(t, err)

	// Unlimited lifetime without a declared size only buys the 10 KiB tier.
	_, err = svc.Upload(ctx, strings.NewReader(payload), -1, domain.LifetimeUnlimited)
	assert.ErrorIs(t, err, domain.ErrBlobTooLarge)
}

func TestUploadProvisionsMissingContainer(t *testing.T) {
	c := store.NewMemoryContainer() // deliberately not ensured
	svc := NewService(c, domain.DefaultPolicyTable(), nil, nil)
	ctx := context.Background()

	_, err := svc.Upload(ctx, strings.NewReader("x"), 1, domain.LifetimeUnlimited)
	require.ErrorIs(t, err, domain.ErrTemporarilyUnavailable)

	// The destination now exists, so an identical second call succeeds.
	_, err = svc.Upload(ctx, strings.NewReader("x"), 1, domain.LifetimeUnlimited)
	require.NoError(t, err)
}

func TestPurgeExpiredBefore(t *testing.T) {
	svc, c := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.Upload(ctx, strings.NewReader("short"), 5, 30*time.Minute)
	require.NoError(t, err)
	_, err = svc.Upload(ctx, strings.NewReader("long"), 4, 48*time.Hour)
	require.NoError(t, err)
	_, err = svc.Upload(ctx, strings.NewReader("keep"), 4, domain.LifetimeUnlimited)
	require.NoError(t, err)

	cutoff := now.Add(time.Hour)
	purged, err := svc.PurgeExpiredBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	// Idempotent: an immediate rerun with the same cutoff is a no-op.
	purged, err = svc.PurgeExpiredBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Zero(t, purged)

	blobs, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, blobs, 2)
}

func TestPurgeUnprovisionedContainer(t *testing.T) {
	c := store.NewMemoryContainer()
	svc := NewService(c, domain.DefaultPolicyTable(), nil, nil)

	purged, err := svc.PurgeExpiredBefore(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestPublishEntryNames(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	loc, err := svc.PublishEntry(ctx, "alice", []byte("entry bytes"))
	require.NoError(t, err)
	assert.Equal(t, domain.Location("entry-alice"), loc)

	rc, err := svc.OpenEntry(ctx, "alice")
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "entry bytes", string(raw))

	for _, bad := range []string{"", "../x", "a b", strings.Repeat("a", 70)} {
		_, err := svc.PublishEntry(ctx, bad, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidEntryName, "name %q", bad)
	}
}

func TestPublishEntryTooLarge(t *testing.T) {
	svc, _ := newTestService(t)
	// Entries request unlimited lifetime, and only the sub-10 KiB tier
	// grants it; an oversized entry lands in the bounded tier and is
	// refused for its lifetime.
	_, err := svc.PublishEntry(context.Background(), "huge", []byte(strings.Repeat("e", 11<<10)))
	assert.ErrorIs(t, err, domain.ErrLifetimeTooLong)
}
