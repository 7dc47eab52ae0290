package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"courier/internal/domain"
)

// entryPrefix namespaces published address book entries inside the container
// so they cannot collide with minted blob names.
const entryPrefix = "entry-"

// ErrInvalidEntryName rejects entry names that are empty, too long, or carry
// characters outside [A-Za-z0-9._-].
var ErrInvalidEntryName = errors.New("invalid entry name")

var entryNameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// Service is the relay's upload and purge orchestration over a blob
// container. Admission itself is stateless per request; the only shared
// external resource is the container, whose lazy creation is idempotent.
type Service struct {
	container domain.BlobContainer
	policy    domain.PolicyTable
	log       *zap.Logger
	metrics   *Metrics
	now       func() time.Time
}

// NewService builds a relay service. logger may be nil; metrics may be nil.
func NewService(container domain.BlobContainer, policy domain.PolicyTable, logger *zap.Logger, metrics *Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		container: container,
		policy:    policy,
		log:       logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Upload admits and stores one blob, returning its location.
//
// The policy tier is selected from declaredSize (pass a negative value when
// the transport did not declare one; the widest tier admitting the lifetime
// is used instead). Actual transferred bytes are counted against the
// selected tier's bound regardless, and crossing it aborts the transfer
// with domain.ErrBlobTooLarge.
//
// When the backing container does not exist yet, Upload provisions it and
// fails with domain.ErrTemporarilyUnavailable; the upload is not retried
// within the same call, the client resubmits.
func (s *Service) Upload(ctx context.Context, data io.Reader, declaredSize int64, lifetime time.Duration) (domain.Location, error) {
	return s.store(ctx, uuid.NewString(), data, declaredSize, lifetime)
}

// PublishEntry stores a marshalled address book entry under a caller-chosen
// name with unlimited lifetime. The payload goes through the same admission
// as any blob, so it must fit the unlimited tier. The relay does not verify
// entries; they are self-authenticating and verification belongs to the
// party that fetches them.
func (s *Service) PublishEntry(ctx context.Context, name string, raw []byte) (domain.Location, error) {
	if !entryNameRE.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryName, name)
	}
	return s.store(ctx, entryPrefix+name, bytes.NewReader(raw), int64(len(raw)), domain.LifetimeUnlimited)
}

// OpenEntry returns the raw bytes of a published entry.
func (s *Service) OpenEntry(ctx context.Context, name string) (io.ReadCloser, error) {
	if !entryNameRE.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntryName, name)
	}
	return s.container.Open(ctx, domain.Location(entryPrefix+name))
}

// OpenBlob returns a stored blob's bytes.
func (s *Service) OpenBlob(ctx context.Context, loc domain.Location) (io.ReadCloser, error) {
	return s.container.Open(ctx, loc)
}

func (s *Service) store(ctx context.Context, name string, data io.Reader, declaredSize int64, lifetime time.Duration) (domain.Location, error) {
	var (
		tier domain.LifetimeTier
		err  error
	)
	if declaredSize >= 0 {
		tier, err = s.policy.Admit(declaredSize, lifetime)
	} else {
		tier, err = s.policy.AdmitUnknownSize(lifetime)
	}
	if err != nil {
		s.observeRejection(err)
		return "", err
	}

	var expiresAt time.Time
	if lifetime != domain.LifetimeUnlimited {
		expiresAt = s.now().Add(lifetime)
	}

	bounded := &boundedReader{r: data, limit: tier.MaxSize}
	loc, err := s.container.Upload(ctx, name, bounded, expiresAt)
	switch {
	case err == nil:
		s.metrics.observeUpload(outcomeAccepted)
		s.log.Debug("blob accepted",
			zap.String("location", loc.String()),
			zap.Int64("size", bounded.count),
			zap.Time("expires_at", expiresAt))
		return loc, nil

	case errors.Is(err, domain.ErrContainerNotFound):
		if cerr := s.container.Ensure(ctx); cerr != nil {
			return "", fmt.Errorf("provision container: %w", cerr)
		}
		s.metrics.observeUpload(outcomeUnavailable)
		s.log.Info("provisioned missing container, caller must resubmit")
		return "", domain.ErrTemporarilyUnavailable

	case errors.Is(err, domain.ErrBlobTooLarge):
		// The transfer crossed the admitted tier's bound; drop any partial
		// write the backend may have kept.
		_ = s.container.Delete(ctx, domain.Location(name))
		s.metrics.observeUpload(outcomeTooLarge)
		return "", err

	default:
		s.metrics.observeUpload(outcomeError)
		return "", fmt.Errorf("store blob: %w", err)
	}
}

func (s *Service) observeRejection(err error) {
	switch {
	case errors.Is(err, domain.ErrBlobTooLarge):
		s.metrics.observeUpload(outcomeTooLarge)
	case errors.Is(err, domain.ErrLifetimeTooLong):
		s.metrics.observeUpload(outcomeLifetimeTooLong)
	}
}

// PurgeExpiredBefore deletes every blob whose expiration is at or before
// cutoff and returns how many were removed. It is idempotent and not
// transactional: a crash mid-purge leaves the remainder for the next run.
func (s *Service) PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	blobs, err := s.container.List(ctx)
	if errors.Is(err, domain.ErrContainerNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("list blobs: %w", err)
	}

	purged := 0
	for _, b := range blobs {
		if !b.Expired(cutoff) {
			continue
		}
		if err := s.container.Delete(ctx, b.Location); err != nil {
			s.metrics.observePurged(purged)
			return purged, fmt.Errorf("delete %s: %w", b.Location, err)
		}
		purged++
	}
	s.metrics.observePurged(purged)
	if purged > 0 {
		s.log.Info("purge complete", zap.Int("purged", purged), zap.Time("cutoff", cutoff))
	}
	return purged, nil
}

// boundedReader counts bytes and fails once the count reaches limit, the
// admitted tier's exclusive size bound.
type boundedReader struct {
	r     io.Reader
	limit int64
	count int64
}

func (b *boundedReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.count += int64(n)
	if b.count >= b.limit {
		return n, fmt.Errorf("%w: transferred %d bytes, tier bound %d", domain.ErrBlobTooLarge, b.count, b.limit)
	}
	return n, err
}
