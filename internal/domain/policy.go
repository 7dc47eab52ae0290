package domain

import "time"

// LifetimeUnlimited marks a lifetime (or a tier ceiling) with no expiration.
const LifetimeUnlimited time.Duration = 0

// LifetimeTier pairs an exclusive upper bound on blob size with the maximum
// lifetime admitted for blobs under that bound.
type LifetimeTier struct {
	// MaxSize is the exclusive size bound in bytes: a blob fits this tier
	// when its size is strictly below MaxSize.
	MaxSize int64
	// MaxLifetime is the ceiling for requested lifetimes in this tier;
	// LifetimeUnlimited means no ceiling.
	MaxLifetime time.Duration
}

// PolicyTable is an ordered sequence of tiers, ascending by size bound. The
// table is total: every non-negative size either fits a tier or falls past
// the last entry and is categorically rejected.
type PolicyTable []LifetimeTier

// DefaultPolicyTable returns the relay's table: under 10 KiB unlimited
// lifetime (intended for identity entries), under 512 KiB at most 7 days,
// anything larger rejected.
func DefaultPolicyTable() PolicyTable {
	return PolicyTable{
		{MaxSize: 10 << 10, MaxLifetime: LifetimeUnlimited},
		{MaxSize: 512 << 10, MaxLifetime: 7 * 24 * time.Hour},
	}
}

// Admit walks the table in ascending size order and returns the first tier
// whose bound exceeds size, provided the requested lifetime is admissible in
// it. A lifetime of LifetimeUnlimited is only admitted by tiers without a
// ceiling. Admit returns ErrBlobTooLarge when no tier bound exceeds size and
// ErrLifetimeTooLong when the tier's ceiling is exceeded.
func (t PolicyTable) Admit(size int64, lifetime time.Duration) (LifetimeTier, error) {
	for _, tier := range t {
		if size >= tier.MaxSize {
			continue
		}
		if !tier.admits(lifetime) {
			return LifetimeTier{}, ErrLifetimeTooLong
		}
		return tier, nil
	}
	return LifetimeTier{}, ErrBlobTooLarge
}

// AdmitUnknownSize returns the widest tier admitting the requested lifetime,
// for transports that do not declare a size up front. The actual transferred
// bytes are still bounded by the returned tier.
func (t PolicyTable) AdmitUnknownSize(lifetime time.Duration) (LifetimeTier, error) {
	var (
		widest LifetimeTier
		found  bool
	)
	for _, tier := range t {
		if tier.admits(lifetime) {
			widest = tier
			found = true
		}
	}
	if !found {
		return LifetimeTier{}, ErrLifetimeTooLong
	}
	return widest, nil
}

func (tier LifetimeTier) admits(lifetime time.Duration) bool {
	if tier.MaxLifetime == LifetimeUnlimited {
		return true
	}
	return lifetime != LifetimeUnlimited && lifetime <= tier.MaxLifetime
}
