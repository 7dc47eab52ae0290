package domain_test

import (
	"errors"
	"testing"
	"time"

	"courier/internal/domain"
)

func TestPolicyTableAdmit(t *testing.T) {
	table := domain.DefaultPolicyTable()
	day := 24 * time.Hour

	cases := []struct {
		name     string
		size     int64
		lifetime time.Duration
		wantErr  error
	}{
		{"small unlimited", 9 << 10, domain.LifetimeUnlimited, nil},
		{"small long-lived", 9 << 10, 10 * day, nil},
		{"medium within ceiling", 500 << 10, 3 * day, nil},
		{"medium over ceiling", 500 << 10, 8 * day, domain.ErrLifetimeTooLong},
		{"medium unlimited", 500 << 10, domain.LifetimeUnlimited, domain.ErrLifetimeTooLong},
		{"large short-lived", 1 << 20, time.Hour, domain.ErrBlobTooLarge},
		{"large unlimited", 1 << 20, domain.LifetimeUnlimited, domain.ErrBlobTooLarge},
		{"exactly at bound", 512 << 10, time.Hour, domain.ErrBlobTooLarge},
		{"just under bound", (512 << 10) - 1, 7 * day, nil},
		{"zero size", 0, domain.LifetimeUnlimited, nil},
	}
	for _, tc := range cases {
		_, err := table.Admit(tc.size, tc.lifetime)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: Admit(%d, %v) = %v, want %v", tc.name, tc.size, tc.lifetime, err, tc.wantErr)
		}
	}
}

func TestPolicyTableAdmitUnknownSize(t *testing.T) {
	table := domain.DefaultPolicyTable()
	day := 24 * time.Hour

	// A bounded lifetime gets the widest tier admitting it.
	tier, err := table.AdmitUnknownSize(3 * day)
	if err != nil {
		t.Fatalf("AdmitUnknownSize(3d): %v", err)
	}
	if tier.MaxSize != 512<<10 {
		t.Fatalf("want the 512 KiB tier, got bound %d", tier.MaxSize)
	}

	// Unlimited lifetime only fits the identity-entry tier.
	tier, err = table.AdmitUnknownSize(domain.LifetimeUnlimited)
	if err != nil {
		t.Fatalf("AdmitUnknownSize(unlimited): %v", err)
	}
	if tier.MaxSize != 10<<10 {
		t.Fatalf("want the 10 KiB tier, got bound %d", tier.MaxSize)
	}

	// A lifetime past the 7 day ceiling also falls back to the 10 KiB tier.
	tier, err = table.AdmitUnknownSize(30 * day)
	if err != nil {
		t.Fatalf("AdmitUnknownSize(30d): %v", err)
	}
	if tier.MaxSize != 10<<10 {
		t.Fatalf("want the 10 KiB tier, got bound %d", tier.MaxSize)
	}
}

func TestUploadedBlobExpired(t *testing.T) {
	now := time.Now()
	forever := domain.UploadedBlob{Location: "a"}
	if forever.Expired(now.Add(1000 * time.Hour)) {
		t.Fatal("blob without expiration reported expired")
	}
	past := domain.UploadedBlob{Location: "b", ExpiresAt: now.Add(-time.Minute)}
	if !past.Expired(now) {
		t.Fatal("expired blob not reported expired")
	}
	// Expiration strictly in the future is exempt from a purge at now.
	future := domain.UploadedBlob{Location: "c", ExpiresAt: now.Add(time.Minute)}
	if future.Expired(now) {
		t.Fatal("future blob reported expired")
	}
	// Cutoff comparison is inclusive.
	exact := domain.UploadedBlob{Location: "d", ExpiresAt: now}
	if !exact.Expired(now) {
		t.Fatal("blob expiring exactly at cutoff must be purged")
	}
}
