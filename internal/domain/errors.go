package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedAlgorithm is returned when a configuration names a hash
	// algorithm this build does not implement.
	ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

	// ErrUnknownDigestLength is returned when a digest length does not map
	// to exactly one supported hash kind.
	ErrUnknownDigestLength = errors.New("digest length matches no supported hash kind")

	// ErrBadEntry is the base error every untrustworthy address book entry
	// matches via errors.Is. Entries failing with it must never be retried;
	// refetching a forged or corrupt artifact is never useful.
	ErrBadEntry = errors.New("address book entry cannot be trusted")

	// ErrBlobTooLarge rejects an upload whose size exceeds every policy tier.
	ErrBlobTooLarge = errors.New("blob exceeds the largest admissible size")

	// ErrLifetimeTooLong rejects an upload whose requested lifetime exceeds
	// the ceiling of its size tier.
	ErrLifetimeTooLong = errors.New("requested lifetime too long for blob size")

	// ErrContainerNotFound is reported by a blob container whose backing
	// destination has not been provisioned yet.
	ErrContainerNotFound = errors.New("blob container does not exist")

	// ErrTemporarilyUnavailable tells the caller the relay provisioned its
	// container mid-request; resubmitting shortly is expected to succeed.
	ErrTemporarilyUnavailable = errors.New("relay temporarily unavailable, retry shortly")

	// ErrBlobNotFound is returned when a location names no stored blob.
	ErrBlobNotFound = errors.New("blob not found")
)

// EntryFault says why an address book entry cannot be trusted.
type EntryFault int

const (
	// FaultDeserialization marks a byte layout that does not decode.
	FaultDeserialization EntryFault = iota + 1
	// FaultTampered marks a signature that does not verify over the
	// serialized endpoint.
	FaultTampered
	// FaultThumbprintMismatch marks a verified endpoint whose signing-key
	// thumbprint differs from the one pinned in the lookup URL.
	FaultThumbprintMismatch
)

// String returns a short name for the fault.
func (f EntryFault) String() string {
	switch f {
	case FaultDeserialization:
		return "deserialization failed"
	case FaultTampered:
		return "tamper detected"
	case FaultThumbprintMismatch:
		return "thumbprint mismatch"
	default:
		return "unknown fault"
	}
}

// BadEntryError wraps ErrBadEntry with the reason an entry was rejected.
// Callers distinguish "nothing there" from "something there but it lied"
// through this type; the latter may indicate an active attack.
type BadEntryError struct {
	Fault EntryFault
	Cause error
}

// NewBadEntry returns a BadEntryError for fault, optionally keeping cause.
func NewBadEntry(fault EntryFault, cause error) *BadEntryError {
	return &BadEntryError{Fault: fault, Cause: cause}
}

// Error implements the error interface.
func (e *BadEntryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bad address book entry (%s): %v", e.Fault, e.Cause)
	}
	return fmt.Sprintf("bad address book entry (%s)", e.Fault)
}

// Unwrap exposes the underlying cause, if any.
func (e *BadEntryError) Unwrap() error { return e.Cause }

// Is matches ErrBadEntry so callers can test the whole family at once.
func (e *BadEntryError) Is(target error) bool { return target == ErrBadEntry }

// EntryFaultOf extracts the fault from err, or 0 if err is not a
// BadEntryError.
func EntryFaultOf(err error) EntryFault {
	var bad *BadEntryError
	if errors.As(err, &bad) {
		return bad.Fault
	}
	return 0
}
