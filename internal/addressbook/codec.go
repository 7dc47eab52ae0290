package addressbook

import (
	"encoding/binary"
	"errors"
	"fmt"

	"courier/internal/crypto"
	"courier/internal/domain"
)

// formatVersion is the current wire format for serialized endpoints and
// entry envelopes.
const formatVersion = 1

// maxFieldLen bounds any single length-prefixed field; it keeps a corrupt
// prefix from asking for gigabytes.
const maxFieldLen = 1 << 20

var errTruncated = errors.New("truncated")

// Encode serializes own's public endpoint and signs the serialized bytes
// with own's private signing key. Pure over its inputs.
func Encode(f *crypto.Facade, own domain.OwnEndpoint) (domain.AddressBookEntry, error) {
	serialized := marshalEndpoint(own.Public())
	sig, err := f.Sign(own, serialized)
	if err != nil {
		return domain.AddressBookEntry{}, fmt.Errorf("sign entry: %w", err)
	}
	return domain.AddressBookEntry{SerializedEndpoint: serialized, Signature: sig}, nil
}

// ExtractEndpoint validates entry and returns the endpoint it authenticates.
//
// The serialized bytes are decoded into a candidate endpoint, then the
// signature is verified with the candidate's own public signing key. Any
// undecodable layout fails with FaultDeserialization; a decodable layout
// whose signature does not verify fails with FaultTampered. Both match
// domain.ErrBadEntry.
func ExtractEndpoint(f *crypto.Facade, entry domain.AddressBookEntry) (domain.Endpoint, error) {
	candidate, err := unmarshalEndpoint(entry.SerializedEndpoint)
	if err != nil {
		return domain.Endpoint{}, domain.NewBadEntry(domain.FaultDeserialization, err)
	}
	ok, err := f.Verify(candidate, entry.SerializedEndpoint, entry.Signature)
	if err != nil {
		return domain.Endpoint{}, domain.NewBadEntry(domain.FaultTampered, err)
	}
	if !ok {
		return domain.Endpoint{}, domain.NewBadEntry(domain.FaultTampered, nil)
	}
	return candidate, nil
}

// MarshalEntry encodes the transport envelope: serialized endpoint and
// detached signature, each length-prefixed, recoverable without external
// metadata.
func MarshalEntry(entry domain.AddressBookEntry) []byte {
	out := make([]byte, 0, 1+len(entry.SerializedEndpoint)+len(entry.Signature)+2*binary.MaxVarintLen64)
	out = append(out, formatVersion)
	out = appendField(out, entry.SerializedEndpoint)
	out = appendField(out, entry.Signature)
	return out
}

// UnmarshalEntry decodes a transport envelope. It never validates the
// signature; that is ExtractEndpoint's job, and may happen only once the
// verifying key is trusted.
func UnmarshalEntry(raw []byte) (domain.AddressBookEntry, error) {
	rest, err := expectVersion(raw)
	if err != nil {
		return domain.AddressBookEntry{}, domain.NewBadEntry(domain.FaultDeserialization, err)
	}
	serialized, rest, err := readField(rest)
	if err != nil {
		return domain.AddressBookEntry{}, domain.NewBadEntry(domain.FaultDeserialization, fmt.Errorf("serialized endpoint: %w", err))
	}
	sig, rest, err := readField(rest)
	if err != nil {
		return domain.AddressBookEntry{}, domain.NewBadEntry(domain.FaultDeserialization, fmt.Errorf("signature: %w", err))
	}
	if len(rest) != 0 {
		return domain.AddressBookEntry{}, domain.NewBadEntry(domain.FaultDeserialization, fmt.Errorf("%d trailing bytes", len(rest)))
	}
	return domain.AddressBookEntry{SerializedEndpoint: serialized, Signature: sig}, nil
}

// marshalEndpoint produces the exact bytes signatures are computed over.
func marshalEndpoint(ep domain.Endpoint) []byte {
	out := make([]byte, 0, 1+len(ep.EncryptionKey)+len(ep.SigningKey)+2*binary.MaxVarintLen64)
	out = append(out, formatVersion)
	out = appendField(out, ep.EncryptionKey)
	out = appendField(out, ep.SigningKey)
	return out
}

func unmarshalEndpoint(raw []byte) (domain.Endpoint, error) {
	rest, err := expectVersion(raw)
	if err != nil {
		return domain.Endpoint{}, err
	}
	encKey, rest, err := readField(rest)
	if err != nil {
		return domain.Endpoint{}, fmt.Errorf("encryption key: %w", err)
	}
	sigKey, rest, err := readField(rest)
	if err != nil {
		return domain.Endpoint{}, fmt.Errorf("signing key: %w", err)
	}
	if len(rest) != 0 {
		return domain.Endpoint{}, fmt.Errorf("%d trailing bytes", len(rest))
	}
	if len(encKey) == 0 || len(sigKey) == 0 {
		return domain.Endpoint{}, errors.New("empty key buffer")
	}
	return domain.Endpoint{EncryptionKey: encKey, SigningKey: sigKey}, nil
}

func expectVersion(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, errTruncated
	}
	if raw[0] != formatVersion {
		return nil, fmt.Errorf("unsupported format version %d", raw[0])
	}
	return raw[1:], nil
}

func appendField(out, field []byte) []byte {
	out = binary.AppendUvarint(out, uint64(len(field)))
	return append(out, field...)
}

func readField(raw []byte) (field, rest []byte, err error) {
	n, used := binary.Uvarint(raw)
	if used <= 0 {
		return nil, nil, errTruncated
	}
	if n > maxFieldLen {
		return nil, nil, fmt.Errorf("field of %d bytes exceeds limit", n)
	}
	raw = raw[used:]
	if uint64(len(raw)) < n {
		return nil, nil, errTruncated
	}
	return raw[:n:n], raw[n:], nil
}
