package domain

// AddressBookEntry is a serialized Endpoint plus a detached signature
// computed over exactly those bytes with the endpoint's own signing key.
//
// Constructing an entry from raw bytes never validates the signature; the
// bytes may arrive before the verifying key is known to be trustworthy.
// Validation happens explicitly in addressbook.ExtractEndpoint.
type AddressBookEntry struct {
	SerializedEndpoint []byte
	Signature          []byte
}

// EntryMediaType is the content type entries are served and requested with.
const EntryMediaType = "application/x-courier-entry"
