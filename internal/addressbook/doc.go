// Package addressbook publishes and verifies signed address book entries.
//
// The codec half serializes an Endpoint into wire format v1 and signs the
// exact serialized bytes, or reverses the process: ExtractEndpoint decodes a
// candidate endpoint and verifies the entry's signature with the candidate's
// own signing key. An entry therefore authenticates itself; flipping any bit
// of the serialized endpoint breaks the signature.
//
// The online half turns a lookup location into a trusted Endpoint. A
// Resolver fetches raw bytes through a Directory backend (HTTP or file),
// runs ExtractEndpoint, and, when the location carries a #fragment, requires
// the verified signing key's thumbprint to equal the fragment. That binds
// "the URL you were given" to "the identity you got back" and defeats a
// server substituting a different, validly self-signed endpoint.
//
// # Wire format v1
//
// Serialized endpoint:
//
//	0x01 | uvarint(len(encKey)) | encKey | uvarint(len(sigKey)) | sigKey
//
// Entry envelope:
//
//	0x01 | uvarint(len(serialized)) | serialized | uvarint(len(sig)) | sig
//
// Signature verification is defined over the serialized endpoint bytes
// exactly as they appear in the envelope, so the format is versioned and
// must stay byte-stable.
package addressbook
