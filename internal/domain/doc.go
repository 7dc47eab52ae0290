// Package domain holds the shared types, interfaces and error taxonomy of
// courier.
//
// The key actors are:
//   - Endpoint / OwnEndpoint: a party's public key material, and the local
//     party's matching private material.
//   - AddressBookEntry: a serialized Endpoint plus a detached signature over
//     those exact bytes, self-authenticating once decoded.
//   - BlobContainer: the narrow storage capability the relay consumes.
//   - PolicyTable: the size-tiered maximum-lifetime rules applied at upload.
//
// Everything here is either plain data or an interface; behaviour lives in
// the packages that import domain.
package domain
