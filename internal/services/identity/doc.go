// Package identity manages creation, encryption and loading of the local
// endpoint identity.
//
// It enforces passphrase policy, generates the endpoint's encryption and
// signing key pairs, and persists them via the domain.IdentityStore.
package identity
