// Package crypto is the facade over hash and signature algorithm selection.
//
// Contents
//
//   - Hash kinds and length-based inference (HashKind, InferHashKind)
//   - Signature algorithm selection by hash name (SelectSignatureAlgorithm)
//   - Key thumbprints and constant-time thumbprint verification (Facade)
//   - RSA PKCS#1 v1.5 signing and verification over endpoint key material
//   - Endpoint key pair generation (GenerateOwnEndpoint)
//
// # Notes
//
// Thumbprints are unpadded URL-safe base64 so they can ride in a URL
// fragment. Verification infers the hash kind from the decoded digest
// length, which lets callers verify thumbprints whose generating algorithm
// was never transmitted; if two supported kinds ever shared an output
// length that inference would become ambiguous, which is a documented
// limitation of extending the kind set, not something resolved silently.
package crypto
