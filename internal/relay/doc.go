// Package relay implements the blob relay: admission of uploads under the
// size-tiered lifetime policy, storage through a domain.BlobContainer, the
// purge sweep, the HTTP surface, and the matching client.
//
// The relay never looks inside a payload; blobs are opaque encrypted bytes.
// Admission selects a policy tier from the declared size, but the actual
// transferred byte count is enforced while streaming, so a dishonest
// declaration cannot buy a larger tier than the bytes justify.
//
// Response signals, mapped onto HTTP by the handler:
//   - Accepted: 201 plus the new blob's location
//   - RejectedTooLarge: 413
//   - RejectedLifetimeTooLong: 402 (a payment/quota-required signal)
//   - TemporarilyUnavailable: 503 with Retry-After, produced when the
//     backing container had to be lazily created; the same request is
//     expected to succeed when resubmitted
package relay
