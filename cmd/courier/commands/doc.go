// Package commands implements the courier CLI: identity key management,
// entry publishing, endpoint lookup, blob upload, and relay maintenance.
package commands
