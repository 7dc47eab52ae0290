// Package app wires the dependency graph for the courier CLI and loads the
// relay daemon's configuration.
package app
