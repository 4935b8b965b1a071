// Package app wires king's dependencies for the CLI.
//
// It parses Config from the environment (optionally seeded from a .env file),
// loads the sealed store or falls back to bootstrap accounts, and builds the
// authentication and grade services on top of it. Shutdown saves the store
// exactly once.
package app
