// Package commands defines the king CLI.
//
// Commands
//
//   - (root)  Load the store and run the interactive teacher/student console
//   - init    Create a new store file from bootstrap accounts
//   - hash    Print an argon2id hash of a password read from the terminal
//
// # Configuration
//
// SECRET (32 bytes) and NONCE (24 bytes) are required and are read from the
// environment, optionally populated from a .env file. Flags override the
// database path, seed file and cipher. Logging flags (-v, --logtostderr, ...)
// come from klog.
package commands
