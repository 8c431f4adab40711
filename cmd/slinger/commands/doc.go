// Package commands defines the slinger CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init         Create the local identity, or check the passphrase of an existing one
//   - fingerprint  Print the key id, creation date and verification phrase
//   - export       Write the packed public key bundle
//   - import       Store a peer's packed public key bundle
//   - peers        List imported peers
//   - seal         Build a packet for an imported peer
//   - open         Parse a packet from an imported peer
//   - passwd       Change the passphrase protecting both private keys
//   - reset        Erase the local identity
//
// # Implementation
//
// The root command loads the YAML config, applies flag overrides and builds
// the dependency graph (stores, vault, services, logger, metrics registry)
// before any subcommand runs. With --metrics the gathered counters are
// printed to stderr after the subcommand finishes.
package commands
