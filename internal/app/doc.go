// Package app wires application dependencies for the CLI.
//
// It loads Config from YAML and the environment, then builds the concrete
// stores, vault, services, logger and metrics registry, exposing them via
// the Wire struct for commands to use.
package app
