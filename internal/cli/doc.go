// Package cli defines the Cobra command tree for the newt CLI. Each file in
// this package registers one top-level command (new, list, install, etc.)
// with the root command. Commands delegate the work to internal packages and
// keep to argument handling and output; exit.go maps errors to exit codes.
package cli
