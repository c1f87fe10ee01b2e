// Package cli parses the command line into Options and defines the exit
// codes for usage errors. It does not run anything itself.
package cli
