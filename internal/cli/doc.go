// Package cli parses the surfacenav command line, validates user input and
// carries process-level concerns like exit codes and the logger.
package cli
