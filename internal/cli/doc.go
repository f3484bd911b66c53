// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It builds
// the cobra command tree and translates flags into the application's
// configuration.
//
// Exit codes: 0 success, 1 fatal error, 2 usage error, 3 when the
// --fail-on threshold is reached.
package cli
