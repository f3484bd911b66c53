// Package app contains the core application logic. It wires the project
// configuration, the scanners, the builder and the assessment into a single
// run, and owns the long-running pieces of watch mode such as the health
// check server. It is decoupled from any specific entrypoint like a CLI.
package app
