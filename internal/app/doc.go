// Package app wires configuration, logging, metrics, the catalog store, and
// the HTTP transport into a runnable server with graceful shutdown.
package app
