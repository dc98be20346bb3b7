// Package http implements the HTTP transport: resolve queries, catalog
// administration (explicit rebuild), and health endpoints, all rendered as
// JSON with RFC 7807 problem responses on failure.
package http
