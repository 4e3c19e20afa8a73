// Package server runs the record-store HTTP server.
//
// It owns the listener lifecycle: startup, signal handling, and graceful
// shutdown that lets in-flight record batches finish.
package server
