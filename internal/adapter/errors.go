package adapter

import "errors"

// Sentinel errors mapped from HTTP status codes of the record store.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")

	// ErrContainerNotFound is returned by Status when the configured
	// container does not exist on the server.
	ErrContainerNotFound = errors.New("container not found")

	// ErrTransport wraps failures below HTTP: refused connections, DNS
	// errors and request timeouts.
	ErrTransport = errors.New("record store unreachable")
)
