// Package http serves the reference record store over REST.
//
// Every store route lives under /api/containers/{container}/{scope} and
// requires a device token issued for that container. Requests pass through
// trace-id, access logging, gzip and panic recovery middleware before they
// reach [service.RecordService].
package http
