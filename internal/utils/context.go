// Package utils provides general-purpose helper utilities used across the
// server and the sync client: typed context keys, JSON response writing,
// the resty HTTP client wrapper, device token signing and validation, and
// record id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

var (
	// DeviceIDCtxKey holds the authenticated device id of a request.
	DeviceIDCtxKey = contextKey("deviceID")

	// ContainerCtxKey holds the container the request's token was issued for.
	ContainerCtxKey = contextKey("container")
)

// GetDeviceIDFromContext retrieves the authenticated device id.
// ok is false when the value is missing, empty, or not a string.
func GetDeviceIDFromContext(ctx context.Context) (string, bool) {
	deviceID, ok := ctx.Value(DeviceIDCtxKey).(string)
	return deviceID, ok && deviceID != ""
}

// GetContainerFromContext retrieves the container bound to the request's token.
func GetContainerFromContext(ctx context.Context) (string, bool) {
	container, ok := ctx.Value(ContainerCtxKey).(string)
	return container, ok && container != ""
}
