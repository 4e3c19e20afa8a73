package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every descriptor validation failure.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnknownType is returned by lookups for unregistered types.
	ErrUnknownType = errors.New("entity type is not registered")
)

// ConfigurationError describes why a descriptor was rejected.
type ConfigurationError struct {
	Type   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: type %q: %s", ErrConfiguration, e.Type, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) true for every ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
