package presentation

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfig is wrapped by every DisplayConfig validation failure.
	ErrInvalidConfig = errors.New("invalid display config")
	// ErrInvalidElement is wrapped by every Element validation failure.
	ErrInvalidElement = errors.New("invalid element")
)

// OrderViolation says which ordering rule a configuration call broke.
type OrderViolation string

const (
	AlreadyConfigured OrderViolation = "already_configured"
	RenderingStarted  OrderViolation = "rendering_started"
)

// ConfigurationOrderError is returned when presentation is configured more than once,
// or after rendering has begun. It signals a programming-order bug and is never retried.
type ConfigurationOrderError struct {
	Reason OrderViolation
}

func (e *ConfigurationOrderError) Error() string {
	switch e.Reason {
	case AlreadyConfigured:
		return "presentation: configuration already applied in this session"
	case RenderingStarted:
		return "presentation: configuration must precede any rendering"
	}
	return fmt.Sprintf("presentation: configuration order violation (%s)", e.Reason)
}

// IsConfigurationOrder reports whether err is, or wraps, a ConfigurationOrderError.
func IsConfigurationOrder(err error) bool {
	var target *ConfigurationOrderError
	return errors.As(err, &target)
}
