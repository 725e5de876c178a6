package marketplace

import (
	"errors"
	"fmt"
)

const (
	msgConfiguration = "Marketplace configuration error. Cannot load listings."
	msgFetchFailed   = "Could not fetch listings. Please check your connection and try again."
)

// ConfigurationError means a required endpoint or identity setting is missing. The
// pipeline stays usable but cannot load or write listings until it is fixed.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("marketplace not configured: missing %s", e.Missing)
}

func (e *ConfigurationError) UserMessage() string {
	return msgConfiguration
}

// TransportError wraps a failed read or write against the remote collection.
type TransportError struct {
	Op  string // "fetch" or "create"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s listings: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) UserMessage() string {
	if e.Op == "create" {
		return fmt.Sprintf("Failed to add listing: %v. Please try again.", e.Err)
	}
	return msgFetchFailed
}

// ValidationError is a rejected form. It never reaches storage.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) UserMessage() string {
	return e.Message
}

// UserMessage returns the banner text for any pipeline error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
