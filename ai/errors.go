package ai

import "errors"

var (
	// ErrSettingsRequired indicates a registry was constructed without
	// settings.
	ErrSettingsRequired = errors.New("settings are required")

	// ErrModelNotConfigured indicates the requested model belongs to a
	// provider with no API key set.
	ErrModelNotConfigured = errors.New("model not configured")
)
