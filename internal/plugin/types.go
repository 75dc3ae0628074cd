// Package plugin discovers and runs action plugins. A plugin is an
// executable that reads one JSON Request on stdin and writes one JSON
// Response on stdout.
package plugin

import (
	"encoding/json"
	"slices"
)

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Supports reports whether the plugin declares action.
func (m Manifest) Supports(action string) bool {
	return slices.Contains(m.Actions, action)
}

// Request is sent to a plugin when a bound gesture is recognized.
type Request struct {
	Action     string          `json:"action"`
	Gesture    string          `json:"gesture"`
	Similarity float64         `json:"similarity"`
	Params     json.RawMessage `json:"params,omitempty"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
