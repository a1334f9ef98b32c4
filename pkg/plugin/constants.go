// Package plugin provides the public API for chromapath renderer plugins.
package plugin

import (
	"github.com/hashicorp/go-plugin"
)

const (
	// ProtocolVersion defines the current plugin API version.
	// Format: MAJOR.MINOR.PATCH.
	// - Increment MAJOR for breaking changes (incompatible API changes).
	// - Increment MINOR for backward-compatible additions.
	// - Increment PATCH for backward-compatible bug fixes.
	ProtocolVersion = "0.0.1"

	// MinCompatibleVersion is the oldest protocol version this chromapath version can work with.
	MinCompatibleVersion = "0.0.1"

	// RendererPluginName is the dispense key renderer plugins are served under.
	RendererPluginName = "renderer"
)

// Handshake is the handshake configuration for go-plugin protocol.
// This ensures that plugins using go-plugin can only connect to compatible hosts.
//
// NOTE: go-plugin's ProtocolVersion is a single uint that must match exactly.
// We use the major version from ProtocolVersion for this. The full semantic
// version checking (including MinCompatibleVersion) happens separately via the
// --plugin-info query and IsCompatible() function.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  uint(GetCurrentVersion().Major),
	MagicCookieKey:   "CHROMAPATH_PLUGIN",
	MagicCookieValue: "chromapath_renderer",
}

// PluginType defines the type of plugin communication protocol.
type PluginType string

const (
	// PluginTypeGoPlugin indicates the plugin uses HashiCorp go-plugin RPC protocol.
	PluginTypeGoPlugin PluginType = "go-plugin"

	// PluginTypeBuiltin indicates an in-process renderer compiled into chromapath.
	PluginTypeBuiltin PluginType = "builtin"
)
