// Package plugin provides the public API for chromapath renderer plugins.
// External plugins should import this package instead of internal packages.
package plugin

// FlagHelp represents help information for a single plugin option.
// This type is part of the plugin protocol and is used by both builtin and external renderers.
type FlagHelp struct {
	Name        string `json:"name"`        // Option name (e.g., "background", "scale")
	Shorthand   string `json:"shorthand"`   // Short flag (e.g., "b")
	Type        string `json:"type"`        // Type (e.g., "string", "int", "bool")
	Default     string `json:"default"`     // Default value as string
	Description string `json:"description"` // Help text
	Required    bool   `json:"required"`    // Is this option required?
}

// PluginInfo contains metadata about a plugin.
type PluginInfo struct {
	Name            string `json:"name"`
	Type            string `json:"type"` // "renderer"
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
	Description     string `json:"description"`
	PluginProtocol  string `json:"plugin_protocol"` // "go-plugin"
}
