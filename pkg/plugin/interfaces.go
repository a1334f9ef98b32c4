// Package plugin provides the public API for chromapath renderer plugins.
package plugin

import (
	"context"
)

// RendererPlugin is the interface that renderer plugins must implement for go-plugin RPC.
type RendererPlugin interface {
	// Render draws the requested card or network and returns an encoded image.
	Render(ctx context.Context, req RenderRequest) (RenderResponse, error)

	// GetMetadata returns plugin metadata.
	GetMetadata() PluginInfo

	// GetFlagHelp returns help information for plugin options.
	GetFlagHelp() []FlagHelp
}
