// Package plugin provides the public API for chromapath renderer plugins.
package plugin

import (
	"context"
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// RendererPluginRPC implements the go-plugin Plugin interface for renderer plugins.
type RendererPluginRPC struct {
	plugin.Plugin
	Impl RendererPlugin
}

// Server returns an RPC server for this plugin.
func (p *RendererPluginRPC) Server(*plugin.MuxBroker) (any, error) {
	return &RendererPluginRPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *RendererPluginRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &RendererPluginRPCClient{client: c}, nil
}

// RendererPluginRPCServer is the RPC server implementation for renderer plugins.
type RendererPluginRPCServer struct {
	Impl RendererPlugin
}

// Render implements the RPC method for rendering.
func (s *RendererPluginRPCServer) Render(req RenderRequest, resp *RenderResponse) error {
	result, err := s.Impl.Render(context.Background(), req)
	if err != nil {
		return err
	}
	*resp = result
	return nil
}

// GetMetadata implements the RPC method for fetching plugin metadata.
func (s *RendererPluginRPCServer) GetMetadata(_ any, resp *PluginInfo) error {
	*resp = s.Impl.GetMetadata()
	return nil
}

// GetFlagHelp implements the RPC method for fetching option help.
func (s *RendererPluginRPCServer) GetFlagHelp(_ any, resp *[]FlagHelp) error {
	*resp = s.Impl.GetFlagHelp()
	return nil
}

// RendererPluginRPCClient is the RPC client implementation for renderer plugins.
type RendererPluginRPCClient struct {
	client *rpc.Client
}

// Render calls the remote Render method.
func (c *RendererPluginRPCClient) Render(_ context.Context, req RenderRequest) (RenderResponse, error) {
	var resp RenderResponse
	err := c.client.Call("Plugin.Render", req, &resp)
	return resp, err
}

// GetMetadata calls the remote GetMetadata method.
func (c *RendererPluginRPCClient) GetMetadata() (PluginInfo, error) {
	var info PluginInfo
	err := c.client.Call("Plugin.GetMetadata", new(any), &info)
	return info, err
}

// GetFlagHelp calls the remote GetFlagHelp method.
func (c *RendererPluginRPCClient) GetFlagHelp() []FlagHelp {
	var help []FlagHelp
	err := c.client.Call("Plugin.GetFlagHelp", new(any), &help)
	if err != nil {
		return []FlagHelp{}
	}
	return help
}

// RPCError represents an error returned from an RPC call.
type RPCError struct {
	Message string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return e.Message
}
