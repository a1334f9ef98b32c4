// Package executor runs external renderer plugins over the go-plugin RPC
// protocol: it probes a binary's --plugin-info metadata, checks protocol
// compatibility and manages the plugin process lifecycle.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os/exec"
	"time"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/code-soul/chromapath/pkg/plugin"
)

// probeTimeout bounds the --plugin-info metadata query.
const probeTimeout = 5 * time.Second

// Executor runs one external renderer plugin binary.
type Executor struct {
	path      string
	info      plugin.PluginInfo
	verbose   bool
	client    *goplugin.Client
	rpcClient *plugin.RendererPluginRPCClient
}

// New creates an Executor for the plugin binary at pluginPath.
func New(pluginPath string) (*Executor, error) {
	return NewWithVerbose(pluginPath, false)
}

// NewWithVerbose creates an Executor with verbose logging control.
func NewWithVerbose(pluginPath string, verbose bool) (*Executor, error) {
	return NewWithVerboseAndRunner(pluginPath, verbose, NewRealProcessRunner())
}

// NewWithVerboseAndRunner creates an Executor with a custom process runner
// for the metadata probe. The plugin is queried for --plugin-info and
// rejected if it does not speak the go-plugin renderer protocol or its
// protocol version is incompatible.
func NewWithVerboseAndRunner(pluginPath string, verbose bool, runner ProcessRunner) (*Executor, error) {
	info, err := probeInfo(runner, pluginPath)
	if err != nil {
		return nil, fmt.Errorf("failed to query plugin info: %w", err)
	}

	if info.PluginProtocol != string(plugin.PluginTypeGoPlugin) {
		return nil, fmt.Errorf("plugin %s: unsupported plugin_protocol %q, want %q",
			pluginPath, info.PluginProtocol, plugin.PluginTypeGoPlugin)
	}

	// A missing protocol_version is tolerated for older plugins, but a
	// reported one must pass the compatibility check.
	if info.ProtocolVersion != "" {
		compatible, err := plugin.IsCompatible(info.ProtocolVersion)
		if err != nil || !compatible {
			errMsg := "unknown error"
			if err != nil {
				errMsg = err.Error()
			}
			return nil, fmt.Errorf(
				"plugin %q protocol version %s is incompatible with chromapath %s: %s",
				info.Name, info.ProtocolVersion, plugin.ProtocolVersion, errMsg)
		}
	}

	return &Executor{
		path:    pluginPath,
		info:    info,
		verbose: verbose,
	}, nil
}

// Info returns the metadata reported by the plugin's --plugin-info query.
func (e *Executor) Info() plugin.PluginInfo {
	return e.info
}

// Render executes one render job on the plugin.
func (e *Executor) Render(ctx context.Context, req plugin.RenderRequest) (plugin.RenderResponse, error) {
	client, err := e.getRPCClient()
	if err != nil {
		return plugin.RenderResponse{}, err
	}
	return client.Render(ctx, req)
}

// FlagHelp fetches the plugin's option help over RPC.
func (e *Executor) FlagHelp() ([]plugin.FlagHelp, error) {
	client, err := e.getRPCClient()
	if err != nil {
		return nil, err
	}
	return client.GetFlagHelp(), nil
}

// Close cleans up any resources held by the executor.
func (e *Executor) Close() {
	if e.client != nil {
		e.client.Kill()
		e.client = nil
		e.rpcClient = nil
	}
}

// getRPCClient lazily starts the plugin process and dispenses the renderer.
func (e *Executor) getRPCClient() (*plugin.RendererPluginRPCClient, error) {
	if e.rpcClient != nil {
		return e.rpcClient, nil
	}

	// Configure logger based on verbose flag.
	var logger hclog.Logger
	if e.verbose {
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "plugin",
			Output: log.Writer(),
			Level:  hclog.Debug,
		})
	} else {
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "plugin",
			Output: io.Discard,
			Level:  hclog.Off,
		})
	}

	// Initialize go-plugin client.
	e.client = goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig: plugin.Handshake,
		Plugins: map[string]goplugin.Plugin{
			plugin.RendererPluginName: &plugin.RendererPluginRPC{},
		},
		Cmd:              exec.Command(e.path),
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           logger,
	})

	// Connect via RPC.
	rpcClient, err := e.client.Client()
	if err != nil {
		e.client.Kill()
		e.client = nil
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	// Request the renderer.
	raw, err := rpcClient.Dispense(plugin.RendererPluginName)
	if err != nil {
		e.client.Kill()
		e.client = nil
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	client, ok := raw.(*plugin.RendererPluginRPCClient)
	if !ok {
		e.client.Kill()
		e.client = nil
		return nil, fmt.Errorf("plugin dispensed unexpected type %T", raw)
	}
	e.rpcClient = client

	return client, nil
}

// probeInfo queries a plugin binary for its --plugin-info metadata.
func probeInfo(runner ProcessRunner, pluginPath string) (plugin.PluginInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	stdout, stderr, err := runner.Run(ctx, pluginPath, []string{"--plugin-info"}, nil)
	if err != nil {
		if len(stderr) > 0 {
			return plugin.PluginInfo{}, fmt.Errorf("failed to execute plugin: %w\nStderr: %s", err, stderr)
		}
		return plugin.PluginInfo{}, fmt.Errorf("failed to execute plugin: %w", err)
	}

	var info plugin.PluginInfo
	if err := json.Unmarshal(stdout, &info); err != nil {
		return plugin.PluginInfo{}, fmt.Errorf("failed to parse plugin info: %w", err)
	}

	return info, nil
}
