// Package cli provides the command-line interface for Chromapath.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/plugin/executor"
	"github.com/code-soul/chromapath/internal/plugin/renderer"
	"github.com/code-soul/chromapath/pkg/plugin"
	"golang.org/x/term"
)

// renderTarget is the slice of the renderer surface the commands drive.
// Builtin renderers and external plugin executors both provide it.
type renderTarget interface {
	Render(ctx context.Context, req plugin.RenderRequest) (plugin.RenderResponse, error)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// resolveRenderer finds a renderer by name: builtin renderers first, then
// discovered external plugins. A name containing a path separator is
// treated as a plugin binary directly. The returned cleanup releases the
// external plugin process, if any.
func resolveRenderer(name string, verbose bool) (renderTarget, func(), error) {
	if p, ok := renderer.Builtin().Get(name); ok {
		return p, func() {}, nil
	}

	path := name
	if !strings.ContainsAny(name, `/\`) {
		found, err := executor.Find(name)
		if err != nil {
			return nil, nil, err
		}
		path = found.Path
	}

	ext, err := executor.NewWithVerbose(path, verbose)
	if err != nil {
		return nil, nil, err
	}
	return ext, ext.Close, nil
}

// metricValue is a pflag.Value holding a distance metric. The name is
// resolved when the flag is set, so an unknown metric fails during flag
// parsing instead of deep inside a command.
type metricValue struct {
	metric colour.Metric
}

func newMetricValue() *metricValue {
	return &metricValue{metric: colour.Euclidean{}}
}

func (v *metricValue) String() string { return v.metric.Name() }

func (v *metricValue) Type() string { return "metric" }

func (v *metricValue) Set(name string) error {
	metric, err := colour.ParseMetric(name)
	if err != nil {
		return err
	}
	v.metric = metric
	return nil
}

// Metric returns the resolved metric.
func (v *metricValue) Metric() colour.Metric { return v.metric }

// parseOptions splits repeatable key=value flags into a map.
func parseOptions(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	opts := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid renderer option %q, want key=value", pair)
		}
		opts[key] = value
	}
	return opts, nil
}
