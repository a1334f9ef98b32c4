package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/code-soul/chromapath/internal/security"
)

const (
	// PluginPrefix is the executable name prefix for external renderer binaries.
	PluginPrefix = "chromapath-renderer-"

	// pluginDirEnv overrides the default external plugin directory.
	pluginDirEnv = "CHROMAPATH_PLUGIN_DIR"
)

// DiscoveredPlugin describes an external renderer binary found on disk.
type DiscoveredPlugin struct {
	// Name is the renderer name, the executable name with PluginPrefix removed.
	Name string

	// Path is the absolute or PATH-relative location of the binary.
	Path string
}

// DefaultDir returns the external plugin directory: $CHROMAPATH_PLUGIN_DIR
// when set, otherwise chromapath/plugins under the user config directory.
func DefaultDir() (string, error) {
	if dir := os.Getenv(pluginDirEnv); dir != "" {
		return dir, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(configDir, "chromapath", "plugins"), nil
}

// Discover lists external renderer binaries in the plugin directory and on
// PATH. A binary qualifies when its name starts with PluginPrefix and it is
// executable. The first occurrence of a name wins, so the plugin directory
// shadows PATH entries. Results are sorted by name.
func Discover() ([]DiscoveredPlugin, error) {
	pluginDir, err := DefaultDir()
	if err != nil {
		return nil, err
	}

	dirs := append([]string{pluginDir}, filepath.SplitList(os.Getenv("PATH"))...)

	seen := make(map[string]struct{})
	var found []DiscoveredPlugin
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			// Missing or unreadable directories are skipped, not fatal.
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name, ok := strings.CutPrefix(entry.Name(), PluginPrefix)
			if !ok || name == "" {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.Mode()&0o111 == 0 {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			// Entries that resolve outside their own directory are skipped.
			if err := security.ValidatePluginPath(path, dir); err != nil {
				continue
			}
			seen[name] = struct{}{}
			found = append(found, DiscoveredPlugin{
				Name: name,
				Path: path,
			})
		}
	}

	slices.SortFunc(found, func(a, b DiscoveredPlugin) int {
		return strings.Compare(a.Name, b.Name)
	})
	return found, nil
}

// Find locates one external renderer by name, searching the plugin directory
// and PATH the same way Discover does.
func Find(name string) (DiscoveredPlugin, error) {
	plugins, err := Discover()
	if err != nil {
		return DiscoveredPlugin{}, err
	}
	for _, p := range plugins {
		if p.Name == name {
			return p, nil
		}
	}
	return DiscoveredPlugin{}, fmt.Errorf("renderer plugin %q not found (looked for %s%s in the plugin directory and PATH)",
		name, PluginPrefix, name)
}
