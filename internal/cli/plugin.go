// Package cli provides the command-line interface for Chromapath.
package cli

import (
	"fmt"

	"github.com/code-soul/chromapath/internal/plugin/executor"
	"github.com/code-soul/chromapath/internal/plugin/renderer"
	"github.com/code-soul/chromapath/pkg/plugin"
	"github.com/spf13/cobra"
)

// pluginsCmd represents the plugins command
var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Inspect renderer plugins",
	Long: `Inspect the available renderer plugins.

Builtin renderers ship inside chromapath. External renderers are
standalone binaries named ` + executor.PluginPrefix + `<name>, looked up
in the plugin directory ($CHROMAPATH_PLUGIN_DIR, falling back to the
user config dir) and on PATH.`,
}

// pluginsListCmd represents the plugins list command
var pluginsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available renderer plugins",
	RunE:  runPluginsList,
}

// pluginsInfoCmd represents the plugins info command
var pluginsInfoCmd = &cobra.Command{
	Use:   "info [name]",
	Short: "Show a renderer plugin's metadata and options",
	Args:  cobra.ExactArgs(1),
	RunE:  runPluginsInfo,
}

func init() {
	pluginsCmd.AddCommand(pluginsListCmd)
	pluginsCmd.AddCommand(pluginsInfoCmd)
}

func runPluginsList(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	table := NewTable([]string{"NAME", "TYPE", "VERSION", "SOURCE", "DESCRIPTION"})
	table.SetColumnMaxWidth(4, 48)

	builtin := renderer.Builtin()
	for _, name := range builtin.List() {
		p, ok := builtin.Get(name)
		if !ok {
			continue
		}
		info := p.GetMetadata()
		table.AddRow([]string{info.Name, "builtin", info.Version, "builtin", info.Description})
	}

	discovered, err := executor.Discover()
	if err != nil {
		return fmt.Errorf("failed to scan for plugins: %w", err)
	}
	for _, d := range discovered {
		ext, err := executor.NewWithVerbose(d.Path, verbose)
		if err != nil {
			table.AddRow([]string{d.Name, "external", "-", d.Path, fmt.Sprintf("unavailable: %v", err)})
			continue
		}
		info := ext.Info()
		ext.Close()
		table.AddRow([]string{info.Name, "external", info.Version, d.Path, info.Description})
	}

	fmt.Fprint(cmd.OutOrStdout(), table.Render())
	return nil
}

func runPluginsInfo(cmd *cobra.Command, args []string) error {
	name := args[0]
	verbose, _ := cmd.Flags().GetBool("verbose")
	out := cmd.OutOrStdout()

	var info plugin.PluginInfo
	var flags []plugin.FlagHelp

	if p, ok := renderer.Builtin().Get(name); ok {
		info = p.GetMetadata()
		flags = p.GetFlagHelp()
	} else {
		found, err := executor.Find(name)
		if err != nil {
			return err
		}
		ext, err := executor.NewWithVerbose(found.Path, verbose)
		if err != nil {
			return err
		}
		defer ext.Close()
		info = ext.Info()
		flags, err = ext.FlagHelp()
		if err != nil {
			return fmt.Errorf("failed to query plugin options: %w", err)
		}
	}

	fmt.Fprintf(out, "Name:        %s\n", info.Name)
	fmt.Fprintf(out, "Type:        %s\n", info.Type)
	fmt.Fprintf(out, "Version:     %s\n", info.Version)
	fmt.Fprintf(out, "Protocol:    %s (%s)\n", info.PluginProtocol, info.ProtocolVersion)
	fmt.Fprintf(out, "Description: %s\n", info.Description)

	if len(flags) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\nOptions:")
	table := NewTable([]string{"OPTION", "TYPE", "DEFAULT", "DESCRIPTION"})
	table.SetColumnMaxWidth(3, 48)
	for _, f := range flags {
		table.AddRow([]string{f.Name, f.Type, f.Default, f.Description})
	}
	fmt.Fprint(out, table.Render())
	return nil
}
