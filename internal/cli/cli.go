// Package cli implements the gdsr command-line interface.
package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gdsr/pkg/buildinfo"
	"github.com/matzehuels/gdsr/pkg/config"
	"github.com/matzehuels/gdsr/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "gdsr"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
	hooks      *logHooks

	// interactive and runPicker decide whether and how a top cell is
	// chosen from a list when a command needs one and none is named.
	interactive func() bool
	runPicker   func(tea.Model) (tea.Model, error)
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	logger := newLogger(w, level)
	return &CLI{
		Logger: logger,
		cfg:    config.Default(),
		hooks:  &logHooks{logger: logger},

		interactive: isTerminal,
		runPicker:   runTeaProgram,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "gdsr reads, inspects and writes GDSII layouts",
		Long:              `gdsr is a CLI tool for working with GDSII stream files: summarize libraries, walk cell hierarchies, flatten cells and convert between GDSII and JSON.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML configuration file")

	root.AddCommand(c.infoCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.flattenCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration file, attaches the logger to the command
// context and routes codec and flatten events to it.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.cfg = cfg
		c.Logger.Debug("loaded config", "path", c.configPath)
	}

	observability.SetCodecHooks(c.hooks)
	observability.SetFlattenHooks(c.hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
