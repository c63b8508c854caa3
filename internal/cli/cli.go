// Package cli implements the shopdash command-line interface.
//
// Running shopdash with no subcommand opens the dashboard. The layout
// subcommands read and change the same persisted layout from scripts.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Subcommands
// log to stderr; the dashboard logs to the file named by log.path because it
// owns the terminal. Loggers are passed through context.Context.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jask/shopdash/internal/config"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// LoadConfig reads settings; replaced in tests.
	LoadConfig func() (config.Config, error)

	backendFlag string
	catalogFlag string
}

// New creates a CLI whose logger writes to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		LoadConfig: config.Load,
	}
}

func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "shopdash",
		Short:        "Shopdash is a terminal dashboard with a rearrangeable widget grid",
		Long:         `Shopdash shows business widgets on a four-column grid. Widgets can be hidden, resized, expanded and dragged into a new order; the layout is saved after every change.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDashboard(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&c.backendFlag, "backend", "", "layout store backend: sqlite, file, redis or memory (overrides store.backend)")
	root.PersistentFlags().StringVar(&c.catalogFlag, "catalog", "", "widget catalog TOML file (overrides catalog.path)")

	root.AddCommand(c.widgetsCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.configCommand())
	return root
}

// settings loads configuration and applies command-line overrides.
func (c *CLI) settings() (config.Config, error) {
	cfg, err := c.LoadConfig()
	if err != nil {
		return config.Config{}, err
	}
	if c.backendFlag != "" {
		cfg.Store.Backend = c.backendFlag
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	if c.catalogFlag != "" {
		cfg.Catalog.Path = c.catalogFlag
	}
	return cfg, nil
}
