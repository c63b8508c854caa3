package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/shopdash/internal/catalog"
)

// widgetsCommand lists the catalog with each widget's current state.
func (c *CLI) widgetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widgets",
		Short: "List the widget catalog and each widget's layout state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context(), loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleTitle.Render(fmt.Sprintf("%-12s %-16s %-5s %-5s %s", "ID", "NAME", "BASE", "SIZE", "STATE")))
			for _, w := range s.cat.Widgets() {
				state := "hidden"
				if s.store.IsVisible(w.ID) {
					state = "visible"
					if s.store.IsExpanded(w.ID) {
						state = "expanded"
					}
				}
				col, row := s.store.Spans(w.ID)
				fmt.Fprintf(out, "%-12s %-16s %-5s %-5s %s\n", w.ID, w.Name,
					fmt.Sprintf("%dx%d", w.Base.W, w.Base.H),
					fmt.Sprintf("%dx%d", int(col), max(int(row), 1)),
					state)
			}
			return nil
		},
	}
	cmd.AddCommand(c.widgetsInitCommand())
	cmd.AddCommand(c.widgetsExportCommand())
	return cmd
}

// widgetsExportCommand prints the catalog in effect, custom or built in, as
// TOML.
func (c *CLI) widgetsExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the catalog in use as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.settings()
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.Catalog.Path)
			if err != nil {
				return err
			}
			data, err := catalog.Encode(cat)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func (c *CLI) widgetsInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init <file>",
		Short: "Write the built-in catalog to a TOML file for editing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := catalog.WriteDefault(args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Wrote catalog to %s", args[0])
			printDetail(cmd.OutOrStdout(), "Set catalog.path or pass --catalog to use it")
			return nil
		},
	}
}
