package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/shopdash/internal/catalog"
	"github.com/jask/shopdash/internal/layout"
	"github.com/jask/shopdash/internal/prefs"
)

// layoutCommand groups the commands that read or change the saved layout.
func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect and change the saved dashboard layout",
	}
	cmd.AddCommand(c.layoutShowCommand())
	cmd.AddCommand(c.layoutExportCommand())
	cmd.AddCommand(c.layoutImportCommand())
	cmd.AddCommand(c.layoutResetCommand())
	cmd.AddCommand(c.layoutHideCommand())
	cmd.AddCommand(c.layoutExpandCommand())
	cmd.AddCommand(c.layoutSizeCommand())
	cmd.AddCommand(c.layoutMoveCommand())
	cmd.AddCommand(c.layoutHistoryCommand())
	return cmd
}

// withStore opens a session, runs fn, and reports a failed final write as
// the command's error.
func (c *CLI) withStore(ctx context.Context, fn func(s *session) error) error {
	s, err := c.openSession(ctx, loggerFromContext(ctx))
	if err != nil {
		return err
	}
	defer s.Close()
	if err := fn(s); err != nil {
		return err
	}
	if err := s.store.Err(); err != nil {
		return fmt.Errorf("layout not saved: %w", err)
	}
	return nil
}

func resolveWidget(cat *catalog.Catalog, args []string) (catalog.Widget, error) {
	name := strings.Join(args, " ")
	w, ok := cat.Resolve(name)
	if !ok {
		return catalog.Widget{}, fmt.Errorf("no widget matches %q (see shopdash widgets)", name)
	}
	return w, nil
}

// layoutShowCommand prints the layout document, or with a widget name shows
// that widget again.
func (c *CLI) layoutShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Print the layout document, or show a hidden widget at the end of the grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return c.setVisibility(cmd, args, (*layout.Store).ShowWidget)
			}
			f, err := prefs.ParseFormat(format)
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(s *session) error {
				return prefs.EncodeDocument(cmd.OutOrStdout(), s.store.Snapshot(), f)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	return cmd
}

func (c *CLI) layoutExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the layout to a .json or .yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *session) error {
				if err := prefs.WriteDocument(args[0], s.store.Snapshot()); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Exported layout to %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) layoutImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the layout with a .json or .yaml document",
		Long:  `Replace the saved layout with the document in file. Documents from an older schema version are reset to defaults; unknown widgets are dropped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := prefs.ReadDocument(args[0])
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(s *session) error {
				res := s.store.Replace(snap, nil)
				out := cmd.OutOrStdout()
				if res.State == layout.Stale {
					printInfo(out, "Document is schema v%d; %s applied", res.FromVersion, res.Policy)
				}
				printSuccess(out, "Imported layout from %s", args[0])
				printDetail(out, "%d visible, %d hidden", len(s.store.Layout()), len(s.store.Hidden()))
				return nil
			})
		},
	}
}

func (c *CLI) layoutResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the factory layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *session) error {
				s.store.ResetLayout()
				printSuccess(cmd.OutOrStdout(), "Layout reset")
				return nil
			})
		},
	}
}

func (c *CLI) layoutHideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hide <name>",
		Short: "Hide a widget",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.setVisibility(cmd, args, (*layout.Store).HideWidget)
		},
	}
}

func (c *CLI) setVisibility(cmd *cobra.Command, args []string, op func(*layout.Store, layout.WidgetID)) error {
	return c.withStore(cmd.Context(), func(s *session) error {
		w, err := resolveWidget(s.cat, args)
		if err != nil {
			return err
		}
		op(s.store, w.ID)
		state := "hidden"
		if s.store.IsVisible(w.ID) {
			state = "visible"
		}
		printSuccess(cmd.OutOrStdout(), "%s is %s", w.Name, state)
		return nil
	})
}

func (c *CLI) layoutExpandCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <name>",
		Short: "Toggle a visible widget between its size and double size",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *session) error {
				w, err := resolveWidget(s.cat, args)
				if err != nil {
					return err
				}
				if !s.store.IsVisible(w.ID) {
					return fmt.Errorf("%s is hidden", w.Name)
				}
				s.store.ToggleExpand(w.ID)
				col, row := s.store.Spans(w.ID)
				printSuccess(cmd.OutOrStdout(), "%s spans %dx%d", w.Name, int(col), max(int(row), 1))
				return nil
			})
		},
	}
}

func (c *CLI) layoutSizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "size <name> <w> <h>",
		Short: "Set a widget's size; each side becomes 1, 2 or 4",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := len(args)
			wv, errW := strconv.Atoi(args[n-2])
			hv, errH := strconv.Atoi(args[n-1])
			if err := errors.Join(errW, errH); err != nil {
				return fmt.Errorf("size: %w", err)
			}
			return c.withStore(cmd.Context(), func(s *session) error {
				w, err := resolveWidget(s.cat, args[:n-2])
				if err != nil {
					return err
				}
				s.store.SetWidgetSize(w.ID, wv, hv)
				sz := s.store.Size(w.ID)
				printSuccess(cmd.OutOrStdout(), "%s is %dx%d", w.Name, sz.W, sz.H)
				return nil
			})
		},
	}
}

func (c *CLI) layoutMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <name> <left|right|up|down>",
		Short: "Swap a widget with its neighbour",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, ok := layout.ParseDirection(args[len(args)-1])
			if !ok {
				return fmt.Errorf("unknown direction %q", args[len(args)-1])
			}
			return c.withStore(cmd.Context(), func(s *session) error {
				w, err := resolveWidget(s.cat, args[:len(args)-1])
				if err != nil {
					return err
				}
				s.store.MoveWidget(w.ID, dir)
				printSuccess(cmd.OutOrStdout(), "Order: %s", joinIDs(s.store.Layout()))
				return nil
			})
		},
	}
}

func (c *CLI) layoutHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent layout saves (sqlite backend)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *session) error {
				if s.backend.history == nil {
					return fmt.Errorf("%w (current backend: %s)", errNoHistory, s.backend.name)
				}
				revs, err := s.backend.history.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(revs) == 0 {
					printInfo(out, "No saved revisions")
					return nil
				}
				fmt.Fprintln(out, styleTitle.Render(fmt.Sprintf("%-36s  %-20s  %-3s  %-7s  %s", "REVISION", "SAVED", "VER", "VISIBLE", "HIDDEN")))
				for _, r := range revs {
					fmt.Fprintf(out, "%-36s  %-20s  %-3d  %-7d  %d\n", r.ID, r.SavedAt.Format("2006-01-02 15:04:05"), r.Version, r.Visible, r.Hidden)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of revisions to list")
	return cmd
}

func joinIDs(ids []layout.WidgetID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
