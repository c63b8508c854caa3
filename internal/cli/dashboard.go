package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/shopdash/internal/tui"
)

// runDashboard opens the interactive grid. Logs go to the configured file
// since the program owns the terminal.
func (c *CLI) runDashboard(ctx context.Context) error {
	cfg, err := c.settings()
	if err != nil {
		return err
	}
	logger, logFile, err := openLogFile(cfg.Log.Path, cfg.Log.Level, c.Logger.GetLevel())
	if err != nil {
		return err
	}
	defer logFile.Close()

	// Store writes must outlive an interrupt so Close can flush a held drag.
	s, err := c.openSession(context.WithoutCancel(ctx), logger)
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info("dashboard started", "backend", s.backend.name, "visible", len(s.store.Layout()))
	app := tui.New(ctx, s.store, tui.Options{
		Keys:                 s.cfg.Keys,
		HoldWritesDuringDrag: !s.cfg.Layout.PersistDuringDrag,
		Logger:               logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	app.Close()
	if err != nil {
		if ctx.Err() != nil {
			return errors.Join(ctx.Err(), err)
		}
		return err
	}
	logger.Info("dashboard closed")
	return s.store.Err()
}
