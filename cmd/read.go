package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/shared"
	"github.com/desertthunder/folio/internal/ui"
)

// Read launches the interactive terminal reader.
func (r *Runner) Read(ctx context.Context, cmd *cli.Command) error {
	if r.library == nil {
		return fmt.Errorf("%w: library service not initialized", shared.ErrMissingConfig)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Reader.LogPath
	if logPath == "" {
		logPath = "./tmp/folio-tui.log"
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	settings := models.DisplaySettings{
		FontScale: r.config.Reader.FontScale,
		Theme:     models.ParseTheme(r.config.Reader.Theme),
	}

	model := ui.NewModel(ctx, r.library, settings, fileLogger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
