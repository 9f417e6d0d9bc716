package cli

import (
	"os"

	"hackspace/internal/tui"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()

	// The TUI owns the terminal: log to <store>/hackspace.log instead of stderr.
	s, err := storeFor(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := s.Ensure(); err != nil {
		return writeErr(cmd, err)
	}
	f, err := os.OpenFile(s.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer f.Close()
	log := app.logger()
	log.SetOutput(f)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	h, err := openWorkspaceWith(ctx, app, false)
	if err != nil {
		return writeErr(cmd, err)
	}

	opts := tui.Options{
		Title:      h.src.name,
		Controller: h.ctrl,
		Store:      h.store,
		Workspace:  h.src.key,
		Root:       h.src.root,
		Load:       app.loadOptions(),
		Log:        h.log,
	}
	if app.cfg != nil {
		opts.Theme = app.cfg.TUI.Theme
		opts.Glyphs = app.cfg.TUI.Glyphs
		opts.Preview = app.cfg.TUI.Preview
	}
	log.WithField("workspace", h.src.key).Info("tui start")
	if err := tui.Run(ctx, opts); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}
