package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hackspace/internal/webtui"

	"github.com/spf13/cobra"
)

func newWebTUICmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Serve the TUI in a browser (one terminal session per tab)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadSource(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := webtui.NewServer(webtui.ServerConfig{
				Addr:  addr,
				Title: src.name,
				Args:  app.childArgs(),
				Log:   app.logger(),
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{Addr: s.Addr(), Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			fmt.Fprintf(cmd.ErrOrStderr(), "webtui listening on http://%s/terminal\n", s.Addr())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7777", "Listen address")
	return cmd
}

// childArgs forwards the workspace selection to a spawned TUI process.
func (app *App) childArgs() []string {
	var args []string
	if app.ConfigFile != "" {
		args = append(args, "--config", app.ConfigFile)
	}
	if app.Dir != "" {
		args = append(args, "--dir", app.Dir)
	}
	if app.Root != "" {
		args = append(args, "--root", app.Root)
	}
	if app.Seed != "" {
		args = append(args, "--seed", app.Seed)
	}
	if app.LogLevel != "" {
		args = append(args, "--log-level", app.LogLevel)
	}
	return args
}
