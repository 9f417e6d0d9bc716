package cli

import (
	"fmt"
	"io"
	"strings"

	"hackspace/internal/config"
	"hackspace/internal/format"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Root       string
	Seed       string
	PrettyJSON bool
	Format     string
	LogLevel   string
	ConfigFile string

	cfg *config.Config
	log *logrus.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "hackspace",
		Short:        "Project file tree + tab session manager (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI on the built-in demo project
  hackspace

  # Browse a directory on disk
  hackspace --root ./my-app

  # Scriptable commands
  hackspace tree --format table
  hackspace tabs

  # Direct click (shortcut for: hackspace click src/App.jsx)
  hackspace src/App.jsx
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(app.ConfigFile, cmd.Flags())
		if err != nil {
			return writeErr(cmd, err)
		}
		app.apply(cfg)
		app.log = newLogger(cmd.ErrOrStderr(), cfg.Level())
		app.log.WithField("config", cfg.FileUsed).Debug("config loaded")
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", "", "Config file (default: ~/.hackspace/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Path to store dir (default: <root>/.hackspace, or the nearest .hackspace)")
	cmd.PersistentFlags().StringVar(&app.Root, "root", "", "Load the file tree from this directory instead of a seed manifest")
	cmd.PersistentFlags().StringVar(&app.Seed, "seed", "", "Seed manifest (TOML); default is the built-in demo project")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", config.DefaultFormat, "Output format (json|yaml|table)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")

	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newSnapshotCmd(app))
	cmd.AddCommand(newClickCmd(app))
	cmd.AddCommand(newTabsCmd(app))
	cmd.AddCommand(newActivateCmd(app))
	cmd.AddCommand(newCloseCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newSaveCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newSeedCmd(app))
	cmd.AddCommand(newWebTUICmd(app))

	return cmd
}

func (app *App) apply(cfg *config.Config) {
	app.cfg = cfg
	app.Dir = cfg.Dir
	app.Root = cfg.Root
	app.Seed = cfg.Seed
	app.Format = cfg.Format
	app.PrettyJSON = cfg.Pretty
	app.LogLevel = cfg.LogLevel
}

func newLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// writeOut wraps v in the {"data": ...} envelope, except for tables, which render v directly.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	if strings.EqualFold(strings.TrimSpace(app.Format), "table") {
		return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
