package cli

import (
	"hackspace/internal/workspace"

	"github.com/spf13/cobra"
)

func newTabsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tabs",
		Short: "List open tabs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openWorkspace(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s := h.ctrl.Session()
			return writeOut(cmd, app, tabsView{Tabs: s.Tabs(), Active: s.Active()})
		},
	}
}

func newActivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "activate <tab>",
		Aliases: []string{"focus"},
		Short:   "Focus an open tab (no-op when the tab isn't open)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvent(cmd, app, workspace.TabClicked(args[0]))
		},
	}
}

func newCloseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "close <tab>",
		Short: "Close a tab; the last remaining tab becomes active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvent(cmd, app, workspace.TabClosed(args[0]))
		},
	}
}

func runEvent(cmd *cobra.Command, app *App, ev workspace.Event) error {
	h, err := openWorkspace(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	snap, err := h.apply(cmd.Context(), ev)
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, snapshotView(snap))
}
