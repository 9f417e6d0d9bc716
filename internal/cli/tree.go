package cli

import (
	"hackspace/internal/model"
	"hackspace/internal/workspace"

	"github.com/spf13/cobra"
)

func newTreeCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the project tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openWorkspace(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t := h.ctrl.Tree()
			if all {
				t = t.SetAllExpanded(true)
			}
			return writeOut(cmd, app, treeView(t.Roots()))
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Show collapsed folders' contents too (display only)")
	return cmd
}

func newSnapshotCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Show the full workspace snapshot (tree + tabs)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openWorkspace(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, snapshotView(h.ctrl.Snapshot()))
		},
	}
}

func newClickCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "click <path>",
		Short: "Click a tree node: toggle a folder or open a file",
		Long:  "Click a tree node by slash-separated path. Folders toggle; files open (or focus) a tab. Unknown paths leave the workspace unchanged.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvent(cmd, app, workspace.NodeClicked(model.ParsePath(args[0])))
		},
	}
}
