package cli

import (
	"io"

	"hackspace/internal/workspace"

	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	var content string
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "edit <tab>",
		Short: "Replace an open tab's buffer and mark it modified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentSet := cmd.Flags().Changed("content")
			if contentSet == fromStdin {
				return writeErr(cmd, errUsage("exactly one of --content or --stdin is required"))
			}
			if fromStdin {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return writeErr(cmd, err)
				}
				content = string(b)
			}

			h, err := openWorkspace(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := h.ctrl.Session().Find(args[0]); !ok {
				return writeErr(cmd, errNotFound("tab", args[0]))
			}
			snap, err := h.apply(cmd.Context(), workspace.FileEdited(args[0], content))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, snapshotView(snap))
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "New buffer content")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the new buffer content from stdin")
	return cmd
}

func newSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save <tab>",
		Short: "Save a tab (writes to disk for --root workspaces) and clear its modified flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openWorkspace(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := h.ctrl.Session().Find(args[0]); !ok {
				return writeErr(cmd, errNotFound("tab", args[0]))
			}
			snap, err := h.apply(cmd.Context(), workspace.FileSaved(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, snapshotView(snap))
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tab>",
		Short: "Print an open tab's buffer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openWorkspace(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			tab, ok := h.ctrl.Session().Find(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("tab", args[0]))
			}
			content, err := h.ctrl.Buffer(tab.Name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, bufferView{Name: tab.Name, Path: tab.Path, Modified: tab.Modified, Content: content})
		},
	}
}
