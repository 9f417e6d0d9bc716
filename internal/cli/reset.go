package cli

import (
	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the saved session and journal (the tree returns to its seed/disk state)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadSource(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := storeFor(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.DeleteSession(cmd.Context(), src.key); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().WithField("workspace", src.key).Info("session reset")
			return writeOut(cmd, app, resetView{Workspace: src.key, Reset: true})
		},
	}
}
