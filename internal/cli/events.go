package cli

import (
	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the workspace event journal (oldest-first)",
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
			evs, err := s.ReadEventsTail(cmd.Context(), src.key, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, eventsView(evs))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Max events to return (0 = all)")
	return cmd
}
