package cli

import (
	"bytes"
	"os"

	"hackspace/internal/seed"

	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed manifests",
	}

	var out string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current workspace (tree + tabs) as a TOML seed manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openWorkspace(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			m := seed.FromWorkspace(h.src.name, h.ctrl.Tree(), h.ctrl.Session())
			var buf bytes.Buffer
			if err := m.Encode(&buf); err != nil {
				return writeErr(cmd, err)
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
			} else {
				err = os.WriteFile(out, buf.Bytes(), 0o644)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")

	cmd.AddCommand(exportCmd)
	return cmd
}
