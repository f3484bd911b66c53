package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newGraphCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "graph [PROJECT_PATH]",
		Short: "Print the model/explore/view graph as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g, args, 0)
			if err != nil {
				return err
			}
			res, err := a.Run(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res.Graph())
		},
	}
}
