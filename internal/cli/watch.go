package cli

import (
	"fmt"

	"github.com/specialistvlad/lookmlaudit/internal/app"
	"github.com/spf13/cobra"
)

func newWatchCommand(g *globalFlags) *cobra.Command {
	o := &outputFlags{}
	var port int
	cmd := &cobra.Command{
		Use:   "watch [PROJECT_PATH]",
		Short: "Re-run the analysis whenever view or model files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _, err := o.parse()
			if err != nil {
				return err
			}
			a, err := newApp(cmd, g, args, port)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return a.Watch(cmd.Context(), func(res *app.Result, err error) {
				if err != nil {
					fmt.Fprintf(out, "analysis failed: %v\n", err)
					return
				}
				if err := printResult(cmd, format, o.rows, res); err != nil {
					a.Logger().Error("Failed to print report.", "error", err)
				}
			})
		},
	}
	o.register(cmd)
	cmd.Flags().IntVar(&port, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	return cmd
}
