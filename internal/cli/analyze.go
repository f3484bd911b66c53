package cli

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/lookmlaudit/internal/app"
	"github.com/specialistvlad/lookmlaudit/internal/assess"
	"github.com/specialistvlad/lookmlaudit/internal/report"
	"github.com/spf13/cobra"
)

// outputFlags are shared by the commands printing a report.
type outputFlags struct {
	format string
	rows   bool
	failOn string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "text", "Output format. Options: 'text', 'json' or 'yaml'.")
	cmd.Flags().BoolVar(&o.rows, "rows", false, "Include the explore/view relation table.")
}

func (o *outputFlags) parse() (report.Format, *assess.Severity, error) {
	format, err := report.ParseFormat(o.format)
	if err != nil {
		return "", nil, usageError(err)
	}
	if o.failOn == "" {
		return format, nil, nil
	}
	sev, err := assess.ParseSeverity(o.failOn)
	if err != nil || sev == assess.SeverityPositive {
		return "", nil, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("invalid fail-on %q: must be 'critical' or 'recommendation'", o.failOn)}
	}
	return format, &sev, nil
}

func newAnalyzeCommand(g *globalFlags) *cobra.Command {
	o := &outputFlags{}
	cmd := &cobra.Command{
		Use:   "analyze [PROJECT_PATH]",
		Short: "Analyze a LookML project and print the assessment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, failOn, err := o.parse()
			if err != nil {
				return err
			}
			a, err := newApp(cmd, g, args, 0)
			if err != nil {
				return err
			}
			res, err := a.Run(cmd.Context())
			if err != nil {
				return err
			}
			if err := printResult(cmd, format, o.rows, res); err != nil {
				return err
			}
			return checkFailOn(res, failOn)
		},
	}
	o.register(cmd)
	cmd.Flags().StringVar(&o.failOn, "fail-on", "", "Exit with code 3 when a finding at or above this severity exists. Options: 'critical' or 'recommendation'.")
	return cmd
}

func printResult(cmd *cobra.Command, format report.Format, rows bool, res *app.Result) error {
	return report.Render(cmd.OutOrStdout(), format, report.Report{
		Analysis: res.Analysis,
		Findings: res.Findings,
		Rows:     rows,
	})
}

func checkFailOn(res *app.Result, failOn *assess.Severity) error {
	if failOn == nil || !assess.AtLeast(res.Findings, *failOn) {
		return nil
	}
	return &ExitError{
		Code:    ExitFailOn,
		Message: fmt.Sprintf("findings at or above %s severity", strings.ToLower(string(*failOn))),
	}
}
