package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/specialistvlad/lookmlaudit/internal/app"
	"github.com/spf13/cobra"
)

// Exit codes returned through ExitError.
const (
	ExitFatal  = 1
	ExitUsage  = 2
	ExitFailOn = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// Execute runs the command line. Reports go to stdout, logs to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Cobra reports unknown commands and arity problems as plain errors.
	if isUsage(err) {
		return usageError(err)
	}
	return err
}

// NewRootCommand builds the command tree.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "lookmlaudit",
		Short: "lookmlaudit - static analysis for LookML projects",
		Long: `lookmlaudit scans the view and model files of a LookML project, maps
every explore and join to the view it uses and reports integrity problems
such as missing views, joins without primary keys or naming drift.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Path to the project config file (default <project>/lookmlaudit.hcl).")
	pf.StringVar(&g.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&g.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	root.AddCommand(
		newAnalyzeCommand(g),
		newGraphCommand(g),
		newInitCommand(),
		newWatchCommand(g),
	)
	return root
}

// newApp validates the flags and builds the application for a project.
func newApp(cmd *cobra.Command, g *globalFlags, args []string, port int) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		ProjectPath:     projectPath(args),
		ConfigPath:      g.configPath,
		LogLevel:        strings.ToLower(g.logLevel),
		LogFormat:       strings.ToLower(g.logFormat),
		HealthcheckPort: port,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return app.NewApp(cmd.Context(), cmd.ErrOrStderr(), cfg)
}

func projectPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

func isUsage(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "accepts ") ||
		strings.HasPrefix(msg, "requires ")
}
