package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/lookmlaudit/internal/config"
	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [PROJECT_PATH]",
		Short: "Write a default " + config.DefaultFileName + " into the project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(projectPath(args), config.DefaultFileName)
			if err := config.WriteTemplate(path); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return &ExitError{Code: ExitFatal, Message: err.Error()}
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}
