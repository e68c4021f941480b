package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"antmenu/internal/menu"
)

var (
	configPath string
	outputJSON bool
	noProgress bool
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitPermission = 2
	ExitPartial    = 3
	ExitBuild      = 4
)

// Execute runs the root cobra command and exits with the mapped code.
func Execute() {
	cmd := newRootCmd()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(ExitCode(err))
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "antmenu [file.xml] [target]",
		Short: "Run Apache Ant builds from the Explorer context menu",
		Long: "antmenu registers a context-menu verb for XML files and runs the\n" +
			"selected build file with Ant when invoked with a file argument.",
		Args:          cobra.RangeArgs(0, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runBuild(cmd, args)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the settings file")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable the interactive progress view")
	cmd.Flags().IntVar(&timeoutOverride, "timeout", 0, "Build timeout in seconds (overrides timeout_seconds)")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newInstallCmd())
	cmd.AddCommand(newUninstallCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newTargetsCmd())
	cmd.AddCommand(newConfigCmd())
	return cmd
}

// partialError marks an install or uninstall where some classes failed.
type partialError struct {
	err error
}

func (e *partialError) Error() string { return "partially applied: " + e.err.Error() }
func (e *partialError) Unwrap() error { return e.err }

// buildError marks a build that ran but did not succeed.
type buildError struct {
	err error
}

func (e *buildError) Error() string { return e.err.Error() }
func (e *buildError) Unwrap() error { return e.err }

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var partial *partialError
	if errors.As(err, &partial) {
		return ExitPartial
	}
	var build *buildError
	if errors.As(err, &build) {
		return ExitBuild
	}
	if errors.Is(err, menu.ErrPermissionDenied) {
		return ExitPermission
	}
	return ExitFailure
}
