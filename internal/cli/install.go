package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"antmenu/internal/installer"
	"antmenu/internal/menu"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Register the context-menu verb (requires administrator rights)",
		Args:  cobra.NoArgs,
		RunE:  runInstall,
	}
}

func newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the context-menu verb (requires administrator rights)",
		Args:  cobra.NoArgs,
		RunE:  runUninstall,
	}
}

func newInstaller(env *environment) *installer.Installer {
	return &installer.Installer{
		Config:     env.cfg,
		Executable: env.paths.Executable,
		Manager:    newManager(env.logger),
		Locator:    toolLocator,
		Logger:     env.logger,
		GOOS:       targetOS,
	}
}

func runInstall(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment("install")
	if err != nil {
		return err
	}
	defer env.Close()

	report, err := newInstaller(env).Install(cmd.Context())
	if werr := writeReport(cmd.OutOrStdout(), report); werr != nil {
		return werr
	}
	return classifyRegistration(report, err)
}

func runUninstall(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment("uninstall")
	if err != nil {
		return err
	}
	defer env.Close()

	report, err := newInstaller(env).Uninstall(cmd.Context())
	if werr := writeReport(cmd.OutOrStdout(), report); werr != nil {
		return werr
	}
	return classifyRegistration(report, err)
}

func classifyRegistration(report installer.Report, err error) error {
	if err == nil {
		return nil
	}
	if report.Outcome != nil && report.Outcome.Partial() {
		return &partialError{err: err}
	}
	return err
}

func writeReport(out io.Writer, report installer.Report) error {
	if outputJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if report.Prerequisites != nil {
		writeChecks(out, "PREREQUISITES:", report.Prerequisites.Checks)
	}
	if report.Outcome != nil && len(report.Outcome.Classes) > 0 {
		fmt.Fprintln(out)
		writeOutcome(out, *report.Outcome)
	}
	if report.State != nil {
		fmt.Fprintln(out)
		writeState(out, *report.State)
	}
	return nil
}

func writeOutcome(out io.Writer, outcome menu.Outcome) {
	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	fmt.Fprintln(out, bold.Render("CHANGES:"))
	for _, c := range outcome.Classes {
		action := stateStyle(string(c.Action)).Render(string(c.Action))
		fmt.Fprintf(out, "  %-10s %s", c.FileClass, action)
		if c.Error != "" {
			fmt.Fprintf(out, "    %s", c.Error)
		}
		fmt.Fprintln(out)
	}
}

func writeChecks(out io.Writer, title string, checks []installer.Check) {
	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	fmt.Fprintln(out, bold.Render(title))
	for _, c := range checks {
		var label string
		switch c.Status {
		case installer.CheckOK:
			label = stateStyle("ok").Render("OK")
		case installer.CheckWarning:
			label = stateStyle("warning").Render("WARN")
		default:
			label = stateStyle("error").Render("ERROR")
		}
		fmt.Fprintf(out, "  %-12s %-5s  %s\n", c.Name+":", label, c.Summary)
	}
}
