package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"antmenu/internal/menu"
	"antmenu/internal/tui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the context-menu verb is registered",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment("status")
	if err != nil {
		return err
	}
	defer env.Close()

	report := newInstaller(env).Status(cmd.Context())
	if outputJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		writeState(cmd.OutOrStdout(), *report.State)
	}
	if report.State.LastError != nil {
		return fmt.Errorf("read registry: %s", report.State.LastError.Message)
	}
	return nil
}

// classStatus condenses a ClassState to one word.
func classStatus(c menu.ClassState) string {
	switch {
	case c.Error != "":
		return "error"
	case !c.Registered:
		return "absent"
	case !c.Current:
		return "stale"
	default:
		return "registered"
	}
}

func writeState(out io.Writer, state menu.InstallationState) {
	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	summary := stateStyle("absent").Render("not installed")
	if state.Installed {
		summary = stateStyle("registered").Render("installed")
	}
	fmt.Fprintln(out, bold.Render("CONTEXT MENU:")+" "+summary)

	tbl := tui.Table{Columns: []tui.Column{
		{Header: "CLASS"},
		{Header: "STATUS"},
		{Header: "LABEL", Width: 24},
		{Header: "COMMAND", Width: 60},
	}}
	for _, c := range state.Classes {
		command := c.Command
		if c.Error != "" {
			command = c.Error
		}
		tbl.AddRow(c.FileClass, classStatus(c), tui.NonEmptyOrDash(c.Label), tui.NonEmptyOrDash(command))
	}
	_ = tbl.Render(out)
}

func stateStyle(status string) lipgloss.Style {
	return tui.StatusStyle(status).Inline(true)
}
