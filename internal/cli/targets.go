package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"antmenu/internal/buildfile"
	"antmenu/internal/tui"
)

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets <file.xml>",
		Short: "List the targets declared in a build file",
		Args:  cobra.ExactArgs(1),
		RunE:  runTargets,
	}
}

func runTargets(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	project, err := buildfile.Parse(path)
	if err != nil {
		return err
	}

	if outputJSON {
		data, err := json.MarshalIndent(project, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", project.DisplayName())
	if project.Description != "" {
		fmt.Fprintf(out, "  %s\n", strings.TrimSpace(project.Description))
	}
	fmt.Fprintln(out)

	tbl := tui.Table{Columns: []tui.Column{
		{Header: "TARGET"},
		{Header: "DEFAULT"},
		{Header: "DEPENDS", Width: 30},
		{Header: "DESCRIPTION", Width: 60},
	}}
	for _, t := range project.Targets {
		def := ""
		if t.Name == project.Default {
			def = "*"
		}
		tbl.AddRow(t.Name, def, tui.NonEmptyOrDash(t.Depends), tui.NonEmptyOrDash(t.Description))
	}
	return tbl.Render(out)
}
