package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"antmenu/internal/config"
	"antmenu/internal/installer"
	"antmenu/internal/paths"
	"antmenu/internal/tools"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, tools and registration",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
}

type doctorResult struct {
	ConfigFile string            `json:"config_file"`
	Checks     []installer.Check `json:"checks"`
	Tools      []tools.Status    `json:"tools"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	pp, err := resolvePaths(configPath)
	if err != nil {
		return err
	}

	cfg, cfgErr := config.Load(pp.ConfigFile)
	checks := []installer.Check{checkConfig(pp, cfg, cfgErr)}
	if cfgErr != nil {
		return writeDoctorResult(cmd, doctorResult{ConfigFile: pp.ConfigFile, Checks: checks})
	}

	env := &environment{paths: pp, cfg: cfg}
	inst := newInstaller(env)
	prereq := inst.Check(cmd.Context())
	checks = append(checks, prereq.Checks...)
	checks = append(checks, checkRegistration(inst.Status(cmd.Context())))

	return writeDoctorResult(cmd, doctorResult{ConfigFile: pp.ConfigFile, Checks: checks, Tools: prereq.Tools})
}

func checkConfig(pp paths.InstallPaths, cfg config.Config, cfgErr error) installer.Check {
	if cfgErr != nil {
		return installer.Check{Name: "Config", Status: installer.CheckError, Summary: cfgErr.Error()}
	}

	source := pp.ConfigFile
	if ok, _ := paths.FileExists(pp.ConfigFile); !ok {
		source = "defaults (no settings file)"
	}
	var warnings []string
	for _, v := range cfg.Check() {
		if v.Level == "warning" {
			warnings = append(warnings, v.Message)
		}
	}
	if len(warnings) > 0 {
		return installer.Check{Name: "Config", Status: installer.CheckWarning, Summary: source + "; " + strings.Join(warnings, "; ")}
	}
	return installer.Check{Name: "Config", Status: installer.CheckOK, Summary: source}
}

func checkRegistration(report installer.Report) installer.Check {
	state := report.State
	switch {
	case state.LastError != nil:
		return installer.Check{Name: "Menu", Status: installer.CheckError, Summary: state.LastError.Message}
	case state.Installed:
		for _, c := range state.Classes {
			if !c.Current {
				return installer.Check{Name: "Menu", Status: installer.CheckWarning, Summary: c.FileClass + " points at another executable; run install again"}
			}
		}
		return installer.Check{Name: "Menu", Status: installer.CheckOK, Summary: "registered for " + strings.Join(state.RegisteredClasses, ", ")}
	case len(state.RegisteredClasses) > 0:
		return installer.Check{Name: "Menu", Status: installer.CheckWarning, Summary: "only registered for " + strings.Join(state.RegisteredClasses, ", ")}
	default:
		return installer.Check{Name: "Menu", Status: installer.CheckWarning, Summary: "not installed"}
	}
}

func writeDoctorResult(cmd *cobra.Command, result doctorResult) error {
	if outputJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	writeChecks(out, "ANTMENU HEALTH:", result.Checks)
	for _, st := range result.Tools {
		if st.Satisfied || len(st.Hints) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s hints:\n", st.Tool)
		for _, hint := range st.Hints {
			fmt.Fprintf(out, "  - %s\n", hint)
		}
	}
	return nil
}
