package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"antmenu/internal/config"
	"antmenu/internal/paths"
)

var configInitForce bool

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the settings file",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration in YAML",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the default values",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	cmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing settings file")
	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	pp, err := resolvePaths(configPath)
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", pp.ConfigFile)
	fmt.Fprint(out, string(data))
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(out)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	pp, err := resolvePaths(configPath)
	if err != nil {
		return err
	}

	exists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return err
	}
	if exists && !configInitForce {
		return errors.New("settings file already exists: " + pp.ConfigFile + " (use --force to overwrite)")
	}

	if err := config.Default().Save(pp.ConfigFile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", pp.ConfigFile)
	return nil
}
