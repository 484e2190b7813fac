package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lumen/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a lumen.toml in the current directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		name := filepath.Base(cwd)
		if len(args) == 1 {
			name = args[0]
		}

		target := filepath.Join(cwd, project.ManifestName)
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%s already exists", target)
		}

		if err := os.WriteFile(target, []byte(project.DefaultManifest(name)), 0o644); err != nil {
			return err
		}
		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", target)
		}
		return nil
	},
}
