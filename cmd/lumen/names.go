package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lumen/internal/decl"
	"lumen/internal/diag"
	"lumen/internal/diagfmt"
	"lumen/internal/naming"
)

var namesCmd = &cobra.Command{
	Use:   "names [snapshot]",
	Short: "Resolve and print translated names for a snapshot",
	Long: `Names runs only the naming pass: fixed-name propagation over override
chains, conflict detection, and long-identifier generation. The resulting
binding table is printed one row per tracked member.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		colorOn, err := resolveColor(cmd)
		if err != nil {
			return err
		}
		maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")
		quiet, _ := cmd.Flags().GetBool("quiet")

		snapshotPath, _, manifest, err := resolvePaths(args)
		if err != nil {
			return err
		}
		prog, _, err := decl.LoadSnapshot(snapshotPath)
		if err != nil {
			return fmt.Errorf("failed to load snapshot %s: %w", snapshotPath, err)
		}
		if manifest != nil {
			for _, fqn := range manifest.ApplyNaming(prog) {
				if !quiet {
					fmt.Fprintf(os.Stderr, "warning: [naming] override for unknown type %q\n", fqn)
				}
			}
		}

		bag := diag.NewBag(maxDiags)
		table := naming.Resolve(prog, bag)
		bag.Sort()
		bag.Dedup()
		if bag.Len() > 0 {
			diagfmt.Pretty(os.Stderr, bag, prog.FileTable(), diagfmt.PrettyOpts{Color: colorOn, ShowNotes: true})
		}

		for _, e := range table.Entries() {
			owner := "<module>"
			if t := prog.Type(e.Key.Type); t != nil {
				owner = t.FQN
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-40s %-24s %s\n", owner, e.Key.Signature, e.Name)
		}

		if bag.HasErrors() {
			return fmt.Errorf("naming failed with %d diagnostics", bag.Len())
		}
		return nil
	},
}
