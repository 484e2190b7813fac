package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lumen/internal/decl"
	"lumen/internal/diagfmt"
	"lumen/internal/driver"
	"lumen/internal/gen"
	"lumen/internal/ir"
	"lumen/internal/macroexp"
	"lumen/internal/naming"
	"lumen/internal/project"
)

var (
	translateFormat  string
	translateOutput  string
	translateUI      string
	translateNoCache bool
)

func init() {
	translateCmd.Flags().StringVar(&translateFormat, "format", "pretty", "diagnostic format (pretty|json)")
	translateCmd.Flags().StringVarP(&translateOutput, "output", "o", "", "artifact path (default: manifest output, else stdout)")
	translateCmd.Flags().StringVar(&translateUI, "ui", "auto", "live progress view (auto|on|off)")
	translateCmd.Flags().BoolVar(&translateNoCache, "no-cache", false, "skip the on-disk names cache")
}

var translateCmd = &cobra.Command{
	Use:   "translate [snapshot]",
	Short: "Translate a program snapshot into target IR",
	Long: `Translate loads a declaration snapshot, resolves translated names for the
whole program, translates every declaration body through its override
attributes, and writes the resulting IR dump.

With no snapshot argument the path comes from lumen.toml, found by walking
up from the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		colorOn, err := resolveColor(cmd)
		if err != nil {
			return err
		}
		quiet, _ := cmd.Flags().GetBool("quiet")
		timings, _ := cmd.Flags().GetBool("timings")
		maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")
		jobs, _ := cmd.Flags().GetInt("jobs")

		mode, err := readUIMode(translateUI)
		if err != nil {
			return err
		}
		if translateFormat != "pretty" && translateFormat != "json" {
			return fmt.Errorf("unsupported format %q (must be pretty or json)", translateFormat)
		}

		snapshotPath, outputPath, manifest, err := resolvePaths(args)
		if err != nil {
			return err
		}
		if translateOutput != "" {
			outputPath = translateOutput
		}

		prog, digest, err := decl.LoadSnapshot(snapshotPath)
		if err != nil {
			return fmt.Errorf("failed to load snapshot %s: %w", snapshotPath, err)
		}
		if manifest != nil {
			for _, fqn := range manifest.ApplyNaming(prog) {
				if !quiet {
					fmt.Fprintf(os.Stderr, "warning: [naming] override for unknown type %q\n", fqn)
				}
			}
			if jobs == 0 {
				jobs = manifest.Translate.Jobs
			}
		}

		opts := driver.Options{
			MaxDiagnostics: maxDiags,
			Jobs:           jobs,
			SnapshotDigest: digest,
		}
		if !translateNoCache {
			if cache, cacheErr := driver.OpenNamesCache("lumen"); cacheErr == nil {
				opts.NamesCache = cache
			}
		}

		gens := gen.NewRegistry()
		macros := macroexp.NewRegistry()
		macroexp.RegisterArithFolds(macros)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var res *driver.Result
		if shouldUseTUI(mode) && translateFormat == "pretty" {
			res, err = runWithUI(ctx, "translating "+filepath.Base(snapshotPath), prog, gens, macros, opts)
		} else {
			res, err = driver.Run(ctx, prog, gens, macros, opts)
		}
		if err != nil {
			return err
		}

		if err := reportDiagnostics(res, prog, colorOn); err != nil {
			return err
		}
		if timings && !quiet {
			fmt.Fprint(os.Stderr, timerSummary(res))
		}

		if !res.Bag.HasErrors() {
			if err := writeArtifact(outputPath, res, prog); err != nil {
				return err
			}
		}
		if res.Bag.HasErrors() {
			return fmt.Errorf("translation failed with %d diagnostics", res.Bag.Len())
		}
		return nil
	},
}

// resolvePaths picks the snapshot and output locations: explicit argument
// first, manifest second.
func resolvePaths(args []string) (snapshot, output string, m *project.Manifest, err error) {
	if len(args) == 1 {
		return args[0], "", nil, nil
	}
	path, ok, err := project.FindManifest(".")
	if err != nil {
		return "", "", nil, err
	}
	if !ok {
		return "", "", nil, fmt.Errorf("no snapshot argument and no %s found", project.ManifestName)
	}
	m, err = project.Load(path)
	if err != nil {
		return "", "", nil, err
	}
	return m.SnapshotPath(), m.OutputPath(), m, nil
}

func reportDiagnostics(res *driver.Result, prog *decl.Program, colorOn bool) error {
	if res.Bag.Len() == 0 {
		return nil
	}
	if translateFormat == "json" {
		return diagfmt.JSON(os.Stderr, res.Bag, prog.FileTable(), diagfmt.JSONOpts{IncludeNotes: true})
	}
	diagfmt.Pretty(os.Stderr, res.Bag, prog.FileTable(), diagfmt.PrettyOpts{Color: colorOn, ShowNotes: true})
	return nil
}

// writeArtifact dumps every emitted body together with its translated name.
func writeArtifact(path string, res *driver.Result, prog *decl.Program) error {
	var w io.Writer = os.Stdout
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return dumpResult(w, res, prog)
}

func dumpResult(w io.Writer, res *driver.Result, prog *decl.Program) error {
	for _, dr := range res.Decls {
		if !dr.HasBody {
			continue
		}
		label := prog.DeclLabel(dr.ID)
		emitted := emittedName(res.Table, prog, dr.ID)
		if _, err := fmt.Fprintf(w, "// %s -> %s\n", label, emitted); err != nil {
			return err
		}
		if err := ir.Dump(w, dr.Fn); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func emittedName(table *naming.Table, prog *decl.Program, id decl.DeclID) string {
	if table == nil || !table.Sealed() {
		return "<unresolved>"
	}
	if name, ok := table.NameOf(prog, id); ok {
		return name
	}
	return "<untracked>"
}

func timerSummary(res *driver.Result) string {
	out := "timings:\n"
	for _, p := range res.Timing.Phases {
		out += fmt.Sprintf("  %-12s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			out += "  // " + p.Note
		}
		out += "\n"
	}
	out += fmt.Sprintf("  %-12s %7.2f ms\n", "total", res.Timing.TotalMS)
	return out
}
