// Package driver orchestrates whole-program translation: the naming pass,
// then every declaration body in parallel, with diagnostics merged back in
// declaration order so output is deterministic regardless of scheduling.
package driver

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"lumen/internal/decl"
	"lumen/internal/diag"
	"lumen/internal/gen"
	"lumen/internal/ir"
	"lumen/internal/macroexp"
	"lumen/internal/naming"
	"lumen/internal/observ"
	"lumen/internal/translate"
)

// Options configures one driver run.
type Options struct {
	// MaxDiagnostics caps every diagnostic bag; 0 falls back to the default.
	MaxDiagnostics int
	// Jobs limits translation parallelism; <=0 uses GOMAXPROCS.
	Jobs int
	// Observer receives phase boundary and progress events. May be nil.
	Observer PhaseObserver
	// NamesCache, when set together with a non-zero SnapshotDigest, is
	// consulted before the naming pass and updated after a clean one.
	NamesCache *NamesCache
	// SnapshotDigest keys the names cache. The zero digest disables caching.
	SnapshotDigest decl.Digest
}

// DefaultMaxDiagnostics bounds diagnostic accumulation when the caller does
// not say otherwise.
const DefaultMaxDiagnostics = 256

// DeclResult is the translation outcome of one declaration.
type DeclResult struct {
	ID decl.DeclID
	// Fn is the emitted body; nil when the declaration legitimately has none
	// or when its translation failed.
	Fn      *ir.Func
	HasBody bool
}

// Result is a whole-program translation outcome.
type Result struct {
	Decls []DeclResult
	// Table is sealed on success. A cancelled or aborted run leaves it
	// unsealed so no reader can act on partial bindings.
	Table  *naming.Table
	Bag    *diag.Bag
	Timing observ.Report
}

// Run translates the whole program. Declaration order in Result.Decls and in
// the merged bag matches snapshot order; a run with jobs=1 and a run with
// jobs=N produce identical results.
func Run(ctx context.Context, prog *decl.Program, gens *gen.Registry, macros *macroexp.Registry, opts Options) (*Result, error) {
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = DefaultMaxDiagnostics
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	timer := observ.NewTimer()
	res := &Result{
		Table: naming.NewTable(),
		Bag:   diag.NewBag(maxDiags),
	}

	if err := runNames(prog, res, opts, timer, maxDiags); err != nil {
		res.Timing = timer.Report()
		return res, err
	}

	if err := runBodies(ctx, prog, gens, macros, res, opts, timer, maxDiags, jobs); err != nil {
		res.Timing = timer.Report()
		return res, err
	}

	res.Bag.Sort()
	res.Bag.Dedup()
	res.Timing = timer.Report()
	return res, nil
}

// runNames executes the naming pass, consulting the disk cache first. Only a
// completed pass seals the table.
func runNames(prog *decl.Program, res *Result, opts Options, timer *observ.Timer, maxDiags int) error {
	var zero decl.Digest
	cacheable := opts.NamesCache != nil && opts.SnapshotDigest != zero

	idx := timer.Begin("names")
	start := time.Now()
	emit(opts.Observer, PhaseEvent{Name: "names", Status: PhaseStart})

	if cacheable {
		if table, ok, err := opts.NamesCache.Get(opts.SnapshotDigest); err == nil && ok {
			res.Table = table
			timer.End(idx, "cached")
			emit(opts.Observer, PhaseEvent{Name: "names", Status: PhaseEnd, Elapsed: time.Since(start)})
			return nil
		}
	}

	namesBag := diag.NewBag(maxDiags)
	naming.ResolveInto(prog, res.Table, namesBag)
	res.Bag.Merge(namesBag)
	res.Table.Seal()

	if cacheable && namesBag.Len() == 0 {
		// Best effort: a failed write costs a recomputation next run.
		_ = opts.NamesCache.Put(opts.SnapshotDigest, res.Table)
	}

	timer.End(idx, "")
	emit(opts.Observer, PhaseEvent{Name: "names", Status: PhaseEnd, Elapsed: time.Since(start)})
	return nil
}

// runBodies translates every declaration body in parallel. Result indexes
// are unique per goroutine, so workers write without a mutex; bags merge
// afterwards in declaration order.
func runBodies(ctx context.Context, prog *decl.Program, gens *gen.Registry, macros *macroexp.Registry, res *Result, opts Options, timer *observ.Timer, maxDiags, jobs int) error {
	decls := prog.Decls
	idx := timer.Begin("bodies")
	start := time.Now()
	total := len(decls)
	emit(opts.Observer, PhaseEvent{Name: "bodies", Status: PhaseStart, Total: total})

	tr := translate.NewTranslator(prog, gens, macros)
	results := make([]DeclResult, total)
	bags := make([]*diag.Bag, total)

	var progressMu sync.Mutex
	done := 0
	progress := func() {
		if opts.Observer == nil {
			return
		}
		progressMu.Lock()
		done++
		n := done
		progressMu.Unlock()
		opts.Observer(PhaseEvent{Name: "bodies", Elapsed: time.Since(start), Done: n, Total: total})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(total, 1)))

	for i, d := range decls {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(maxDiags)
			fn, diags, ok := tr.Body(d.ID)
			for _, dg := range diags {
				bag.Add(dg)
			}
			results[i] = DeclResult{ID: d.ID, Fn: fn, HasBody: ok}
			bags[i] = bag
			progress()
			return nil
		})
	}

	err := g.Wait()

	for i := range decls {
		results[i].ID = decls[i].ID
		if bags[i] != nil {
			res.Bag.Merge(bags[i])
		}
	}
	res.Decls = results

	note := ""
	if err != nil {
		note = "aborted"
	}
	timer.End(idx, note)
	emit(opts.Observer, PhaseEvent{Name: "bodies", Status: PhaseEnd, Elapsed: time.Since(start), Done: total, Total: total})
	return err
}

func emit(obs PhaseObserver, ev PhaseEvent) {
	if obs != nil {
		obs(ev)
	}
}
