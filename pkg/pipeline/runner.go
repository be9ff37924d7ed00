package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/thoth-station/solver-project-url/pkg/errors"
	"github.com/thoth-station/solver-project-url/pkg/observability"
	"github.com/thoth-station/solver-project-url/pkg/repourl"
	"github.com/thoth-station/solver-project-url/pkg/solver"
	"github.com/thoth-station/solver-project-url/pkg/store"
)

// Variant names reported to [observability.PipelineHooks.OnRunComplete].
const (
	VariantCollect = "solver-project-url"
	VariantFirst   = "gh-source-repos"
)

// Runner scans a result store and validates the URL candidates of every
// package it finds.
//
// Each run connects the Source once and closes it before returning. Runs are
// sequential: one document, one candidate, one probe at a time. A Runner
// holds no per-run state, so it may be reused.
type Runner struct {
	Source    store.Source
	Validator *repourl.Validator
	Logger    *log.Logger
	Hooks     observability.PipelineHooks
}

// NewRunner creates a runner. A nil logger uses log.Default() and nil hooks
// disable instrumentation.
func NewRunner(src store.Source, v *repourl.Validator, logger *log.Logger, hooks observability.PipelineHooks) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Source: src, Validator: v, Logger: logger, Hooks: observability.PipelineOrNoop(hooks)}
}

// Stats summarizes a run.
type Stats struct {
	Documents  int
	Skipped    int
	Candidates int
	Probes     int
	Validated  int
	Packages   int
	Duration   time.Duration
}

// CollectURLs maps every package name to all of its validated repository
// URLs, Project-URL values first and Home-page last. A package seen again in
// a later document is replaced by the later result, even when that result is
// empty.
func (r *Runner) CollectURLs(ctx context.Context, q store.Query) (map[string][]string, Stats, error) {
	out := make(map[string][]string)
	st, err := r.run(ctx, VariantCollect, q, solver.ProjectURLsFirst, func(ctx context.Context, v *repourl.Validator, pkg solver.Package) error {
		urls, err := v.CollectAll(ctx, pkg.Candidates)
		if err != nil {
			return err
		}
		out[pkg.Name] = urls
		return nil
	}, func() int { return len(out) })
	return out, st, err
}

// FirstURLs maps package names to the first validated repository URL,
// checking Home-page before Project-URL values. Packages without a valid URL
// are left out; when several documents validate the same name the last one
// wins.
func (r *Runner) FirstURLs(ctx context.Context, q store.Query) (map[string]string, Stats, error) {
	out := make(map[string]string)
	st, err := r.run(ctx, VariantFirst, q, solver.HomePageFirst, func(ctx context.Context, v *repourl.Validator, pkg solver.Package) error {
		url, ok, err := v.FirstMatch(ctx, pkg.Candidates)
		if err != nil {
			return err
		}
		if ok {
			out[pkg.Name] = url
		}
		return nil
	}, func() int { return len(out) })
	return out, st, err
}

type visitPackage func(ctx context.Context, v *repourl.Validator, pkg solver.Package) error

func (r *Runner) run(ctx context.Context, variant string, q store.Query, order solver.Order, visit visitPackage, packages func() int) (st Stats, err error) {
	start := time.Now()
	defer func() {
		st.Duration = time.Since(start)
		st.Packages = packages()
		r.Hooks.OnRunComplete(ctx, variant, st.Packages, st.Duration, err)
	}()

	if err := r.Source.Connect(ctx); err != nil {
		return st, errors.Wrap(errors.ErrCodeStoreConnect, err, "connect to result store")
	}
	defer func() {
		if cerr := r.Source.Close(context.WithoutCancel(ctx)); cerr != nil {
			r.Logger.Warn("failed to close result store", "err", cerr)
		}
	}()

	// Per-run copy so outcome counting never leaks between runs.
	v := *r.Validator
	v.Hooks = &tally{PipelineHooks: observability.PipelineOrNoop(v.Hooks), stats: &st}

	err = r.Source.Iterate(ctx, q, func(id string, doc *solver.Document) error {
		st.Documents++
		r.Logger.Debug("Processing solver document", "document_id", id)

		pkg, ok := solver.Extract(doc, order)
		r.Hooks.OnDocument(ctx, !ok)
		if !ok {
			st.Skipped++
			r.Logger.Debug("Skipping document without package metadata", "document_id", id)
			return nil
		}
		st.Candidates += len(pkg.Candidates)
		return visit(ctx, &v, pkg)
	})
	if err != nil {
		return st, classify(ctx, err)
	}

	r.Logger.Info("scan complete",
		"documents", st.Documents,
		"skipped", st.Skipped,
		"probes", st.Probes,
		"validated", st.Validated,
		"packages", packages())
	return st, nil
}

// classify maps an iteration failure to an error code. Cancellation is
// returned unchanged so callers can tell it apart.
func classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil && (stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)):
		return err
	case stderrors.Is(err, solver.ErrDecode):
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "read result store")
	default:
		return errors.Wrap(errors.ErrCodeStoreIterate, err, "read result store")
	}
}

// tally counts candidate outcomes into Stats and forwards them.
type tally struct {
	observability.PipelineHooks
	stats *Stats
}

func (t *tally) OnCandidate(ctx context.Context, outcome string) {
	switch outcome {
	case repourl.OutcomeValidated:
		t.stats.Probes++
		t.stats.Validated++
	case repourl.OutcomeNotFound, repourl.OutcomeProbeError:
		t.stats.Probes++
	}
	t.PipelineHooks.OnCandidate(ctx, outcome)
}
