package repourl

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/thoth-station/solver-project-url/pkg/observability"
)

// Candidate outcomes reported to [observability.PipelineHooks.OnCandidate].
const (
	OutcomeValidated  = "validated"
	OutcomeEmpty      = "empty"
	OutcomeRejected   = "rejected"
	OutcomeNotFound   = "not_found"
	OutcomeProbeError = "probe_error"
)

// Prober checks a URL with a single HEAD request and reports the status code.
type Prober interface {
	Head(ctx context.Context, url string) (int, error)
}

// Validator normalizes URL candidates and confirms them with a probe.
//
// Candidates are processed strictly in order, one probe at a time. Results
// are never cached: the same URL appearing twice is probed twice.
type Validator struct {
	Prober Prober
	Policy Policy
	Logger *log.Logger
	Hooks  observability.PipelineHooks
}

// NewValidator creates a Validator. A nil logger uses log.Default() and nil
// hooks disable instrumentation.
func NewValidator(p Prober, policy Policy, logger *log.Logger, hooks observability.PipelineHooks) *Validator {
	if logger == nil {
		logger = log.Default()
	}
	return &Validator{Prober: p, Policy: policy, Logger: logger, Hooks: observability.PipelineOrNoop(hooks)}
}

// CollectAll returns every candidate that validates, normalized, in input
// order. Duplicates are kept. The result is never nil.
//
// Rejected candidates and probe failures are logged and skipped. The only
// error returned is the context's, when ctx is done mid-scan.
func (v *Validator) CollectAll(ctx context.Context, candidates []string) ([]string, error) {
	found := make([]string, 0, len(candidates))
	for _, c := range candidates {
		u, ok, err := v.check(ctx, c)
		if err != nil {
			return found, err
		}
		if ok {
			found = append(found, u)
		}
	}
	return found, nil
}

// FirstMatch returns the first candidate that validates, normalized.
// No candidate after the first success is probed.
//
// The only error returned is the context's, when ctx is done mid-scan.
func (v *Validator) FirstMatch(ctx context.Context, candidates []string) (string, bool, error) {
	for _, c := range candidates {
		u, ok, err := v.check(ctx, c)
		if err != nil {
			return "", false, err
		}
		if ok {
			return u, true, nil
		}
	}
	return "", false, nil
}

// check validates a single candidate. err is non-nil only when ctx is done.
func (v *Validator) check(ctx context.Context, raw string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	repo, err := Normalize(raw, v.Policy)
	switch {
	case errors.Is(err, ErrEmpty):
		v.Hooks.OnCandidate(ctx, OutcomeEmpty)
		v.Logger.Debug("Skipping empty URL candidate")
		return "", false, nil
	case errors.Is(err, ErrPath):
		v.Hooks.OnCandidate(ctx, OutcomeRejected)
		v.Logger.Warn("Skipping URL as GitHub/GitLab repository and organization cannot be parsed", "url", raw)
		return "", false, nil
	case err != nil:
		v.Hooks.OnCandidate(ctx, OutcomeRejected)
		v.Logger.Warn("Skipping URL as it is not recognized as a GitHub/GitLab repository", "url", raw, "reason", err)
		return "", false, nil
	}

	source := repo.URL()
	v.Logger.Debug("Processing URL", "url", raw, "source", source)

	status, err := v.Prober.Head(ctx, source)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, ctxErr
		}
		v.Hooks.OnCandidate(ctx, OutcomeProbeError)
		v.Logger.Warn("Failed to probe repository URL", "url", source, "err", err)
		return "", false, nil
	}
	if status != http.StatusOK {
		v.Hooks.OnCandidate(ctx, OutcomeNotFound)
		v.Logger.Debug("Invalid GitHub/GitLab URL", "url", source, "status", status)
		return "", false, nil
	}

	v.Hooks.OnCandidate(ctx, OutcomeValidated)
	return source, true, nil
}
