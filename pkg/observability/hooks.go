// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on a specific observability backend to the core packages.
// Components accept a [Hooks] value and call it as work happens; the default
// [Noop] discards every event.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Pass an implementation explicitly to the components that emit events
//
// A Prometheus-backed implementation lives in the prom subpackage.
//
// # Usage
//
//	metrics := prom.New("thoth_solver_project_url")
//	prober := probe.New(probe.Options{Hooks: metrics})
//	runner := pipeline.NewRunner(src, validator, logger, metrics)
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from a scan over the result store.
type PipelineHooks interface {
	// OnDocument records a document read from the store. skipped is true when
	// the document carried no usable package metadata.
	OnDocument(ctx context.Context, skipped bool)

	// OnCandidate records the outcome of checking one URL candidate.
	OnCandidate(ctx context.Context, outcome string)

	// OnRunComplete records the end of a run.
	OnRunComplete(ctx context.Context, variant string, packages int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// Hooks is the full set of events emitted during a run.
type Hooks interface {
	PipelineHooks
	HTTPHooks
}

// =============================================================================
// No-op Implementation
// =============================================================================

// Noop is a no-op implementation of Hooks.
type Noop struct{}

func (Noop) OnDocument(context.Context, bool)                                       {}
func (Noop) OnCandidate(context.Context, string)                                    {}
func (Noop) OnRunComplete(context.Context, string, int, time.Duration, error)       {}
func (Noop) OnRequest(context.Context, string, string, string)                      {}
func (Noop) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (Noop) OnError(context.Context, string, string, string, error)                 {}

var _ Hooks = Noop{}

// OrNoop returns h, or [Noop] when h is nil.
func OrNoop(h Hooks) Hooks {
	if h == nil {
		return Noop{}
	}
	return h
}

// PipelineOrNoop is [OrNoop] for components that only emit pipeline events.
func PipelineOrNoop(h PipelineHooks) PipelineHooks {
	if h == nil {
		return Noop{}
	}
	return h
}

// HTTPOrNoop is [OrNoop] for HTTP clients.
func HTTPOrNoop(h HTTPHooks) HTTPHooks {
	if h == nil {
		return Noop{}
	}
	return h
}
