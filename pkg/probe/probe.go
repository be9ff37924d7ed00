// Package probe checks whether a repository URL exists with a single HTTP
// HEAD request.
//
// A [Prober] issues exactly one request per call: no retries, no caching of
// results and no redirect following. Redirects are reported as their own
// status code, so a renamed repository answering 301 is not treated as live.
//
// By default requests have no timeout, matching a plain HTTP client. Setting
// [Options.Timeout] is recommended for unattended runs.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/thoth-station/solver-project-url/pkg/observability"
)

// ErrNetwork is returned when a probe fails before any response is received
// (DNS failure, refused connection, timeout, TLS error).
var ErrNetwork = errors.New("network error")

// Options configures a Prober. The zero value is usable.
type Options struct {
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// Rate limits probes per second. Zero disables throttling.
	Rate float64

	// Burst is the limiter's bucket size; values below 1 are treated as 1.
	Burst int

	// UserAgent is sent with every request when non-empty.
	UserAgent string

	// Transport overrides the HTTP transport (nil uses http.DefaultTransport).
	Transport http.RoundTripper

	// Hooks receive request events. Nil means no instrumentation.
	Hooks observability.HTTPHooks
}

// Prober performs repository existence checks.
//
// A Prober is safe for concurrent use, although callers in this module
// probe strictly sequentially.
type Prober struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	hooks     observability.HTTPHooks
}

// New creates a Prober from opts.
func New(opts Options) *Prober {
	p := &Prober{
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: opts.UserAgent,
		hooks:     observability.HTTPOrNoop(opts.Hooks),
	}
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(opts.Rate), burst)
	}
	return p
}

// Head issues one HEAD request for url and returns the response status code.
//
// Any status code is returned without error; it is up to the caller to
// decide what counts as "exists". Transport failures are wrapped with
// [ErrNetwork]. Context cancellation is returned as the context's error.
func (p *Prober) Head(ctx context.Context, url string) (int, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	host, path := req.URL.Host, req.URL.Path
	p.hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := p.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		p.hooks.OnError(ctx, req.Method, host, path, err)
		return 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	resp.Body.Close()

	p.hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp.StatusCode, nil
}
