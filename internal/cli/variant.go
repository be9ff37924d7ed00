package cli

import (
	"context"
	"time"

	"github.com/thoth-station/solver-project-url/pkg/errors"
	"github.com/thoth-station/solver-project-url/pkg/pipeline"
	"github.com/thoth-station/solver-project-url/pkg/prescription"
	"github.com/thoth-station/solver-project-url/pkg/repourl"
	"github.com/thoth-station/solver-project-url/pkg/store"
)

// variant describes one of the two commands built from the shared run flow.
type variant struct {
	name  string
	short string
	long  string

	// env maps flag names to the environment variable that may set them.
	env map[string]string

	policy repourl.Policy

	// scan runs the pipeline and returns the value to write as YAML.
	scan func(ctx context.Context, r *pipeline.Runner, q store.Query, now time.Time) (any, pipeline.Stats, error)
}

// Environment variables shared by both commands.
const (
	envStore       = "THOTH_SOLVER_RESULTS_STORE"
	envPushgateway = "THOTH_METRICS_PUSHGATEWAY_URL"
)

var projectURLs = variant{
	name:  pipeline.VariantCollect,
	short: "Aggregate GitHub/GitLab URLs for projects found in solver results",
	long: `Scan solver results and map every package name to all of its source
repository URLs on GitHub or GitLab. Project-URL entries are checked before
Home-page; each URL is reduced to scheme://host/owner/repo and kept only when
the repository answers a HEAD request with 200.`,
	env: map[string]string{
		"verbose":             "THOTH_SOLVER_PROJECT_URL_DEBUG",
		"start-date":          "THOTH_GET_SOURCE_REPOS_START_DATE",
		"end-date":            "THOTH_GET_SOURCE_REPOS_END_DATE",
		"output":              "THOTH_GET_SOURCE_REPOS_OUTPUT",
		"config":              "THOTH_SOLVER_PROJECT_URL_CONFIG",
		"store":               envStore,
		"metrics-pushgateway": envPushgateway,
	},
	policy: repourl.AnyForge(),
	scan: func(ctx context.Context, r *pipeline.Runner, q store.Query, _ time.Time) (any, pipeline.Stats, error) {
		return r.CollectURLs(ctx, q)
	},
}

var sourceRepos = variant{
	name:  pipeline.VariantFirst,
	short: "Publish GitHub source repositories of PyPI projects as a prescription",
	long: `Scan solver results and map every package name to the first of its
https://github.com URLs whose repository answers a HEAD request with 200.
Home-page is checked before Project-URL entries. The mapping is wrapped in a
prescription document released under today's date.`,
	env: map[string]string{
		"verbose":             "THOTH_GH_SOURCE_REPOS_DEBUG",
		"start-date":          "THOTH_GH_SOURCE_REPOS_START_DATE",
		"end-date":            "THOTH_GH_SOURCE_REPOS_END_DATE",
		"output":              "THOTH_GH_SOURCE_REPOS_OUTPUT",
		"config":              "THOTH_GH_SOURCE_REPOS_CONFIG",
		"store":               envStore,
		"metrics-pushgateway": envPushgateway,
	},
	policy: repourl.GitHubHTTPS(),
	scan: func(ctx context.Context, r *pipeline.Runner, q store.Query, now time.Time) (any, pipeline.Stats, error) {
		wraps, stats, err := r.FirstURLs(ctx, q)
		if err != nil {
			return nil, stats, err
		}
		p := prescription.New(wraps, now)
		if err := p.Validate(); err != nil {
			return nil, stats, errors.Wrap(errors.ErrCodeOutput, err, "build prescription")
		}
		return p, stats, nil
	},
}
