// Package cli implements the solver-project-url and gh-source-repos
// commands.
//
// Both commands scan solver results from a result store, probe the GitHub or
// GitLab repositories named in each package's metadata, and write the
// validated mapping as YAML. They differ only in candidate order, accepted
// hosts, and output shape; see [variant].
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thoth-station/solver-project-url/internal/config"
	"github.com/thoth-station/solver-project-url/pkg/buildinfo"
	"github.com/thoth-station/solver-project-url/pkg/errors"
	pkgio "github.com/thoth-station/solver-project-url/pkg/io"
	"github.com/thoth-station/solver-project-url/pkg/observability"
	"github.com/thoth-station/solver-project-url/pkg/observability/prom"
	"github.com/thoth-station/solver-project-url/pkg/pipeline"
	"github.com/thoth-station/solver-project-url/pkg/probe"
	"github.com/thoth-station/solver-project-url/pkg/repourl"
	"github.com/thoth-station/solver-project-url/pkg/store"
	"github.com/thoth-station/solver-project-url/pkg/store/backends"
)

// pushTimeout bounds the Pushgateway request made after a run.
const pushTimeout = 10 * time.Second

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for a command invocation.
type CLI struct {
	Logger *log.Logger

	// Stdout receives the YAML result when no output file is given.
	Stdout io.Writer

	// Stderr receives the run summary.
	Stderr io.Writer

	// Transport overrides the HTTP transport used for probes.
	Transport http.RoundTripper

	// Now returns the current time; used for the prescription release.
	Now func() time.Time

	// LookupEnv reads environment variables.
	LookupEnv func(string) (string, bool)
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Now:       time.Now,
		LookupEnv: os.LookupEnv,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// URLsCommand creates the solver-project-url command.
func (c *CLI) URLsCommand() *cobra.Command {
	return c.command(projectURLs)
}

// PrescriptionCommand creates the gh-source-repos command.
func (c *CLI) PrescriptionCommand() *cobra.Command {
	return c.command(sourceRepos)
}

// =============================================================================
// Command
// =============================================================================

// options holds the flag values of one invocation.
type options struct {
	verbose      bool
	startDate    string
	endDate      string
	output       string
	store        string
	configPath   string
	probeTimeout time.Duration
	probeRate    float64
	strictHosts  bool
	pushgateway  string
}

func (c *CLI) command(v variant) *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:           v.name,
		Short:         v.short,
		Long:          v.long,
		Args:          cobra.NoArgs,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, v, &o)
		},
	}
	cmd.SetVersionTemplate(buildinfo.Template())

	f := cmd.Flags()
	f.BoolVarP(&o.verbose, "verbose", "v", false, "be verbose about what's going on")
	f.StringVar(&o.startDate, "start-date", "", "use solver results starting the given date (YYYY-MM-DD)")
	f.StringVar(&o.endDate, "end-date", "", "upper bound for solver results listing (YYYY-MM-DD, inclusive)")
	f.StringVar(&o.output, "output", "", "store result to a file or print to stdout (-)")
	f.StringVar(&o.store, "store", "", "result store (required): directory, file://, mongodb://, or redis:// URL")
	f.StringVar(&o.configPath, "config", "", "TOML config file")
	f.DurationVar(&o.probeTimeout, "probe-timeout", 0, "timeout for each repository probe (0 = none)")
	f.Float64Var(&o.probeRate, "probe-rate", 0, "maximum repository probes per second (0 = unlimited)")
	f.BoolVar(&o.strictHosts, "strict-hosts", false, "accept only the exact forge host or its subdomains")
	f.StringVar(&o.pushgateway, "metrics-pushgateway", "", "push run metrics to this Prometheus Pushgateway")

	return cmd
}

// run executes one scan. Flags win over environment variables, which win
// over the config file.
func (c *CLI) run(cmd *cobra.Command, v variant, o *options) error {
	fs := cmd.Flags()
	if err := bindEnv(fs, v.env, c.LookupEnv); err != nil {
		return err
	}
	if o.verbose {
		c.SetLogLevel(LogDebug)
	}

	logger := c.Logger.With("run", uuid.NewString())
	ctx := withLogger(cmd.Context(), logger)
	logger.Debug("Debug mode is on")
	logger.Info("Version", "version", buildinfo.Component())

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", o.configPath)
	}
	o.applyConfig(fs, cfg)

	q, err := o.query()
	if err != nil {
		return err
	}

	if o.store == "" {
		return errors.New(errors.ErrCodeInvalidStore,
			"no result store given, set --store or %s", envStore)
	}

	src, err := backends.Open(o.store, backends.Options{
		Database:   cfg.Store.Database,
		Collection: cfg.Store.Collection,
		KeyPrefix:  cfg.Store.KeyPrefix,
		Logger:     logger,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStore, err, "open result store %q", o.store)
	}

	var hooks observability.Hooks
	var metrics *prom.Metrics
	if o.pushgateway != "" {
		metrics = prom.New(metricsNamespace(v.name))
		hooks = metrics
	}
	hooks = observability.OrNoop(hooks)

	userAgent := cfg.Probe.UserAgent
	if userAgent == "" {
		userAgent = buildinfo.UserAgent(v.name)
	}
	prober := probe.New(probe.Options{
		Timeout:   o.probeTimeout,
		Rate:      o.probeRate,
		Burst:     cfg.Probe.Burst,
		UserAgent: userAgent,
		Transport: c.Transport,
		Hooks:     hooks,
	})

	policy := v.policy
	policy.Strict = o.strictHosts
	validator := repourl.NewValidator(prober, policy, logger, hooks)
	runner := pipeline.NewRunner(src, validator, logger, hooks)

	prog := newProgress(logger)
	result, stats, err := v.scan(ctx, runner, q, c.Now())
	if metrics != nil {
		job := cfg.Metrics.Job
		if job == "" {
			job = v.name
		}
		pushMetrics(ctx, metrics, o.pushgateway, job)
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Aggregated %d packages from %d documents", stats.Packages, stats.Documents))

	if o.output != "" && o.output != pkgio.Stdout {
		logger.Info("Writing results computed", "output", o.output)
	}
	if err := pkgio.Export(o.output, result, c.Stdout); err != nil {
		return errors.Wrap(errors.ErrCodeOutput, err, "write results")
	}

	printSummary(c.Stderr, v.name, stats, o.output)
	return nil
}

// applyConfig fills every option not set by a flag or environment variable
// from cfg.
func (o *options) applyConfig(fs *pflag.FlagSet, cfg *config.Config) {
	if !fs.Changed("store") {
		o.store = cfg.Store.URL
	}
	if !fs.Changed("probe-timeout") {
		o.probeTimeout = cfg.Probe.Timeout.Duration
	}
	if !fs.Changed("probe-rate") {
		o.probeRate = cfg.Probe.Rate
	}
	if !fs.Changed("strict-hosts") {
		o.strictHosts = cfg.Probe.StrictHosts
	}
	if !fs.Changed("metrics-pushgateway") {
		o.pushgateway = cfg.Metrics.Pushgateway
	}
}

// query converts the date options into a store query with an inclusive end.
func (o *options) query() (store.Query, error) {
	start, err := errors.ParseDate("start-date", o.startDate)
	if err != nil {
		return store.Query{}, err
	}
	end, err := errors.ParseDate("end-date", o.endDate)
	if err != nil {
		return store.Query{}, err
	}
	return store.Query{Start: start, End: end, IncludeEnd: true}, nil
}

func pushMetrics(ctx context.Context, m *prom.Metrics, url, job string) {
	logger := loggerFromContext(ctx)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()
	if err := m.Push(ctx, url, job); err != nil {
		logger.Warn("failed to push metrics", "pushgateway", url, "err", err)
		return
	}
	logger.Debug("pushed metrics", "pushgateway", url, "job", job)
}

// ErrorLine renders err for stderr as "[CODE] message: cause". Errors
// without a code are printed as-is.
func ErrorLine(err error) string {
	code := errors.GetCode(err)
	if code == "" {
		return err.Error()
	}
	return fmt.Sprintf("[%s] %s", code, errors.UserMessage(err))
}

func metricsNamespace(name string) string {
	return "thoth_" + strings.ReplaceAll(name, "-", "_")
}
