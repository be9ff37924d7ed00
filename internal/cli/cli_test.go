package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thoth-station/solver-project-url/pkg/errors"
)

// forge answers HEAD requests with a fixed status per URL and 404 otherwise.
type forge map[string]int

func (f forge) RoundTrip(req *http.Request) (*http.Response, error) {
	status, ok := f[req.URL.String()]
	if !ok {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{},
		Body:       http.NoBody,
		Request:    req,
	}, nil
}

var liveRepos = forge{
	"https://github.com/org1/repo1": http.StatusOK,
	"https://github.com/a/b":        http.StatusOK,
	"https://gitlab.com/g/p":        http.StatusOK,
}

// writeStore creates a directory store with the three reference packages.
func writeStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	docs := map[string]struct {
		datetime string
		meta     map[string]any
	}{
		"solver-foo": {"2021-03-10T08:00:00.000000", map[string]any{
			"Name": "foo", "Home-page": "https://github.com/org1/repo1", "Project-URL": []any{},
		}},
		"solver-bar": {"2021-03-11T08:00:00.000000", map[string]any{
			"Name": "bar", "Home-page": "https://example.com/bar", "Project-URL": []any{"Tracker, https://gitlab.com/g/p/-/issues"},
		}},
		"solver-baz": {"2021-03-12T08:00:00.000000", map[string]any{
			"Name": "baz", "Home-page": nil, "Project-URL": []any{"Source, https://github.com/a/b/issues/5"},
		}},
	}
	for id, d := range docs {
		data, err := json.Marshal(map[string]any{
			"metadata": map[string]any{"document_id": id, "datetime": d.datetime},
			"result": map[string]any{"tree": []any{
				map[string]any{"importlib_metadata": map[string]any{"metadata": d.meta}},
			}},
		})
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, id+".json"), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

type harness struct {
	cli    *CLI
	stdout bytes.Buffer
	stderr bytes.Buffer
	logs   bytes.Buffer
}

func newHarness(env map[string]string) *harness {
	h := &harness{}
	h.cli = New(&h.logs, LogInfo)
	h.cli.Stdout = &h.stdout
	h.cli.Stderr = &h.stderr
	h.cli.Transport = liveRepos
	h.cli.Now = func() time.Time { return time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC) }
	h.cli.LookupEnv = lookupIn(env)
	return h
}

func (h *harness) run(t *testing.T, prescription bool, args ...string) error {
	t.Helper()
	cmd := h.cli.URLsCommand()
	if prescription {
		cmd = h.cli.PrescriptionCommand()
	}
	cmd.SetArgs(args)
	cmd.SetOut(&h.stdout)
	cmd.SetErr(&h.stderr)
	return cmd.ExecuteContext(context.Background())
}

func TestURLsCommand(t *testing.T) {
	h := newHarness(nil)
	if err := h.run(t, false, "--store", writeStore(t)); err != nil {
		t.Fatalf("run error: %v", err)
	}

	want := `bar:
  - https://gitlab.com/g/p
baz:
  - https://github.com/a/b
foo:
  - https://github.com/org1/repo1
`
	if h.stdout.String() != want {
		t.Errorf("stdout =\n%s\nwant\n%s", h.stdout.String(), want)
	}
	if !strings.Contains(h.stderr.String(), "packages") {
		t.Errorf("summary missing from stderr: %q", h.stderr.String())
	}
	if !strings.Contains(h.logs.String(), "run=") {
		t.Errorf("run id missing from logs: %q", h.logs.String())
	}
}

func TestPrescriptionCommand(t *testing.T) {
	h := newHarness(nil)
	out := filepath.Join(t.TempDir(), "prescription.yaml")
	if err := h.run(t, true, "--store", writeStore(t), "--output", out); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty when --output is a file", h.stdout.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		"apiVersion: thoth-station.ninja/v1",
		"kind: prescription",
		"name: gh-source-repos",
		"2021.06.01",
		"foo: https://github.com/org1/repo1",
		"baz: https://github.com/a/b",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("prescription missing %q:\n%s", want, text)
		}
	}
	// gitlab.com is not accepted for prescriptions.
	if strings.Contains(text, "bar:") {
		t.Errorf("prescription should not wrap bar:\n%s", text)
	}
}

func TestDateRangeFromEnvironment(t *testing.T) {
	h := newHarness(map[string]string{
		"THOTH_SOLVER_RESULTS_STORE":        writeStore(t),
		"THOTH_GET_SOURCE_REPOS_START_DATE": "2021-03-11",
		"THOTH_GET_SOURCE_REPOS_END_DATE":   "2021-03-11",
	})
	if err := h.run(t, false); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if got, want := h.stdout.String(), "bar:\n  - https://gitlab.com/g/p\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestFlagOverridesEnvironment(t *testing.T) {
	h := newHarness(map[string]string{
		"THOTH_GH_SOURCE_REPOS_START_DATE": "2021-03-12",
	})
	if err := h.run(t, true, "--store", writeStore(t), "--start-date", "2021-03-10", "--end-date", "2021-03-10"); err != nil {
		t.Fatalf("run error: %v", err)
	}
	text := h.stdout.String()
	if !strings.Contains(text, "foo:") || strings.Contains(text, "baz:") {
		t.Errorf("stdout =\n%s\nwant only foo", text)
	}
}

func TestConfigFile(t *testing.T) {
	dir := writeStore(t)
	cfg := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfg, []byte("[store]\nurl = \""+filepath.ToSlash(dir)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := newHarness(map[string]string{"THOTH_SOLVER_PROJECT_URL_CONFIG": cfg})
	if err := h.run(t, false); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "foo:") {
		t.Errorf("stdout = %q, store from config not used", h.stdout.String())
	}
}

func TestCommandErrors(t *testing.T) {
	badConfig := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(badConfig, []byte("[probe]\nspeed = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		env  map[string]string
		args []string
		code errors.Code
	}{
		{"malformed start date", nil, []string{"--start-date", "2021-13-01"}, errors.ErrCodeInvalidDate},
		{"malformed end date from env", map[string]string{"THOTH_GET_SOURCE_REPOS_END_DATE": "yesterday"}, nil, errors.ErrCodeInvalidDate},
		{"no store", nil, nil, errors.ErrCodeInvalidStore},
		{"unknown store scheme", nil, []string{"--store", "s3://bucket/solver"}, errors.ErrCodeInvalidStore},
		{"missing store", nil, []string{"--store", filepath.Join(t.TempDir(), "missing")}, errors.ErrCodeStoreConnect},
		{"bad config", nil, []string{"--config", badConfig}, errors.ErrCodeInvalidConfig},
		{"bad debug env", map[string]string{"THOTH_SOLVER_PROJECT_URL_DEBUG": "loud"}, nil, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.env)
			err := h.run(t, false, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("run error = %v, want code %s", err, tt.code)
			}
			if h.stdout.Len() != 0 {
				t.Errorf("stdout = %q, want nothing on failure", h.stdout.String())
			}
		})
	}
}

func TestErrorLine(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", errors.New(errors.ErrCodeInvalidStore, "no result store given"), "[INVALID_STORE] no result store given"},
		{"coded with cause", errors.Wrap(errors.ErrCodeInvalidDate, fmt.Errorf("month out of range"), "bad start date"), "[INVALID_DATE] bad start date: month out of range"},
		{"plain", fmt.Errorf("unknown flag: --nope"), "unknown flag: --nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorLine(tt.err); got != tt.want {
				t.Errorf("ErrorLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestURLsHelpNamesScheme(t *testing.T) {
	long := New(io.Discard, LogInfo).URLsCommand().Long
	if !strings.Contains(long, "scheme://host/owner/repo") {
		t.Errorf("help should say the scheme is kept:\n%s", long)
	}
	if strings.Contains(long, "https://host/owner/repo") {
		t.Errorf("help claims URLs are rewritten to https:\n%s", long)
	}
}

func TestPositionalArgsRejected(t *testing.T) {
	h := newHarness(nil)
	if err := h.run(t, false, "extra"); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(map[string]string{"THOTH_SOLVER_RESULTS_STORE": "s3://never-opened"})
	if err := h.run(t, false, "--version"); err != nil {
		t.Fatalf("--version error: %v", err)
	}
	if !strings.HasPrefix(h.stdout.String(), "solver-project-url version ") {
		t.Errorf("--version printed %q", h.stdout.String())
	}
}

func TestMetricsPush(t *testing.T) {
	var (
		mu   sync.Mutex
		jobs []string
		body string
	)
	r := chi.NewRouter()
	r.Put("/metrics/job/{job}", func(w http.ResponseWriter, req *http.Request) {
		data, _ := io.ReadAll(req.Body)
		mu.Lock()
		jobs = append(jobs, chi.URLParam(req, "job"))
		body = string(data)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	gw := httptest.NewServer(r)
	defer gw.Close()

	h := newHarness(map[string]string{"THOTH_METRICS_PUSHGATEWAY_URL": gw.URL})
	if err := h.run(t, true, "--store", writeStore(t)); err != nil {
		t.Fatalf("run error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(jobs) != 1 || jobs[0] != "gh-source-repos" {
		t.Fatalf("pushed jobs = %q, want [gh-source-repos]", jobs)
	}
	if len(body) == 0 {
		t.Error("push carried no metrics")
	}
}

func TestMetricsNamespace(t *testing.T) {
	if got := metricsNamespace("gh-source-repos"); got != "thoth_gh_source_repos" {
		t.Errorf("metricsNamespace() = %q", got)
	}
}
