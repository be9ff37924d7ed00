// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/thoth-station/solver-project-url/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/thoth-station/solver-project-url/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/thoth-station/solver-project-url/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	// Set via ldflags: -X github.com/thoth-station/solver-project-url/pkg/buildinfo.Version=...
	Version = "dev"

	// Commit is the git commit SHA.
	// Set via ldflags: -X github.com/thoth-station/solver-project-url/pkg/buildinfo.Commit=...
	Commit = "none"

	// Date is the build timestamp.
	// Set via ldflags: -X github.com/thoth-station/solver-project-url/pkg/buildinfo.Date=...
	Date = "unknown"
)

// Component returns the single-line version string logged at startup,
// e.g. "v1.2.3+commit.abc123".
func Component() string {
	return fmt.Sprintf("%s+commit.%s", Version, Commit)
}

// UserAgent returns the User-Agent sent with repository probes.
func UserAgent(name string) string {
	return fmt.Sprintf("%s/%s", name, Version)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
