// Package pkg holds the libraries behind the solver-project-url and
// gh-source-repos commands.
//
// # Overview
//
// The commands read Python solver results, pull the repository URLs out of
// each package's core metadata, and keep the ones that point at a live
// GitHub or GitLab repository. The pkg directory is organized by stage:
//
//  1. [store] - Result sources (directory, MongoDB, Redis) behind one interface
//  2. [solver] - Solver document model and URL candidate extraction
//  3. [repourl] - URL normalization, host policy, and the probing validator
//  4. [probe] - The single HEAD request that decides whether a repository exists
//  5. [pipeline] - Orchestration (store → extract → validate → aggregate)
//  6. [io] and [prescription] - YAML output and the prescription envelope
//
// # Data Flow
//
//	Result store
//	     ↓
//	[store] Source.Iterate (date-bounded)
//	     ↓
//	[solver] Extract (name + ordered URL candidates)
//	     ↓
//	[repourl] Validator (normalize → host check → [probe] HEAD)
//	     ↓
//	[pipeline] Runner (name → URLs, or name → first URL)
//	     ↓
//	YAML on stdout or in a file
//
// # Quick Start
//
//	src, _ := backends.Open("/srv/solver-results", backends.Options{})
//	v := repourl.NewValidator(probe.New(probe.Options{}), repourl.AnyForge(), nil, nil)
//	urls, stats, err := pipeline.NewRunner(src, v, nil, nil).CollectURLs(ctx, store.Query{})
//
// [store]: github.com/thoth-station/solver-project-url/pkg/store
// [solver]: github.com/thoth-station/solver-project-url/pkg/solver
// [repourl]: github.com/thoth-station/solver-project-url/pkg/repourl
// [probe]: github.com/thoth-station/solver-project-url/pkg/probe
// [pipeline]: github.com/thoth-station/solver-project-url/pkg/pipeline
// [io]: github.com/thoth-station/solver-project-url/pkg/io
// [prescription]: github.com/thoth-station/solver-project-url/pkg/prescription
package pkg
