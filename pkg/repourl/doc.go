// Package repourl turns package metadata URLs into validated source
// repository URLs on GitHub or GitLab.
//
// # Normalization
//
// A candidate such as "https://github.com/pallets/flask/issues/42?x=1" is
// reduced to "https://github.com/pallets/flask": the scheme and network
// location are kept verbatim and only the first two path segments survive.
// Candidates whose network location is not an allowed forge, or whose path
// has fewer than two non-empty segments, are rejected without any network
// traffic. See [Normalize] and [Policy].
//
// # Host matching
//
// By default the network location only has to start with an allowed host, so
// "github.com.mirror.example" is accepted like "github.com". This mirrors the
// behaviour existing consumers of the output rely on. [Policy.Strict] switches
// to an exact host (any port) or subdomain match.
//
// # Validation
//
// A [Validator] probes each normalized URL once with HTTP HEAD and accepts it
// only on a 200 response. [Validator.CollectAll] returns every accepted URL in
// input order; [Validator.FirstMatch] stops at the first accepted URL.
package repourl
