package repourl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Rejection reasons returned by [Normalize].
var (
	ErrEmpty  = errors.New("empty URL")
	ErrParse  = errors.New("unparseable URL")
	ErrScheme = errors.New("scheme not allowed")
	ErrHost   = errors.New("not a GitHub/GitLab repository URL")
	ErrPath   = errors.New("repository and organization cannot be parsed")
)

// Well-known forge hosts.
const (
	HostGitHub = "github.com"
	HostGitLab = "gitlab.com"
)

// Policy decides which candidates are eligible for probing.
type Policy struct {
	// Hosts lists the allowed forge hosts.
	Hosts []string

	// RequireHTTPS rejects candidates that do not start with "https://".
	RequireHTTPS bool

	// Strict requires the hostname to equal an allowed host or be one of its
	// subdomains, instead of merely starting with it.
	Strict bool
}

// AnyForge accepts GitHub and GitLab URLs with any scheme.
func AnyForge() Policy {
	return Policy{Hosts: []string{HostGitHub, HostGitLab}}
}

// GitHubHTTPS accepts only https:// GitHub URLs.
func GitHubHTTPS() Policy {
	return Policy{Hosts: []string{HostGitHub}, RequireHTTPS: true}
}

// Repo is a normalized repository reference.
type Repo struct {
	Scheme string // e.g. "https"
	Host   string // network location as written, including userinfo and port
	Owner  string // organization or user
	Name   string // repository name
}

// URL returns the canonical "scheme://host/owner/name" form.
func (r Repo) URL() string {
	return fmt.Sprintf("%s://%s/%s/%s", r.Scheme, r.Host, r.Owner, r.Name)
}

// Normalize checks raw against p and reduces it to a [Repo].
//
// The returned error wraps one of [ErrEmpty], [ErrParse], [ErrScheme],
// [ErrHost] or [ErrPath]. Normalize never touches the network.
func Normalize(raw string, p Policy) (Repo, error) {
	raw = controlStripper.Replace(strings.TrimSpace(raw))
	if raw == "" {
		return Repo{}, ErrEmpty
	}
	if p.RequireHTTPS && !strings.HasPrefix(raw, "https://") {
		return Repo{}, ErrScheme
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Repo{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	netloc := u.Host
	if u.User != nil {
		netloc = u.User.String() + "@" + u.Host
	}
	if !p.allows(u, netloc) {
		return Repo{}, ErrHost
	}

	path := u.EscapedPath()
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		if j := strings.IndexByte(path[i:], ';'); j >= 0 {
			path = path[:i+j]
		}
	}
	segments := strings.Split(path, "/")
	if len(segments) > 0 {
		segments = segments[1:]
	}
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return Repo{}, ErrPath
	}

	return Repo{Scheme: u.Scheme, Host: netloc, Owner: segments[0], Name: segments[1]}, nil
}

// controlStripper drops the tab and newline characters that project
// metadata often carries inside a URL.
var controlStripper = strings.NewReplacer("\t", "", "\r", "", "\n", "")

func (p Policy) allows(u *url.URL, netloc string) bool {
	for _, h := range p.Hosts {
		if p.Strict {
			if u.User != nil {
				return false
			}
			host := u.Hostname()
			if host == h || strings.HasSuffix(host, "."+h) {
				return true
			}
			continue
		}
		if strings.HasPrefix(netloc, h) {
			return true
		}
	}
	return false
}
