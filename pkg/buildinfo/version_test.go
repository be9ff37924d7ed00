package buildinfo

import (
	"strings"
	"testing"
)

func TestComponent(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)
	Version, Commit = "v0.3.1", "abc123"

	if got, want := Component(), "v0.3.1+commit.abc123"; got != want {
		t.Errorf("Component() = %q, want %q", got, want)
	}
	if got, want := UserAgent("gh-source-repos"), "gh-source-repos/v0.3.1"; got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q, want prefix with version", tmpl)
	}
	if !strings.Contains(tmpl, "commit: "+Commit+"\n") {
		t.Errorf("Template() = %q, want commit line", tmpl)
	}
}
