package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/thoth-station/solver-project-url/pkg/errors"
)

// bindEnv sets every flag in env that was not given on the command line
// from its environment variable. Empty variables are ignored.
func bindEnv(fs *pflag.FlagSet, env map[string]string, lookup func(string) (string, bool)) error {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f := fs.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		key := env[name]
		val, ok := lookup(key)
		if !ok || val == "" {
			continue
		}
		if f.Value.Type() == "bool" {
			b, err := parseBool(val)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s", key)
			}
			val = strconv.FormatBool(b)
		}
		if err := fs.Set(name, val); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s", key)
		}
	}
	return nil
}

// parseBool accepts the spellings commonly used for switches in
// environment variables.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", s)
}
