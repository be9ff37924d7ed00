// Package backends selects a [store.Source] implementation from a location
// string.
package backends

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/thoth-station/solver-project-url/pkg/store"
	"github.com/thoth-station/solver-project-url/pkg/store/file"
	"github.com/thoth-station/solver-project-url/pkg/store/mongo"
	"github.com/thoth-station/solver-project-url/pkg/store/redis"
)

// Options carries backend-specific settings. Fields that do not apply to the
// selected backend are ignored.
type Options struct {
	Database   string
	Collection string
	KeyPrefix  string
	Logger     *log.Logger
}

// Open returns an unconnected Source for location.
//
// A bare path or file:// URL selects the directory store. mongodb:// and
// mongodb+srv:// select MongoDB; redis:// and rediss:// select Redis.
func Open(location string, opts Options) (store.Source, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: empty location", store.ErrUnsupportedScheme)
	}
	scheme := ""
	if i := strings.Index(location, "://"); i > 0 {
		scheme = strings.ToLower(location[:i])
	}

	switch scheme {
	case "":
		return file.New(location, opts.Logger), nil
	case "file":
		u, err := url.Parse(location)
		if err != nil {
			return nil, err
		}
		return file.New(u.Path, opts.Logger), nil
	case "mongodb", "mongodb+srv":
		return mongo.New(mongo.Options{
			URI:        location,
			Database:   opts.Database,
			Collection: opts.Collection,
			Logger:     opts.Logger,
		}), nil
	case "redis", "rediss":
		return redis.New(redis.Options{
			URL:       location,
			KeyPrefix: opts.KeyPrefix,
			Logger:    opts.Logger,
		})
	default:
		return nil, fmt.Errorf("%w: %q", store.ErrUnsupportedScheme, scheme)
	}
}
