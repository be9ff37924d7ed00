// Package redis reads solver documents stored as JSON strings under a
// common key prefix.
//
// Keys are discovered with SCAN, sorted, and fetched one at a time. The
// document ID is the key with the prefix removed. Date filtering happens
// client-side because values are opaque to the server.
package redis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	goredis "github.com/redis/go-redis/v9"

	"github.com/thoth-station/solver-project-url/pkg/solver"
	"github.com/thoth-station/solver-project-url/pkg/store"
)

// DefaultKeyPrefix is used when Options.KeyPrefix is empty.
const DefaultKeyPrefix = "thoth:solver:"

const scanCount = 512

// Options configures a Store.
type Options struct {
	URL       string
	KeyPrefix string
	Logger    *log.Logger
}

// Store is a Redis-backed [store.Source].
type Store struct {
	opts   *goredis.Options
	prefix string
	logger *log.Logger
	client *goredis.Client
}

var _ store.Source = (*Store)(nil)

// New parses the connection URL. No connection is made until Connect.
func New(opts Options) (*Store, error) {
	ro, err := goredis.ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Store{opts: ro, prefix: opts.KeyPrefix, logger: opts.Logger}, nil
}

// Connect opens the client and pings the server.
func (s *Store) Connect(ctx context.Context) error {
	client := goredis.NewClient(s.opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return err
	}
	s.client = client
	s.logger.Debug("connected to redis", "addr", s.opts.Addr, "db", s.opts.DB, "prefix", s.prefix)
	return nil
}

// Iterate streams matching documents through fn in key order.
func (s *Store) Iterate(ctx context.Context, q store.Query, fn store.VisitFunc) error {
	if s.client == nil {
		return store.ErrNotConnected
	}

	keys, err := s.keys(ctx)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := s.client.Get(ctx, key).Bytes()
		if err == goredis.Nil {
			// Expired or deleted between SCAN and GET.
			continue
		}
		if err != nil {
			return err
		}
		doc, err := solver.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if !q.Matches(doc) {
			continue
		}
		if err := fn(strings.TrimPrefix(key, s.prefix), doc); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	// SCAN may return a key more than once.
	sort.Strings(keys)
	out := keys[:0]
	for i, k := range keys {
		if i > 0 && keys[i-1] == k {
			continue
		}
		out = append(out, k)
	}
	return out, nil
}

// Close closes the client.
func (s *Store) Close(context.Context) error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
