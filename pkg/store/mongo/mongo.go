// Package mongo reads solver documents from a MongoDB collection.
//
// Documents are stored as-is, one solver result per Mongo document. Date
// bounds are pushed down as a range filter on metadata.datetime, which holds
// an ISO-8601 string so lexical order equals chronological order. Results are
// sorted by metadata.datetime and then _id.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/thoth-station/solver-project-url/pkg/solver"
	"github.com/thoth-station/solver-project-url/pkg/store"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultDatabase   = "thoth"
	DefaultCollection = "solver_results"
)

const datetimeField = "metadata.datetime"

// Options configures a Store.
type Options struct {
	URI        string
	Database   string
	Collection string
	Logger     *log.Logger
}

// Store is a MongoDB-backed [store.Source].
type Store struct {
	opts   Options
	client *mongo.Client
	coll   *mongo.Collection
}

var _ store.Source = (*Store)(nil)

// New creates a Store. No connection is made until Connect.
func New(opts Options) *Store {
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Store{opts: opts}
}

// Connect dials the server and pings the primary.
func (s *Store) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.opts.URI))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return err
	}
	s.client = client
	s.coll = client.Database(s.opts.Database).Collection(s.opts.Collection)
	s.opts.Logger.Debug("connected to mongodb", "database", s.opts.Database, "collection", s.opts.Collection)
	return nil
}

// Iterate streams matching documents through fn.
func (s *Store) Iterate(ctx context.Context, q store.Query, fn store.VisitFunc) error {
	if s.coll == nil {
		return store.ErrNotConnected
	}

	findOpts := options.Find().SetSort(bson.D{{Key: datetimeField, Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, filter(q), findOpts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		id := documentID(cur.Current)
		data, err := bson.MarshalExtJSON(cur.Current, false, false)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		doc, err := solver.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		if err := fn(id, doc); err != nil {
			return err
		}
	}
	return cur.Err()
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client, s.coll = nil, nil
	return err
}

// filter translates q into a range filter on metadata.datetime.
// The end bound is compared against the start of the following day so a
// datetime anywhere on an inclusive end date matches.
func filter(q store.Query) bson.M {
	if !q.Bounded() {
		return bson.M{}
	}
	cond := bson.M{}
	if !q.Start.IsZero() {
		cond["$gte"] = q.Start.Format(time.DateOnly)
	}
	if !q.End.IsZero() {
		end := q.End
		if q.IncludeEnd {
			end = end.AddDate(0, 0, 1)
		}
		cond["$lt"] = end.Format(time.DateOnly)
	}
	return bson.M{datetimeField: cond}
}

// documentID prefers metadata.document_id and falls back to _id.
func documentID(raw bson.Raw) string {
	if id, ok := raw.Lookup("metadata", "document_id").StringValueOK(); ok && id != "" {
		return id
	}
	v := raw.Lookup("_id")
	if id, ok := v.StringValueOK(); ok {
		return id
	}
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	return v.String()
}
