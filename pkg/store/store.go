// Package store defines the result source that solver documents are read
// from.
//
// A [Source] is connected once at the start of a run and then iterated over
// an optional date range. Iteration is lazy and sequential: documents are
// handed to a callback one at a time in an order that is stable for a given
// store content. Backends live in subpackages (file, mongo, redis) and are
// selected by URL scheme in the backends package.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/thoth-station/solver-project-url/pkg/solver"
)

// ErrUnsupportedScheme is returned when a store location uses an unknown
// URL scheme.
var ErrUnsupportedScheme = errors.New("unsupported store scheme")

// ErrNotConnected is returned by Iterate before Connect succeeded.
var ErrNotConnected = errors.New("store not connected")

// VisitFunc receives one document. Returning an error stops iteration and
// the error is returned from Iterate unchanged.
type VisitFunc func(id string, doc *solver.Document) error

// Source is a store of solver result documents.
type Source interface {
	// Connect establishes the connection. It is called once per run.
	Connect(ctx context.Context) error

	// Iterate calls fn for every document matching q.
	Iterate(ctx context.Context, q Query, fn VisitFunc) error

	// Close releases the connection.
	Close(ctx context.Context) error
}

// Query bounds iteration by document date. Zero Start or End means the range
// is open on that side.
type Query struct {
	Start      time.Time
	End        time.Time
	IncludeEnd bool
}

// Bounded reports whether either side of the range is set.
func (q Query) Bounded() bool {
	return !q.Start.IsZero() || !q.End.IsZero()
}

// Contains reports whether a document dated d falls inside the range.
// Only the calendar date of d, Start and End is compared.
func (q Query) Contains(d time.Time) bool {
	day := truncate(d)
	if !q.Start.IsZero() && day.Before(truncate(q.Start)) {
		return false
	}
	if !q.End.IsZero() {
		end := truncate(q.End)
		if q.IncludeEnd {
			return !day.After(end)
		}
		return day.Before(end)
	}
	return true
}

// Matches reports whether doc belongs to the range. Documents without a
// usable datetime only match an unbounded query.
func (q Query) Matches(doc *solver.Document) bool {
	if !q.Bounded() {
		return true
	}
	d, ok := doc.Date()
	if !ok {
		return false
	}
	return q.Contains(d)
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
