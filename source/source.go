// Package source defines the record-provider capability the index
// orchestrator consumes, plus an in-memory repository and a fixture-file
// loader.
//
// A Source streams requests lazily as an iter.Seq2 so that the consumer can
// start building before the whole set has been fetched. A stream reports a
// failure by yielding a nil request with a non-nil error, after which it
// stops.
package source

import (
	"context"
	"errors"
	"iter"

	"github.com/katalvlaran/civicindex/request"
)

// Sentinel errors for record sources.
var (
	// ErrRecordSourceUnavailable marks any failure to retrieve records:
	// connectivity, query, scan or fixture read errors.
	ErrRecordSourceUnavailable = errors.New("source: record source unavailable")

	// ErrNotFound indicates a lookup for a request that does not exist.
	ErrNotFound = errors.New("source: request not found")

	// ErrDuplicateID indicates an insert with an ID already in use.
	ErrDuplicateID = errors.New("source: duplicate request id")

	// ErrDuplicateTrackingCode indicates an insert with a tracking code already in use.
	ErrDuplicateTrackingCode = errors.New("source: duplicate tracking code")

	// ErrUnsupportedFormat indicates a fixture file with an unknown extension.
	ErrUnsupportedFormat = errors.New("source: unsupported fixture format")
)

// Source yields requests matching a filter in a stable order.
type Source interface {
	Stream(ctx context.Context, f request.Filter) iter.Seq2[*request.Request, error]
}

// Collect drains src into a slice. It stops at the first error.
func Collect(ctx context.Context, src Source, f request.Filter) ([]*request.Request, error) {
	var out []*request.Request
	for r, err := range src.Stream(ctx, f) {
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
