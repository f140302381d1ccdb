// Package integration drives the external station-data source: it owns the
// browser session, the pagination state machine and the row extraction that
// together produce the station records consumed by the rest of the system.
package integration

import (
	"context"
	"errors"
)

// Engine-level failure modes. Both are fatal for the crawl attempt that hit
// them; the caller decides whether to retry a whole new crawl.
var (
	// ErrSourceUnavailable means the first page's content never appeared
	// within the deadline.
	ErrSourceUnavailable = errors.New("station source unavailable")

	// ErrPaginationStalled means a next-page action was triggered but the
	// rendered content never changed within the deadline.
	ErrPaginationStalled = errors.New("pagination stalled")
)

// Row is one rendered table row: the station name plus the ordered cell
// texts as they appear on the page. Cell meaning is assigned later by the
// extraction profile, not here.
type Row struct {
	StationName string
	Cells       []string
}

// Source is the entire contract the crawler requires from whatever renders
// the paginated station table. It deliberately exposes no markup query
// language; implementations decide how each operation maps onto the page.
type Source interface {
	// WaitForContent blocks until the station table is present, or fails
	// after the implementation's configured deadline.
	WaitForContent(ctx context.Context) error

	// Rows reads the currently rendered rows in page order.
	Rows(ctx context.Context) ([]Row, error)

	// HasNext reports whether a next-page control exists and is enabled.
	HasNext(ctx context.Context) (bool, error)

	// NextPage triggers the next-page control. It does not wait for the
	// content to change; that is the pager's job.
	NextPage(ctx context.Context) error

	// Fingerprint returns a comparable snapshot of the current content,
	// used to detect that a page transition has actually taken effect.
	Fingerprint(ctx context.Context) (string, error)
}

// SourceFactory opens a fresh source session. Each crawl owns exactly one
// session for its whole duration; the returned close function releases it.
type SourceFactory func(ctx context.Context) (Source, func(), error)
