package integration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/pheemnattavich-project/FloodSafe/internal/thai"
)

// Selectors for the thaiwater.net water-level table. The page is a
// client-rendered MUI data grid: rows only exist after JS runs, and the
// pagination mutates the table in place without changing the URL.
const (
	rowSelector       = "tr.MuiTableRow-root"
	stationSelector   = "th span.MuiButton-label"
	statusBoxSelector = "div.MuiBox-root"
	nextButtonJS      = `(() => { const b = document.querySelector("button[aria-label='Next Page']"); return !!b && !b.disabled; })()`
	clickNextJS       = `(() => { const b = document.querySelector("button[aria-label='Next Page']"); if (b) b.click(); return !!b; })()`
	contentReadyJS    = `document.querySelector("tr.MuiTableRow-root") !== null`
	fingerprintJS     = `(() => {
		const p = document.querySelector("p.MuiTablePagination-displayedRows");
		if (p && p.textContent) return p.textContent.trim();
		const tr = document.querySelector("tr.MuiTableRow-root");
		return tr ? tr.innerText : "";
	})()`
)

// blockedURLPatterns keeps heavy static assets off the wire; only the
// rendered DOM matters to the crawl.
var blockedURLPatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg", "*.ico",
	"*.woff", "*.woff2", "*.ttf", "*.mp4", "*.webm",
}

// ChromeOptions configures the headless browser session.
type ChromeOptions struct {
	URL            string
	Headless       bool
	ChromePath     string // empty = auto-detect
	ContentTimeout time.Duration
	PollInterval   time.Duration
}

// ChromeSource implements Source over a headless Chrome tab driven by
// chromedp. One ChromeSource is one browser session; it must not be shared
// between concurrent crawls.
type ChromeSource struct {
	ctx   context.Context
	opts  ChromeOptions
	clock clockwork.Clock
	log   zerolog.Logger
}

// NewChromeSourceFactory returns a SourceFactory that launches a fresh
// browser, navigates to the station table and hands the session to the
// crawl. The close function tears the whole browser down.
func NewChromeSourceFactory(opts ChromeOptions, clock clockwork.Clock, log zerolog.Logger) SourceFactory {
	return func(ctx context.Context) (Source, func(), error) {
		return newChromeSource(ctx, opts, clock, log)
	}
}

func newChromeSource(parent context.Context, opts ChromeOptions, clock clockwork.Clock, log zerolog.Logger) (*ChromeSource, func(), error) {
	if opts.ContentTimeout <= 0 {
		opts.ContentTimeout = 60 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 250 * time.Millisecond
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 3000),
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	release := func() {
		cancel()
		allocCancel()
	}

	err := chromedp.Run(ctx,
		network.Enable(),
		network.SetBlockedURLs(blockedURLPatterns),
		chromedp.Navigate(opts.URL),
	)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("navigating to %s: %w", opts.URL, err)
	}

	return &ChromeSource{
		ctx:   ctx,
		opts:  opts,
		clock: clock,
		log:   log.With().Str("component", "chrome-source").Logger(),
	}, release, nil
}

// WaitForContent blocks until the first table row is rendered.
func (s *ChromeSource) WaitForContent(ctx context.Context) error {
	return waitFor(ctx, s.clock, s.opts.ContentTimeout, s.opts.PollInterval, func(ctx context.Context) (bool, error) {
		var ready bool
		if err := chromedp.Run(s.ctx, chromedp.Evaluate(contentReadyJS, &ready)); err != nil {
			return false, fmt.Errorf("probing content region: %w", err)
		}
		return ready, nil
	})
}

// Rows snapshots the rendered table and parses it into rows. Cell text is
// specialized per cell: a trend cell yields its tooltip title, a status cell
// yields the chip text, everything else yields plain text.
func (s *ChromeSource) Rows(ctx context.Context) ([]Row, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("snapshotting page: %w", err)
	}
	return parseRows(html)
}

// parseRows extracts table rows from a rendered page snapshot.
func parseRows(html string) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing page snapshot: %w", err)
	}

	var rows []Row
	doc.Find(rowSelector).Each(func(_ int, tr *goquery.Selection) {
		name := thai.NormalizeWhitespace(tr.Find(stationSelector).First().Text())

		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, cellText(td))
		})

		// Header and paginator rows carry no td cells; the extractor
		// drops them via its minimum-cell check.
		rows = append(rows, Row{StationName: name, Cells: cells})
	})

	return rows, nil
}

// cellText extracts the meaningful text of one table cell.
func cellText(td *goquery.Selection) string {
	if title, ok := td.Find("button[title]").First().Attr("title"); ok && title != "" {
		return thai.NormalizeWhitespace(title)
	}
	if box := td.Find(statusBoxSelector); box.Length() > 0 {
		return thai.NormalizeWhitespace(box.First().Text())
	}
	return thai.NormalizeWhitespace(td.Text())
}

// HasNext reports whether the next-page button exists and is enabled.
func (s *ChromeSource) HasNext(ctx context.Context) (bool, error) {
	var ok bool
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(nextButtonJS, &ok)); err != nil {
		return false, fmt.Errorf("querying next-page control: %w", err)
	}
	return ok, nil
}

// NextPage clicks the next-page button. The click is dispatched in page JS,
// which works even when MUI overlays the button during a re-render.
func (s *ChromeSource) NextPage(ctx context.Context) error {
	var clicked bool
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(clickNextJS, &clicked)); err != nil {
		return fmt.Errorf("clicking next-page control: %w", err)
	}
	if !clicked {
		return fmt.Errorf("next-page control not present")
	}
	return nil
}

// Fingerprint reads the paginator's "x–y of z" label, falling back to the
// first row's rendered text when the paginator is absent.
func (s *ChromeSource) Fingerprint(ctx context.Context) (string, error) {
	var fp string
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(fingerprintJS, &fp)); err != nil {
		return "", fmt.Errorf("reading content fingerprint: %w", err)
	}
	return fp, nil
}
