package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pheemnattavich-project/FloodSafe/internal/observability"
)

// fakeSource serves a fixed sequence of pages. NextPage flips the current
// page immediately unless stall is set, in which case the fingerprint never
// changes and every advance runs into its deadline.
type fakeSource struct {
	pages       [][]Row
	cur         int
	stall       bool
	unavailable bool
	nextClicks  int
}

func (f *fakeSource) WaitForContent(ctx context.Context) error {
	if f.unavailable {
		return errWaitTimeout
	}
	return nil
}

func (f *fakeSource) Rows(ctx context.Context) ([]Row, error) {
	return f.pages[f.cur], nil
}

func (f *fakeSource) HasNext(ctx context.Context) (bool, error) {
	return f.cur < len(f.pages)-1, nil
}

func (f *fakeSource) NextPage(ctx context.Context) error {
	f.nextClicks++
	if !f.stall {
		f.cur++
	}
	return nil
}

func (f *fakeSource) Fingerprint(ctx context.Context) (string, error) {
	return fmt.Sprintf("page-%d", f.cur), nil
}

// station builds a full-width row for the thaiwater profile.
func station(name, tambon string) Row {
	location := fmt.Sprintf("ต.%s อ.เมือง จ.สมุทรสงคราม", tambon)
	return Row{
		StationName: name,
		Cells:       []string{"แม่กลอง", location, "1.0", "2.0", "ปกติ", "", "ระดับน้ำทรงตัว", "2026-08-28 07:00"},
	}
}

func testPagerOpts() PagerOptions {
	return PagerOptions{
		AdvanceTimeout: 50 * time.Millisecond,
		PollInterval:   time.Millisecond,
	}
}

func newTestCrawler(src *fakeSource) *Crawler {
	factory := func(ctx context.Context) (Source, func(), error) {
		return src, func() {}, nil
	}
	return NewCrawler(
		factory,
		NewExtractor(ThaiwaterProfile),
		clockwork.NewRealClock(),
		testPagerOpts(),
		observability.NewMetricsForTesting(),
		zerolog.Nop(),
	)
}

func TestCrawlThreePages(t *testing.T) {
	src := &fakeSource{pages: [][]Row{
		{station("สถานี 1", "หนึ่ง"), station("สถานี 2", "สอง")},
		{station("สถานี 3", "สาม"), station("สถานี 4", "สี่")},
		{station("สถานี 5", "ห้า")},
	}}

	records, err := newTestCrawler(src).Crawl(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)

	// Page-then-row order, and the final row appears exactly once.
	for i, want := range []string{"สถานี 1", "สถานี 2", "สถานี 3", "สถานี 4", "สถานี 5"} {
		assert.Equal(t, want, records[i].StationName)
	}
	last := 0
	for _, rec := range records {
		if rec.StationName == "สถานี 5" {
			last++
		}
	}
	assert.Equal(t, 1, last, "terminating the loop must not re-emit the last row")
}

func TestCrawlStopsWhenNextDisabled(t *testing.T) {
	src := &fakeSource{pages: [][]Row{
		{station("สถานี 1", "หนึ่ง"), station("สถานี 2", "สอง")},
		{station("สถานี 3", "สาม")},
		{station("สถานี 4", "สี่")},
	}}

	records, err := newTestCrawler(src).Crawl(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, 2, src.nextClicks, "must never request a page past the disabled control")
}

func TestCrawlPaginationStall(t *testing.T) {
	src := &fakeSource{
		pages: [][]Row{
			{station("สถานี 1", "หนึ่ง")},
			{station("สถานี 2", "สอง")},
		},
		stall: true,
	}

	records, err := newTestCrawler(src).Crawl(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaginationStalled)
	assert.Nil(t, records, "a stalled attempt must not leak partial results")
}

func TestCrawlSourceUnavailable(t *testing.T) {
	src := &fakeSource{unavailable: true, pages: [][]Row{{}}}

	records, err := newTestCrawler(src).Crawl(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Nil(t, records)
}

func TestCrawlSkipsBadRowsAndContinues(t *testing.T) {
	short := Row{StationName: "สถานีพัง", Cells: []string{"แม่กลอง", "ต.ไหนสักแห่ง"}}
	nameless := station("", "นิรนาม")

	src := &fakeSource{pages: [][]Row{
		{station("สถานี 1", "หนึ่ง"), short, station("สถานี 2", "สอง")},
		{nameless, station("สถานี 3", "สาม")},
	}}

	records, err := newTestCrawler(src).Crawl(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3, "row-level failures must not abort the page or the crawl")
	assert.Equal(t, "สถานี 1", records[0].StationName)
	assert.Equal(t, "สถานี 2", records[1].StationName)
	assert.Equal(t, "สถานี 3", records[2].StationName)
}
