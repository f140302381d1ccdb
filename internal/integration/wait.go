package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// errWaitTimeout reports that a predicate never became true within its
// deadline. Callers translate it into their own failure mode.
var errWaitTimeout = errors.New("wait: deadline elapsed")

// waitFor blocks until cond returns true, polling at interval, and gives up
// after timeout. This is the single blocking-wait primitive for the crawl
// engine: every "wait for the page to do something" goes through here, never
// through a bare fixed sleep. The clock is injectable so tests control time.
func waitFor(ctx context.Context, clock clockwork.Clock, timeout, interval time.Duration, cond func(ctx context.Context) (bool, error)) error {
	deadline := clock.After(timeout)

	for {
		ok, err := cond(ctx)
		if err != nil {
			return fmt.Errorf("wait condition: %w", err)
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return errWaitTimeout
		case <-clock.After(interval):
		}
	}
}
