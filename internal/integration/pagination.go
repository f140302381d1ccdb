package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// PageState is the pagination state machine's current state.
type PageState int

const (
	StateReady PageState = iota
	StateAwaitingAdvance
	StateDone
	StateStalled
)

func (s PageState) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StateAwaitingAdvance:
		return "AWAITING_ADVANCE"
	case StateDone:
		return "DONE"
	case StateStalled:
		return "STALLED"
	default:
		return "UNKNOWN"
	}
}

// PagerOptions bound the blocking waits performed during an advance.
type PagerOptions struct {
	// AdvanceTimeout is the deadline for the content fingerprint to change
	// after the next-page control is triggered.
	AdvanceTimeout time.Duration

	// PollInterval is how often the fingerprint is re-read while waiting.
	PollInterval time.Duration

	// SettleDelay is an optional fixed delay applied after a change is
	// detected, for content that streams in progressively. It is layered on
	// top of change detection and is never the termination condition.
	SettleDelay time.Duration
}

// Pager decides whether the source can advance to another page and confirms
// that a triggered advance actually took effect. Client-rendered pagination
// has no URL to poll, so the only reliable advance signal is a content diff:
// every advance captures a fingerprint, triggers the control and blocks
// until the fingerprint differs or the deadline elapses.
type Pager struct {
	source Source
	clock  clockwork.Clock
	opts   PagerOptions
	state  PageState
	log    zerolog.Logger
}

// NewPager creates a pager over one source session, starting in READY.
func NewPager(source Source, clock clockwork.Clock, opts PagerOptions, log zerolog.Logger) *Pager {
	if opts.AdvanceTimeout <= 0 {
		opts.AdvanceTimeout = 60 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 250 * time.Millisecond
	}
	return &Pager{
		source: source,
		clock:  clock,
		opts:   opts,
		state:  StateReady,
		log:    log.With().Str("component", "pager").Logger(),
	}
}

// State returns the state machine's current state.
func (p *Pager) State() PageState {
	return p.state
}

// HasNext reports whether an enabled next-page control exists. When it does
// not, the pager transitions to DONE.
func (p *Pager) HasNext(ctx context.Context) (bool, error) {
	ok, err := p.source.HasNext(ctx)
	if err != nil {
		return false, fmt.Errorf("checking next-page control: %w", err)
	}
	if !ok {
		p.state = StateDone
	}
	return ok, nil
}

// Advance triggers the next-page control and blocks until the content
// fingerprint differs from the one captured before the trigger. A deadline
// without a detected change is fatal for the crawl attempt: the pager moves
// to STALLED and returns an error wrapping ErrPaginationStalled. Stalls are
// never retried internally.
func (p *Pager) Advance(ctx context.Context) error {
	before, err := p.source.Fingerprint(ctx)
	if err != nil {
		return fmt.Errorf("capturing fingerprint: %w", err)
	}

	p.state = StateAwaitingAdvance
	if err := p.source.NextPage(ctx); err != nil {
		return fmt.Errorf("triggering next page: %w", err)
	}

	err = waitFor(ctx, p.clock, p.opts.AdvanceTimeout, p.opts.PollInterval, func(ctx context.Context) (bool, error) {
		current, err := p.source.Fingerprint(ctx)
		if err != nil {
			return false, err
		}
		return current != before, nil
	})
	if errors.Is(err, errWaitTimeout) {
		p.state = StateStalled
		p.log.Error().Str("fingerprint", before).Dur("timeout", p.opts.AdvanceTimeout).Msg("content never changed after next-page trigger")
		return fmt.Errorf("advance deadline elapsed: %w", ErrPaginationStalled)
	}
	if err != nil {
		return err
	}

	if p.opts.SettleDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.clock.After(p.opts.SettleDelay):
		}
	}

	p.state = StateReady
	p.log.Debug().Str("fingerprint", before).Msg("page advanced")
	return nil
}
