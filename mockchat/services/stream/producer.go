// Package stream drives word-by-word reply delivery.
package stream

import (
	"context"
	"strings"
	"time"
)

// DefaultInterval is the pause between two tokens.
const DefaultInterval = 120 * time.Millisecond

// Producer emits tokens on a fixed cadence. Cancellation is checked before
// every tick; a cancelled run never emits again.
type Producer struct {
	Interval time.Duration
}

func NewProducer(interval time.Duration) Producer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Producer{Interval: interval}
}

// Run sends one token per tick on out. After the last token it waits one more
// tick, mirroring the cadence at which completion is signalled. It returns the
// streamed text joined with single spaces, and ctx.Err() if cancelled.
func (p Producer) Run(ctx context.Context, tokens []string, out chan<- string) (string, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var streamed strings.Builder
	for _, tok := range tokens {
		if err := waitTick(ctx, ticker.C); err != nil {
			return streamed.String(), err
		}
		select {
		case out <- tok:
		case <-ctx.Done():
			return streamed.String(), ctx.Err()
		}
		if streamed.Len() > 0 {
			streamed.WriteByte(' ')
		}
		streamed.WriteString(tok)
	}
	if err := waitTick(ctx, ticker.C); err != nil {
		return streamed.String(), err
	}
	return streamed.String(), nil
}

func waitTick(ctx context.Context, tick <-chan time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-tick:
		return ctx.Err()
	}
}
