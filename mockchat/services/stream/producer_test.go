package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(out <-chan string) <-chan []string {
	done := make(chan []string, 1)
	go func() {
		var got []string
		for tok := range out {
			got = append(got, tok)
		}
		done <- got
	}()
	return done
}

func TestProducerEmitsEveryToken(t *testing.T) {
	p := NewProducer(time.Millisecond)
	out := make(chan string)
	got := collect(out)

	streamed, err := p.Run(context.Background(), []string{"a", "b", "c"}, out)
	close(out)

	require.NoError(t, err)
	assert.Equal(t, "a b c", streamed)
	assert.Equal(t, []string{"a", "b", "c"}, <-got)
}

func TestProducerStopsOnCancel(t *testing.T) {
	p := NewProducer(5 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan string)

	var received []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		for tok := range out {
			received = append(received, tok)
			if len(received) == 2 {
				cancel()
			}
		}
	}()

	streamed, err := p.Run(ctx, []string{"one", "two", "three", "four"}, out)
	close(out)
	<-done

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "one two", streamed)
	assert.Equal(t, []string{"one", "two"}, received)
}

func TestProducerCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := make(chan string, 1)

	streamed, err := NewProducer(time.Millisecond).Run(ctx, []string{"x"}, out)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, streamed)
	assert.Len(t, out, 0)
}

func TestProducerCadence(t *testing.T) {
	p := NewProducer(10 * time.Millisecond)
	out := make(chan string, 3)
	start := time.Now()
	_, err := p.Run(context.Background(), []string{"a", "b", "c"}, out)
	require.NoError(t, err)
	// three token ticks plus the completion tick
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestNewProducerDefaultsInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, NewProducer(0).Interval)
}
