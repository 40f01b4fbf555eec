package retry

import (
	"math"
	"math/rand"
	"time"
)

// FullJitter implements capped exponential backoff with full jitter:
//
//	delay = uniform(0,1) * (min(cap, base^attempt) + 1) milliseconds
//
// where base and cap are expressed in milliseconds. The delay is therefore
// always in [0, cap+1) milliseconds, and the cap dominates for large
// attempt numbers.
type FullJitter struct {
	base time.Duration
	cap  time.Duration

	// jitterFunc provides random values in [0, 1). Defaults to
	// rand.Float64; tests inject a deterministic function.
	jitterFunc func() float64
}

// Option is a functional option for configuring FullJitter.
type Option func(*FullJitter)

// WithJitterFunc sets a custom source of jitter values in [0, 1).
func WithJitterFunc(f func() float64) Option {
	return func(b *FullJitter) {
		b.jitterFunc = f
	}
}

// NewFullJitter creates a full-jitter backoff strategy with the given base
// and cap.
func NewFullJitter(base, cap time.Duration, opts ...Option) *FullJitter {
	b := &FullJitter{
		base:       base,
		cap:        cap,
		jitterFunc: rand.Float64,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Delay returns the sleep before the given 1-based retry attempt.
func (b *FullJitter) Delay(attempt int) time.Duration {
	baseMs := float64(b.base.Milliseconds())
	capMs := float64(b.cap.Milliseconds())

	// math.Min absorbs the +Inf that Pow produces once attempt is large.
	exponentialMs := math.Min(capMs, math.Pow(baseMs, float64(attempt)))
	delayMs := b.jitterFunc() * (exponentialMs + 1)

	return time.Duration(delayMs * float64(time.Millisecond))
}

// Base returns the backoff base, for tests and debugging.
func (b *FullJitter) Base() time.Duration {
	return b.base
}

// Cap returns the backoff cap, for tests and debugging.
func (b *FullJitter) Cap() time.Duration {
	return b.cap
}
