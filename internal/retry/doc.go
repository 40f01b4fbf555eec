// Package retry provides backoff strategies for the driver's transaction
// retry loop.
//
// The only strategy shipped is full-jitter capped exponential backoff: the
// actual sleep is a uniformly random fraction of the capped exponential
// delay. Full jitter spreads concurrent retriers apart, which matters for a
// ledger where conflicting writers would otherwise re-collide in lockstep.
//
// # Example Usage
//
//	strategy := retry.NewFullJitter(10*time.Millisecond, 5*time.Second)
//	delay := strategy.Delay(attempt)
//
// Tests should inject a deterministic jitter function via WithJitterFunc.
package retry
