// Package backoff implements the bounded exponential-backoff policy
// with uniform jitter used by pkg/transport's retrying flavour. It is
// pure policy: no I/O, no shared state, one instance per send/recv
// attempt.
package backoff

import (
	"math"
	"math/rand"
	"time"
)

// Outcome is the result of one Next call: either a Delay to wait
// before the next attempt, or Exhausted once the retry budget is
// spent. Go has no tagged unions, so Ok discriminates the two cases
// the way spec.md's Delay(d)/Exhausted sentinel does.
type Outcome struct {
	Ok    bool
	Delay time.Duration
}

// Exhausted is the zero-value Outcome meaning the retry budget ran out.
var Exhausted = Outcome{}

// Backoff is per-call local state: construct one fresh per send/recv
// attempt, never share across goroutines.
type Backoff struct {
	retries    int
	backoffAmt float64
	retryCount int
}

// New returns a Backoff with the given retry budget and base delay
// (seconds). It mirrors spec.md §4.2 / §3 defaults when callers pass
// the Params values through.
func New(retries int, backoffAmtS float64) *Backoff {
	return &Backoff{retries: retries, backoffAmt: backoffAmtS}
}

// Next either increments the attempt counter and returns
// Delay(backoffAmt*2^k + jitter) for the 1-based attempt number k, or
// returns Exhausted once retryCount has reached the configured retry
// budget. Jitter is uniform on [0,1) and added once per call.
func (b *Backoff) Next() Outcome {
	if b.retryCount == b.retries {
		return Exhausted
	}
	b.retryCount++

	d := b.backoffAmt*math.Pow(2, float64(b.retryCount)) + rand.Float64()
	return Outcome{Ok: true, Delay: time.Duration(d * float64(time.Second))}
}

// Reset zeros the attempt counter.
func (b *Backoff) Reset() {
	b.retryCount = 0
}

// RetryCount reports the number of attempts consumed so far, exposed
// for tests asserting Scenario F's exact cumulative-sleep bound.
func (b *Backoff) RetryCount() int { return b.retryCount }
