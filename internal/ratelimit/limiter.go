// Package ratelimit throttles MCP tool calls with token buckets.
package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrLimited is returned by Limits.Check when a call is throttled.
var ErrLimited = errors.New("rate limit exceeded")

// ErrOverBudget is returned by Limits.Check when a single call costs more
// than the limiter's burst.
var ErrOverBudget = errors.New("call exceeds rate limit budget")

// Limiter is a token bucket per key. Calls spend tokens and the bucket
// refills at a fixed rate up to its burst size.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64 // tokens per second
	burst   float64 // bucket capacity, also the initial token count
	nowFunc func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewLimiter creates a limiter refilling at rate tokens per second with
// room for burst tokens.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   float64(burst),
		nowFunc: time.Now,
	}
}

// Allow spends one token for key.
func (l *Limiter) Allow(key string) bool {
	return l.AllowN(key, 1)
}

// AllowN spends cost tokens for key and reports whether there were enough.
// A cost larger than the burst can never be paid and is always refused.
func (l *Limiter) AllowN(key string, cost float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, last: now}
		l.buckets[key] = b
	}

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(l.burst, b.tokens+l.rate*elapsed)
		b.last = now
	}

	cost = max(cost, 0)
	if cost > l.burst || b.tokens < cost {
		return false
	}
	b.tokens -= cost
	return true
}

// Limits maps tool names to their limiters.
type Limits map[string]*Limiter

// DefaultLimits returns the limits for the schelling MCP tools.
// A schelling_run costs one token per classic-sized run (see RunCost).
func DefaultLimits() Limits {
	return Limits{
		"schelling_run":     NewLimiter(1.0, 30),     // one classic run/s, burst 30
		"schelling_history": NewLimiter(2.0, 20),     // 120/minute, burst 20
		"schelling_rounds":  NewLimiter(2.0, 20),     // 120/minute, burst 20
		"schelling_export":  NewLimiter(5.0/60.0, 2), // 5/minute, burst 2
	}
}

// classicWork is the cell-rounds of a 60x60 board run for 20 rounds.
const classicWork = 60 * 60 * 20

// RunCost returns the token cost of simulating a size x size board for the
// given number of rounds. Small runs cost a fraction of a token.
func RunCost(size, rounds int) float64 {
	return float64(size) * float64(size) * float64(rounds) / classicWork
}

// Check spends cost tokens from the tool's limiter. Tools without a limiter
// are always allowed.
func (l Limits) Check(tool string, cost float64) error {
	limiter, ok := l[tool]
	if !ok {
		return nil
	}
	if cost > limiter.burst {
		return fmt.Errorf("%w: %s costs %.1f tokens, limit is %.0f", ErrOverBudget, tool, cost, limiter.burst)
	}
	if !limiter.AllowN(tool, cost) {
		return fmt.Errorf("%w for %s, please try again shortly", ErrLimited, tool)
	}
	return nil
}
