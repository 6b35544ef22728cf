// Package growth models referral-driven hiring as a deterministic
// expected-value process over a capacity-bucketed agent cohort.
package growth

import (
	"errors"
	"fmt"
)

const (
	// DefaultInitialReferrers is the default cohort size.
	DefaultInitialReferrers = 100
	// DefaultCapacity is the default number of successful-referral
	// slots per agent.
	DefaultCapacity = 10
	// DefaultMaxDays bounds the DaysToTarget search.
	DefaultMaxDays = 100000
)

// stallEpsilon is the active-mass threshold below which the cohort is
// considered exhausted and DaysToTarget stops early.
const stallEpsilon = 1e-12

var (
	ErrProbabilityRange = errors.New("probability must be within [0, 1]")
	ErrNegativeCount    = errors.New("count parameters must be non-negative")
)

// validateParams rejects out-of-range inputs before any computation.
func validateParams(p float64, days, initialReferrers, capacity int) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("%w: got %v", ErrProbabilityRange, p)
	}
	if days < 0 {
		return fmt.Errorf("%w: days = %d", ErrNegativeCount, days)
	}
	if initialReferrers < 0 {
		return fmt.Errorf("%w: initial_referrers = %d", ErrNegativeCount, initialReferrers)
	}
	if capacity < 0 {
		return fmt.Errorf("%w: capacity = %d", ErrNegativeCount, capacity)
	}
	return nil
}

// newBuckets returns the initial expected-count bucket array:
// buckets[c] is the expected number of agents with c remaining slots,
// and the whole cohort starts at full capacity.
func newBuckets(initialReferrers, capacity int) []float64 {
	buckets := make([]float64, capacity+1)
	buckets[capacity] = float64(initialReferrers)
	return buckets
}

// step advances the cohort one day and returns that day's expected
// successes. Expected mass p*buckets[c] moves from bucket c to c-1;
// bucket 0 only accumulates. All transitions use the day's pre-update
// values.
func step(buckets []float64, p float64) float64 {
	capacity := len(buckets) - 1
	next := make([]float64, capacity+1)
	next[0] = buckets[0]

	successes := 0.0
	for c := capacity; c >= 1; c-- {
		moved := p * buckets[c]
		successes += moved
		next[c] += buckets[c] - moved
		next[c-1] += moved
	}
	copy(buckets, next)
	return successes
}

// Simulate returns the cumulative expected successful referrals after
// each day, length = days. Every active agent (remaining slots > 0)
// succeeds with probability p once per day, consuming one slot; agents
// at zero slots are permanently inactive. The result is an exact
// expectation and fully deterministic.
func Simulate(p float64, days, initialReferrers, capacity int) ([]float64, error) {
	if err := validateParams(p, days, initialReferrers, capacity); err != nil {
		return nil, err
	}

	buckets := newBuckets(initialReferrers, capacity)
	cumulative := make([]float64, 0, days)
	total := 0.0
	for day := 0; day < days; day++ {
		total += step(buckets, p)
		cumulative = append(cumulative, total)
	}
	return cumulative, nil
}

// DaysToTarget returns the first day on which the cumulative expected
// successes meet or exceed targetTotal. ok is false when no day within
// maxDays reaches the target. Cumulative successes are bounded above
// by initialReferrers*capacity, so targets beyond that bound fail
// immediately. maxDays <= 0 selects DefaultMaxDays.
func DaysToTarget(p, targetTotal float64, initialReferrers, capacity, maxDays int) (int, bool, error) {
	if err := validateParams(p, 0, initialReferrers, capacity); err != nil {
		return 0, false, err
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}

	if targetTotal <= 0 {
		return 0, true, nil
	}
	if targetTotal > float64(initialReferrers)*float64(capacity) {
		return 0, false, nil
	}
	if p == 0 {
		return 0, false, nil
	}

	buckets := newBuckets(initialReferrers, capacity)
	total := 0.0
	for day := 1; day <= maxDays; day++ {
		total += step(buckets, p)
		if total >= targetTotal {
			return day, true, nil
		}

		active := 0.0
		for c := 1; c <= capacity; c++ {
			active += buckets[c]
		}
		if active < stallEpsilon {
			break
		}
	}
	return 0, false, nil
}
