// Package incentive searches for the minimal referral bonus that meets
// a hiring target, using the growth simulator as its evaluation oracle.
package incentive

import (
	"fmt"

	"github.com/refgraph/referral-core/internal/growth"
)

// bonusStep is the search granularity in dollars: results are always
// multiples of this.
const bonusStep = 10

// DefaultMaxBonus caps the exponential search. An adoption curve may
// asymptote below the probability the target needs, so the search has
// to give up at some finite bonus.
const DefaultMaxBonus = bonusStep * (1 << 20)

// AdoptionProb maps a non-negative bonus amount to the daily success
// probability of an agent. It must be monotone non-decreasing; the
// optimizer assumes this and does not verify it.
type AdoptionProb func(bonus float64) float64

// Optimizer finds minimal bonuses for hiring targets over a fixed
// agent cohort.
type Optimizer struct {
	initialReferrers int
	capacity         int
	maxBonus         int
}

// NewOptimizer creates an optimizer for the given cohort. Non-positive
// values select the growth package defaults and DefaultMaxBonus.
func NewOptimizer(initialReferrers, capacity, maxBonus int) *Optimizer {
	if initialReferrers <= 0 {
		initialReferrers = growth.DefaultInitialReferrers
	}
	if capacity <= 0 {
		capacity = growth.DefaultCapacity
	}
	if maxBonus <= 0 {
		maxBonus = DefaultMaxBonus
	}
	return &Optimizer{
		initialReferrers: initialReferrers,
		capacity:         capacity,
		maxBonus:         maxBonus,
	}
}

// MinBonusForTarget returns the smallest bonus (a multiple of $10) for
// which the expected cumulative hires after days meet targetHires.
// ok is false when no bonus within the search cap suffices. The search
// doubles a candidate bonus until it reaches the target, then binary
// searches the $10 multiples below it, using the simulator as a
// monotone predicate.
func (o *Optimizer) MinBonusForTarget(days int, targetHires float64, adoptionProb AdoptionProb) (int, bool, error) {
	if adoptionProb == nil {
		return 0, false, fmt.Errorf("adoption probability function is required")
	}
	if days < 0 {
		return 0, false, fmt.Errorf("%w: days = %d", growth.ErrNegativeCount, days)
	}

	reaches := func(bonus int) (bool, error) {
		p := adoptionProb(float64(bonus))
		if p < 0 || p > 1 {
			return false, fmt.Errorf("%w: adoption_prob(%d) = %v", growth.ErrProbabilityRange, bonus, p)
		}
		series, err := growth.Simulate(p, days, o.initialReferrers, o.capacity)
		if err != nil {
			return false, err
		}
		total := 0.0
		if len(series) > 0 {
			total = series[len(series)-1]
		}
		return total >= targetHires, nil
	}

	ok, err := reaches(0)
	if err != nil {
		return 0, false, err
	}
	if ok {
		return 0, true, nil
	}

	// Exponential search for an upper bound.
	hi := bonusStep
	for {
		if hi > o.maxBonus {
			return 0, false, nil
		}
		ok, err := reaches(hi)
		if err != nil {
			return 0, false, err
		}
		if ok {
			break
		}
		hi *= 2
	}

	// Binary search over multiples of bonusStep in (0, hi].
	lo, hiM := 0, hi/bonusStep
	for lo < hiM {
		mid := (lo + hiM) / 2
		ok, err := reaches(mid * bonusStep)
		if err != nil {
			return 0, false, err
		}
		if ok {
			hiM = mid
		} else {
			lo = mid + 1
		}
	}

	return lo * bonusStep, true, nil
}
