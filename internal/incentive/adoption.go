package incentive

import (
	"fmt"
	"math"
)

// CurveKind names a parametric adoption curve shape.
type CurveKind string

const (
	// CurveLinear ramps linearly with the bonus and caps at
	// MaxProbability: p = min(maxP, maxP * bonus / scale).
	CurveLinear CurveKind = "linear"
	// CurveExponential saturates toward MaxProbability:
	// p = maxP * (1 - exp(-bonus / scale)).
	CurveExponential CurveKind = "exponential"
)

// Curve is a declarative adoption-probability specification. Both
// kinds are monotone non-decreasing in the bonus, which the optimizer
// requires.
type Curve struct {
	Kind           CurveKind `json:"kind" yaml:"kind"`
	MaxProbability float64   `json:"max_probability" yaml:"max_probability"`
	Scale          float64   `json:"scale" yaml:"scale"`
}

// Validate checks the curve parameters.
func (c Curve) Validate() error {
	switch c.Kind {
	case CurveLinear, CurveExponential:
	default:
		return fmt.Errorf("unknown adoption curve kind: %q", c.Kind)
	}
	if c.MaxProbability < 0 || c.MaxProbability > 1 {
		return fmt.Errorf("max_probability must be within [0, 1], got %v", c.MaxProbability)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", c.Scale)
	}
	return nil
}

// Prob returns the curve as an AdoptionProb. Negative bonuses clamp
// to zero so the function stays monotone over its whole domain.
func (c Curve) Prob() AdoptionProb {
	switch c.Kind {
	case CurveExponential:
		return func(bonus float64) float64 {
			if bonus < 0 {
				bonus = 0
			}
			return c.MaxProbability * (1 - math.Exp(-bonus/c.Scale))
		}
	default: // CurveLinear
		return func(bonus float64) float64 {
			if bonus < 0 {
				bonus = 0
			}
			p := c.MaxProbability * bonus / c.Scale
			return math.Min(c.MaxProbability, p)
		}
	}
}
