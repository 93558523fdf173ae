package ranking

import (
	"errors"
	"fmt"
	"math"
)

// Mode selects the weight profile used to combine sub-scores.
type Mode string

// The fixed set of feed modes.
const (
	ModeBalanced Mode = "balanced"
	ModeNearby   Mode = "nearby"
	ModeTrek     Mode = "trek"
	ModeBudget   Mode = "budget"
)

// DefaultMode is used when a request does not name a mode.
const DefaultMode = ModeBalanced

// ErrUnknownMode is returned by ParseMode for values outside the fixed set.
// It is a caller input-validation error; the engine itself never sees an
// unknown mode.
var ErrUnknownMode = errors.New("unknown feed mode")

// ParseMode validates a mode string. The empty string maps to DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return DefaultMode, nil
	case ModeBalanced, ModeNearby, ModeTrek, ModeBudget:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// WeightProfile is the convex combination applied to the five sub-scores.
// The weights of a valid profile sum to 1.0 within rounding tolerance.
type WeightProfile struct {
	TripQuality float64 `json:"trip_quality"`
	Engagement  float64 `json:"engagement"`
	Relevance   float64 `json:"relevance"`
	Trust       float64 `json:"trust"`
	Freshness   float64 `json:"freshness"`
}

// weightSumTolerance bounds rounding error when validating profiles.
const weightSumTolerance = 1e-6

// Validate checks that the profile's weights sum to 1.0 within tolerance
// and that no weight is negative.
func (w WeightProfile) Validate() error {
	if w.TripQuality < 0 || w.Engagement < 0 || w.Relevance < 0 || w.Trust < 0 || w.Freshness < 0 {
		return fmt.Errorf("weight profile has negative weight: %+v", w)
	}
	sum := w.TripQuality + w.Engagement + w.Relevance + w.Trust + w.Freshness
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weight profile sums to %f, want 1.0: %+v", sum, w)
	}
	return nil
}

// Profiles maps each feed mode to its weight profile.
type Profiles map[Mode]WeightProfile

// DefaultProfiles returns the built-in weight table.
//
//   - balanced: the general feed; quality leads, everything else moderate.
//   - nearby: relevance boosted for local discovery.
//   - trek: quality and trust boosted, freshness lowered (evergreen content).
//   - budget: relevance boosted for budget matching.
func DefaultProfiles() Profiles {
	return Profiles{
		ModeBalanced: {TripQuality: 0.40, Engagement: 0.20, Relevance: 0.20, Trust: 0.10, Freshness: 0.10},
		ModeNearby:   {TripQuality: 0.30, Engagement: 0.15, Relevance: 0.40, Trust: 0.05, Freshness: 0.10},
		ModeTrek:     {TripQuality: 0.45, Engagement: 0.15, Relevance: 0.15, Trust: 0.20, Freshness: 0.05},
		ModeBudget:   {TripQuality: 0.35, Engagement: 0.20, Relevance: 0.30, Trust: 0.10, Freshness: 0.05},
	}
}

// Profile returns the weight profile for a mode, falling back to the
// balanced profile for a mode missing from the table.
func (p Profiles) Profile(mode Mode) WeightProfile {
	if w, ok := p[mode]; ok {
		return w
	}
	return DefaultProfiles()[ModeBalanced]
}
