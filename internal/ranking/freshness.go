package ranking

import (
	"time"
)

// Freshness decay bands, in days of content age.
const (
	freshnessFreshDays  = 7.0
	freshnessRecentDays = 30.0
	freshnessAgingDays  = 90.0
)

// Decay rates. Evergreen content (adventure/trek) ages at half speed.
const (
	decayRateDefault   = 1.0
	decayRateEvergreen = 0.5
)

// FreshnessScore rates content recency on a [0, 100] scale with a piecewise
// time-decay curve. Content up to a week old scores full marks; older
// content decays in progressively flatter bands so aged posts surface less
// but never disappear entirely until deep in the tail.
//
// A nil completedAt returns a neutral 50: trips that were never completed
// carry no recency signal either way. Whether content is evergreen is a
// caller-supplied classification (see trip.IsEvergreen), not inferred here.
func FreshnessScore(completedAt *time.Time, isEvergreen bool, now time.Time) float64 {
	if completedAt == nil {
		return NeutralScore
	}

	ageDays := now.Sub(*completedAt).Hours() / 24

	decayRate := decayRateDefault
	if isEvergreen {
		decayRate = decayRateEvergreen
	}

	var score float64
	switch {
	case ageDays <= freshnessFreshDays:
		score = 100
	case ageDays <= freshnessRecentDays:
		score = 100 - (ageDays-freshnessFreshDays)*2*decayRate
	case ageDays <= freshnessAgingDays:
		score = 54 - (ageDays-freshnessRecentDays)*0.5*decayRate
	default:
		score = 24 - (ageDays-freshnessAgingDays)*0.1*decayRate
	}

	return clampScore(score)
}
