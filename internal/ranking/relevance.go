package ranking

import (
	"math"

	"github.com/KrishnaGrg1/Roamly-Backend/internal/geo"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/trip"
)

// NeutralScore is returned by personalization-dependent scorers when the
// signal they need is absent (anonymous viewer, unknown completion date).
const NeutralScore = 50.0

// Geo-proximity bands for the relevance score.
const (
	proximityNearKm     = 50.0  // full points inside this radius
	proximityFalloffKm  = 100.0 // linear falloff span beyond the near radius
	proximityNearPoints = 20.0
	proximityFarPoints  = 10.0
)

// ViewerContext carries a viewer's personalization signals for one request.
// A nil context means an anonymous viewer: relevance stays neutral.
// The ranking engine only reads it.
type ViewerContext struct {
	UserID string

	// Current location, when the client shared one.
	Location *geo.Coordinate

	// Preferred budget range, derived externally from the viewer's own
	// trip history.
	PreferredBudgetMin *float64
	PreferredBudgetMax *float64

	// Up to 3 preferred travel styles, most preferred first.
	PreferredStyles []trip.TravelStyle

	// Number of trips the viewer has completed.
	CompletedTrips int
}

// preferredBudgetAverage returns the midpoint of the viewer's preferred
// budget range, false when either bound is absent or non-positive.
func (v *ViewerContext) preferredBudgetAverage() (float64, bool) {
	if v.PreferredBudgetMin == nil || v.PreferredBudgetMax == nil {
		return 0, false
	}
	avg := (*v.PreferredBudgetMin + *v.PreferredBudgetMax) / 2
	if avg <= 0 {
		return 0, false
	}
	return avg, true
}

// RelevanceScore rates how well a trip fits the viewer's travel style,
// budget, and location on a [0, 100] scale. Anonymous viewers get a neutral
// 50 with no personalization bias. Each signal contributes independently and
// only when its inputs exist; an unresolved destination name contributes
// nothing rather than erroring.
func RelevanceScore(t *trip.Trip, viewer *ViewerContext, resolver geo.Resolver) float64 {
	score := NeutralScore

	if viewer == nil || viewer.UserID == "" {
		return score
	}

	// Style overlap (0-25): share of the trip's styles the viewer prefers.
	if len(viewer.PreferredStyles) > 0 && len(t.TravelStyle) > 0 {
		preferred := make(map[trip.TravelStyle]bool, len(viewer.PreferredStyles))
		for _, s := range viewer.PreferredStyles {
			preferred[s] = true
		}
		matches := 0
		for _, s := range t.TravelStyle {
			if preferred[s] {
				matches++
			}
		}
		score += float64(matches) / float64(len(t.TravelStyle)) * 25
	}

	// Budget similarity (0-25): closeness of budget midpoints, with the
	// tolerance window scaled to twice the viewer's preferred average.
	if viewerAvg, ok := viewer.preferredBudgetAverage(); ok {
		if tripAvg, ok := t.BudgetAverage(); ok {
			diff := math.Abs(tripAvg - viewerAvg)
			similarity := math.Max(0, 1-diff/(viewerAvg*2))
			score += similarity * 25
		}
	}

	// Geo-proximity (0-20): only when the viewer shared a location and the
	// destination resolves against the known-coordinates table.
	if viewer.Location != nil && resolver != nil {
		if dest, ok := resolver.Resolve(t.Destination); ok {
			d := geo.DistanceKm(viewer.Location.Lat, viewer.Location.Lng, dest.Lat, dest.Lng)
			switch {
			case d <= proximityNearKm:
				score += proximityNearPoints
			case d <= proximityNearKm+proximityFalloffKm:
				score += proximityFarPoints * (1 - (d-proximityNearKm)/proximityFalloffKm)
			}
		}
	}

	return clampScore(score)
}

// clampScore clamps a score to the [0, 100] range.
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
