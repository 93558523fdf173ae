package ranking

import (
	"github.com/KrishnaGrg1/Roamly-Backend/internal/trip"
)

// Trip quality point values. Each contribution is capped so the raw sum
// cannot exceed 100 even before the final clamp.
const (
	qualityBasePoints          = 10
	qualityShortTripPoints     = 10 // 1-3 days
	qualityMidTripPoints       = 15 // 4-7 days
	qualityLongTripPoints      = 12 // 8+ days
	qualityFullDaysPoints      = 10
	qualityActivitiesPoints    = 10
	qualityBudgetPoints        = 10
	qualityCostTotalPoints     = 5
	qualityAccommodationPoints = 10
	qualityMealsPoints         = 10
	qualityTransportPoints     = 5 // per transportation leg detail
	qualityTipsPoints          = 5
	qualityOverviewPoints      = 5
)

// TripQualityScore rates the completeness and detail of a trip's plan on a
// [0, 100] scale using an additive point system. Missing or partial
// itinerary sub-fields contribute nothing; they are never an error.
func TripQualityScore(t *trip.Trip) int {
	if t == nil {
		return 0
	}

	score := qualityBasePoints

	// Trip length banding.
	switch {
	case t.Days >= 1 && t.Days <= 3:
		score += qualityShortTripPoints
	case t.Days >= 4 && t.Days <= 7:
		score += qualityMidTripPoints
	case t.Days >= 8:
		score += qualityLongTripPoints
	}

	it := t.Itinerary
	if it != nil && len(it.Days) > 0 {
		if len(it.Days) >= t.Days {
			score += qualityFullDaysPoints
		}
		if anyDay(it, func(d trip.ItineraryDay) bool { return len(d.Activities) > 0 }) {
			score += qualityActivitiesPoints
		}
	}

	// Budget realism: both bounds present, min positive, max strictly above.
	// The cost-total bonus is only awarded on top of a realistic budget.
	if t.BudgetMin != nil && t.BudgetMax != nil &&
		*t.BudgetMin > 0 && *t.BudgetMax > *t.BudgetMin {
		score += qualityBudgetPoints
		if t.CostBreakdown != nil && t.CostBreakdown.Total > 0 {
			score += qualityCostTotalPoints
		}
	}

	if anyDay(it, func(d trip.ItineraryDay) bool {
		return d.Accommodation != nil && d.Accommodation.Name != ""
	}) {
		score += qualityAccommodationPoints
	}

	if anyDay(it, func(d trip.ItineraryDay) bool { return len(d.Meals) > 0 }) {
		score += qualityMealsPoints
	}

	if it != nil && it.Transportation != nil {
		if it.Transportation.ToDestination != "" {
			score += qualityTransportPoints
		}
		if it.Transportation.WithinDestination != "" {
			score += qualityTransportPoints
		}
	}

	if it != nil {
		if len(it.Tips) > 0 {
			score += qualityTipsPoints
		}
		if it.Overview != "" {
			score += qualityOverviewPoints
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

// anyDay reports whether any itinerary day satisfies the predicate.
// A nil itinerary has no days.
func anyDay(it *trip.Itinerary, pred func(trip.ItineraryDay) bool) bool {
	if it == nil {
		return false
	}
	for _, d := range it.Days {
		if pred(d) {
			return true
		}
	}
	return false
}
