package ranking

import (
	"github.com/KrishnaGrg1/Roamly-Backend/internal/trip"
)

// Trust score contributions. The author-history axis maxes out at +40
// cumulative; a completed trip adds another +40 on top of the base 30.
const (
	trustBasePoints          = 30
	trustFirstTripPoints     = 10 // author completed >= 1 trip
	trustThreeTripsPoints    = 15 // author completed >= 3 trips
	trustFiveTripsPoints     = 15 // author completed >= 5 trips
	trustCompletedTripPoints = 40 // this trip carries a completion timestamp
)

// TrustScore rates authorial credibility on a [0, 100] scale from the
// author's completed-trip history and whether this trip itself was
// completed.
func TrustScore(t *trip.Trip, authorCompletedTrips int) int {
	score := trustBasePoints

	if authorCompletedTrips >= 1 {
		score += trustFirstTripPoints
	}
	if authorCompletedTrips >= 3 {
		score += trustThreeTripsPoints
	}
	if authorCompletedTrips >= 5 {
		score += trustFiveTripsPoints
	}

	if t != nil && t.CompletedAt != nil {
		score += trustCompletedTripPoints
	}

	if score > 100 {
		score = 100
	}
	return score
}
