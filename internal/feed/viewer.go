package feed

import (
	"context"
	"fmt"
	"sort"

	"github.com/KrishnaGrg1/Roamly-Backend/internal/geo"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/ranking"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/trip"
)

// ViewerProfiler derives a viewer's personalization signals from their own
// trip history: preferred budget range, most-used travel styles, and how
// many trips they completed.
type ViewerProfiler struct {
	trips trip.Repository
}

// NewViewerProfiler creates a profiler backed by the trip repository.
func NewViewerProfiler(trips trip.Repository) *ViewerProfiler {
	return &ViewerProfiler{trips: trips}
}

// Profile builds the ranking context for one viewer. An empty userID means
// an anonymous request and yields a nil context, which the ranking engine
// treats as neutral. The location is whatever the client shared on this
// request; it is passed through untouched.
func (p *ViewerProfiler) Profile(ctx context.Context, userID string, location *geo.Coordinate) (*ranking.ViewerContext, error) {
	if userID == "" {
		return nil, nil
	}

	trips, err := p.trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer trip history: %w", err)
	}

	viewer := &ranking.ViewerContext{
		UserID:   userID,
		Location: location,
	}

	var (
		budgetMinSum, budgetMaxSum float64
		budgetCount                int
		styleCounts                = make(map[trip.TravelStyle]int)
	)
	for _, t := range trips {
		if t.CompletedAt != nil {
			viewer.CompletedTrips++
		}
		if t.BudgetMin != nil && t.BudgetMax != nil {
			budgetMinSum += *t.BudgetMin
			budgetMaxSum += *t.BudgetMax
			budgetCount++
		}
		for _, s := range t.TravelStyle {
			styleCounts[s]++
		}
	}

	if budgetCount > 0 {
		minAvg := budgetMinSum / float64(budgetCount)
		maxAvg := budgetMaxSum / float64(budgetCount)
		viewer.PreferredBudgetMin = &minAvg
		viewer.PreferredBudgetMax = &maxAvg
	}

	viewer.PreferredStyles = topStyles(styleCounts, trip.MaxStyles)

	return viewer, nil
}

// topStyles returns the n most frequent styles, most frequent first. Ties
// order alphabetically so the profile is deterministic across requests.
func topStyles(counts map[trip.TravelStyle]int, n int) []trip.TravelStyle {
	if len(counts) == 0 {
		return nil
	}

	styles := make([]trip.TravelStyle, 0, len(counts))
	for s := range counts {
		styles = append(styles, s)
	}
	sort.Slice(styles, func(i, j int) bool {
		if counts[styles[i]] != counts[styles[j]] {
			return counts[styles[i]] > counts[styles[j]]
		}
		return styles[i] < styles[j]
	})

	if len(styles) > n {
		styles = styles[:n]
	}
	return styles
}
