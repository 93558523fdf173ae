package ranking

import (
	"sort"
	"time"

	"github.com/KrishnaGrg1/Roamly-Backend/internal/geo"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/post"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/trip"
)

// Candidate is a post/trip pair eligible for inclusion in a ranked feed
// page, with its engagement snapshot and the author's completed-trip count
// already joined by the caller. Trip may be nil for orphaned posts; such
// candidates score zero everywhere instead of failing the batch.
type Candidate struct {
	Post       *post.Post
	Trip       *trip.Trip
	Engagement post.EngagementCounts

	// AuthorCompletedTrips is how many trips the post's author completed,
	// feeding the trust score.
	AuthorCompletedTrips int
}

// ScoreBreakdown carries the five named sub-scores and the weighted total
// attached to each ranked item for explainability. Each sub-score is in
// [0, 100]. Breakdowns are created once per candidate per ranking call and
// never mutated afterwards.
type ScoreBreakdown struct {
	TripQuality float64 `json:"trip_quality"`
	Engagement  float64 `json:"engagement"`
	Relevance   float64 `json:"relevance"`
	Trust       float64 `json:"trust"`
	Freshness   float64 `json:"freshness"`
	Total       float64 `json:"total"`
}

// RankedItem pairs a candidate with its score breakdown. A list of
// RankedItem sorted by total descending is the engine's sole output.
type RankedItem struct {
	Candidate Candidate      `json:"-"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// Ranker computes composite feed scores and orders candidates.
// It is a pure, synchronous computation: no I/O, no shared mutable state,
// safe to invoke concurrently without coordination.
type Ranker struct {
	resolver geo.Resolver
	profiles Profiles
	metrics  *Metrics

	// now is injectable for deterministic freshness tests.
	now func() time.Time
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithClock overrides the ranker's time source.
func WithClock(now func() time.Time) RankerOption {
	return func(r *Ranker) { r.now = now }
}

// WithMetrics attaches Prometheus metrics to the ranker.
func WithMetrics(m *Metrics) RankerOption {
	return func(r *Ranker) { r.metrics = m }
}

// NewRanker creates a Ranker over the given destination resolver and weight
// profiles. A nil profiles table uses the built-in defaults.
func NewRanker(resolver geo.Resolver, profiles Profiles, opts ...RankerOption) *Ranker {
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	r := &Ranker{
		resolver: resolver,
		profiles: profiles,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Score computes the composite score and breakdown for a single candidate
// under the given mode's weight profile. A candidate with no trip data gets
// an all-zero breakdown (safety default, never an error).
func (r *Ranker) Score(c Candidate, viewer *ViewerContext, mode Mode) ScoreBreakdown {
	if c.Trip == nil {
		return ScoreBreakdown{}
	}

	now := r.now()
	quality := float64(TripQualityScore(c.Trip))
	engagement := EngagementScore(c.Engagement)
	relevance := RelevanceScore(c.Trip, viewer, r.resolver)
	trust := float64(TrustScore(c.Trip, c.AuthorCompletedTrips))
	freshness := FreshnessScore(c.Trip.CompletedAt, trip.IsEvergreen(c.Trip), now)

	w := r.profiles.Profile(mode)
	total := quality*w.TripQuality +
		engagement*w.Engagement +
		relevance*w.Relevance +
		trust*w.Trust +
		freshness*w.Freshness

	return ScoreBreakdown{
		TripQuality: quality,
		Engagement:  engagement,
		Relevance:   relevance,
		Trust:       trust,
		Freshness:   freshness,
		Total:       total,
	}
}

// Rank scores every candidate under the mode's weight profile and returns
// them ordered by total score descending. Candidates with exactly equal
// totals order by post ID ascending: an explicit, deterministic tie-break
// rather than a reliance on sort stability over the incoming recency order.
//
// The input slice is not modified.
func (r *Ranker) Rank(candidates []Candidate, viewer *ViewerContext, mode Mode) []RankedItem {
	start := time.Now()

	items := make([]RankedItem, len(candidates))
	for i, c := range candidates {
		breakdown := r.Score(c, viewer, mode)
		items[i] = RankedItem{
			Candidate: c,
			Score:     breakdown.Total,
			Breakdown: breakdown,
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return postID(items[i]) < postID(items[j])
	})

	if r.metrics != nil {
		r.metrics.ObserveRank(mode, len(candidates), time.Since(start))
	}

	return items
}

// postID returns the item's post ID, empty for a candidate without a post.
func postID(item RankedItem) string {
	if item.Candidate.Post == nil {
		return ""
	}
	return item.Candidate.Post.ID
}
