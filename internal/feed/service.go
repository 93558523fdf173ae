// Package feed assembles ranked feed pages: it over-fetches a recency
// window of posts, joins trip, engagement, and author-history data, hands
// the candidates to the ranking engine, and returns one page with cursor
// pagination.
package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KrishnaGrg1/Roamly-Backend/internal/geo"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/post"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/ranking"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/trip"
)

// Page size bounds. Requests outside the range are clamped, not rejected.
const (
	DefaultLimit = 10
	MaxLimit     = 50

	// overfetchFactor is how many times the page size the service pulls
	// from the recency window before ranking. Ranking reorders candidates
	// only within this window; the cursor always advances past the whole
	// window so pages never overlap.
	overfetchFactor = 3
)

// Request describes one feed page request after HTTP-level validation.
type Request struct {
	// ViewerID is empty for anonymous requests.
	ViewerID string

	// Location is the viewer's current position, when the client shared
	// one.
	Location *geo.Coordinate

	Mode   ranking.Mode
	Limit  int
	Cursor string
}

// Item is one entry of a feed page: the post, its trip payload, the
// engagement snapshot, and the score breakdown that put it here.
type Item struct {
	Post       *post.Post            `json:"post"`
	Trip       *trip.Trip            `json:"trip,omitempty"`
	Engagement post.EngagementCounts `json:"engagement"`
	Score      float64               `json:"score"`
	Breakdown  ranking.ScoreBreakdown `json:"breakdown"`
}

// Page is one ranked feed page.
type Page struct {
	Items      []Item `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// Service produces ranked feed pages.
type Service struct {
	posts      post.Repository
	trips      trip.Repository
	engagement post.EngagementStore
	ranker     *ranking.Ranker
	profiler   *ViewerProfiler
	logger     *slog.Logger

	defaultLimit int
	maxLimit     int
}

// Option configures a Service.
type Option func(*Service)

// WithLimits overrides the default and maximum page size. Non-positive
// values keep the package defaults.
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(s *Service) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
	}
}

// NewService wires the feed service over its data sources and the ranking
// engine.
func NewService(
	posts post.Repository,
	trips trip.Repository,
	engagement post.EngagementStore,
	ranker *ranking.Ranker,
	profiler *ViewerProfiler,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		posts:        posts,
		trips:        trips,
		engagement:   engagement,
		ranker:       ranker,
		profiler:     profiler,
		logger:       logger,
		defaultLimit: DefaultLimit,
		maxLimit:     MaxLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetFeed returns one ranked feed page. The recency window is limit*3 posts
// deep; candidates are joined against trips, engagement counts, and author
// completion history, then ranked under the request's mode. The next cursor
// points at the last post of the fetched window, so a follow-up request
// resumes strictly after everything this page considered.
func (s *Service) GetFeed(ctx context.Context, req Request) (*Page, error) {
	limit := s.clampLimit(req.Limit)

	posts, err := s.posts.ListRecent(ctx, limit*overfetchFactor, req.Cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent posts: %w", err)
	}
	if len(posts) == 0 {
		return &Page{Items: []Item{}}, nil
	}

	candidates, err := s.buildCandidates(ctx, posts)
	if err != nil {
		return nil, err
	}

	viewer, err := s.profiler.Profile(ctx, req.ViewerID, req.Location)
	if err != nil {
		// Personalization is best-effort: fall back to an anonymous
		// ranking rather than failing the page.
		s.logger.Warn("viewer profiling failed, serving unpersonalized feed",
			"viewer_id", req.ViewerID,
			"error", err)
		viewer = nil
	}

	ranked := s.ranker.Rank(candidates, viewer, req.Mode)

	hasMore := len(ranked) > limit
	if hasMore {
		ranked = ranked[:limit]
	}

	page := &Page{
		Items:   make([]Item, len(ranked)),
		HasMore: hasMore,
	}
	for i, item := range ranked {
		page.Items[i] = Item{
			Post:       item.Candidate.Post,
			Trip:       item.Candidate.Trip,
			Engagement: item.Candidate.Engagement,
			Score:      item.Score,
			Breakdown:  item.Breakdown,
		}
	}
	if hasMore {
		page.NextCursor = posts[len(posts)-1].ID
	}

	return page, nil
}

// buildCandidates joins the recency window against trips, engagement
// counts, and author completion history. A post whose trip is missing still
// becomes a candidate; the ranker scores it zero instead of dropping it
// silently.
func (s *Service) buildCandidates(ctx context.Context, posts []*post.Post) ([]ranking.Candidate, error) {
	postIDs := make([]string, len(posts))
	tripIDs := make([]string, 0, len(posts))
	authorIDs := make([]string, 0, len(posts))
	seenAuthors := make(map[string]bool, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
		tripIDs = append(tripIDs, p.TripID)
		if !seenAuthors[p.UserID] {
			seenAuthors[p.UserID] = true
			authorIDs = append(authorIDs, p.UserID)
		}
	}

	trips, err := s.trips.GetByIDs(ctx, tripIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load trips for feed window: %w", err)
	}

	counts, err := s.engagement.Counts(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load engagement counts: %w", err)
	}

	completed, err := s.trips.CompletedCountsByUser(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load author completion counts: %w", err)
	}

	candidates := make([]ranking.Candidate, len(posts))
	for i, p := range posts {
		t := trips[p.TripID]
		if t == nil {
			s.logger.Warn("feed post references a missing trip",
				"post_id", p.ID,
				"trip_id", p.TripID)
		}
		candidates[i] = ranking.Candidate{
			Post:                 p,
			Trip:                 t,
			Engagement:           counts[p.ID],
			AuthorCompletedTrips: completed[p.UserID],
		}
	}
	return candidates, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}
