package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KrishnaGrg1/Roamly-Backend/internal/auth"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/feed"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/geo"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/post"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/ranking"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/trip"
)

const testJWTSecret = "test-secret-at-least-32-characters"

// testServer bundles the in-memory stores behind a routed HTTP handler.
type testServer struct {
	posts      *post.InMemoryRepository
	trips      *trip.InMemoryRepository
	engagement *post.InMemoryEngagementStore
	jwt        *auth.JWTService
	handler    http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	posts := post.NewInMemoryRepository()
	trips := trip.NewInMemoryRepository()
	engagement := post.NewInMemoryEngagementStore()
	jwtService := auth.NewJWTService(testJWTSecret)
	logger := slog.Default()

	ranker := ranking.NewRanker(geo.NewStaticResolver(), nil)
	profiler := feed.NewViewerProfiler(trips)
	feedService := feed.NewService(posts, trips, engagement, ranker, profiler, logger)

	mux := Routes(
		NewFeedHandlers(feedService, jwtService, logger),
		NewEngagementHandlers(posts, engagement, jwtService, logger),
		NewHealthHandlers(nil),
		nil,
	)

	return &testServer{
		posts:      posts,
		trips:      trips,
		engagement: engagement,
		jwt:        jwtService,
		handler:    mux,
	}
}

// seedPost creates a trip and a post referencing it.
func (s *testServer) seedPost(t *testing.T, id string, createdAt time.Time) {
	t.Helper()
	ctx := context.Background()

	tr := &trip.Trip{
		ID:          "trip-" + id,
		UserID:      "author-" + id,
		Destination: "Pokhara",
		Days:        3,
		TravelStyle: []trip.TravelStyle{trip.StyleCultural},
	}
	if err := s.trips.Create(ctx, tr); err != nil {
		t.Fatalf("failed to seed trip: %v", err)
	}

	p := &post.Post{
		ID:        id,
		TripID:    "trip-" + id,
		UserID:    "author-" + id,
		CreatedAt: createdAt,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error body: %v, body: %s", err, rr.Body.String())
	}
	return resp
}

func TestGetFeedHandler_EmptyFeed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rr.Code, rr.Body.String())
	}

	var page FeedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	if len(page.Posts) != 0 || page.Pagination.HasMore {
		t.Errorf("expected an empty page, got %+v", page)
	}
}

func TestGetFeedHandler_ReturnsRankedItems(t *testing.T) {
	srv := newTestServer(t)
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	srv.seedPost(t, "p1", base)
	srv.seedPost(t, "p2", base.Add(time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/feed?mode=trek&limit=10", nil)
	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var page FeedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	if len(page.Posts) != 2 {
		t.Fatalf("Posts = %d, want 2", len(page.Posts))
	}
	if page.Pagination.Count != 2 {
		t.Errorf("pagination count = %d, want 2", page.Pagination.Count)
	}
	for _, item := range page.Posts {
		if item.Breakdown.Total != item.Score {
			t.Errorf("item %s: breakdown total %f disagrees with score %f",
				item.Post.ID, item.Breakdown.Total, item.Score)
		}
		if item.Trip == nil {
			t.Errorf("item %s missing trip payload", item.Post.ID)
		}
	}
}

func TestGetFeedHandler_RejectsUnknownMode(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/feed?mode=trending", nil)
	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Error.Code != ErrCodeUnknownMode {
		t.Errorf("error code = %q, want %q", resp.Error.Code, ErrCodeUnknownMode)
	}
}

func TestGetFeedHandler_ValidatesParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "non-numeric limit", target: "/feed?limit=lots"},
		{name: "lat without lng", target: "/feed?lat=27.7"},
		{name: "non-numeric lat", target: "/feed?lat=north&lng=85.3"},
		{name: "lat out of range", target: "/feed?lat=91&lng=85.3"},
		{name: "lng out of range", target: "/feed?lat=27.7&lng=181"},
	}

	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rr := httptest.NewRecorder()
			srv.handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body: %s", rr.Code, rr.Body.String())
			}
			if resp := decodeError(t, rr); resp.Error.Code != ErrCodeValidation {
				t.Errorf("error code = %q, want %q", resp.Error.Code, ErrCodeValidation)
			}
		})
	}
}

func TestGetFeedHandler_InvalidTokenServesAnonymous(t *testing.T) {
	srv := newTestServer(t)
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	srv.seedPost(t, "p1", base)

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an invalid optional token", rr.Code)
	}

	var page FeedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	if len(page.Posts) != 1 {
		t.Fatalf("Posts = %d, want 1", len(page.Posts))
	}
	// Anonymous viewers get the neutral relevance score.
	if got := page.Posts[0].Breakdown.Relevance; got != 50 {
		t.Errorf("Relevance = %f, want neutral 50", got)
	}
}

func TestGetFeedHandler_AuthenticatedViewer(t *testing.T) {
	srv := newTestServer(t)
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	srv.seedPost(t, "p1", base)

	// Give the viewer a cultural trip history so relevance moves off 50.
	viewerTrip := &trip.Trip{
		UserID:      "viewer-1",
		Destination: "Kathmandu",
		Days:        4,
		TravelStyle: []trip.TravelStyle{trip.StyleCultural},
	}
	if err := srv.trips.Create(context.Background(), viewerTrip); err != nil {
		t.Fatal(err)
	}

	token, err := srv.jwt.GenerateAccessToken("viewer-1")
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var page FeedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	if len(page.Posts) != 1 {
		t.Fatalf("Posts = %d, want 1", len(page.Posts))
	}
	// Full style overlap lifts relevance above neutral.
	if got := page.Posts[0].Breakdown.Relevance; got <= 50 {
		t.Errorf("Relevance = %f, want above 50 for a matching viewer", got)
	}
}

func TestGetFeedHandler_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/feed", nil)
	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}

func TestRoutes_RootAndNotFound(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("GET / status = %d, want 200", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr = httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("GET /nope status = %d, want 404", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Error.Code != ErrCodeNotFound {
		t.Errorf("error code = %q, want %q", resp.Error.Code, ErrCodeNotFound)
	}
}
