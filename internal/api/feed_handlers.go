package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/KrishnaGrg1/Roamly-Backend/internal/auth"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/feed"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/geo"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/middleware"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/ranking"
)

// FeedHandlers holds dependencies for the feed HTTP handlers.
type FeedHandlers struct {
	feed   *feed.Service
	jwt    *auth.JWTService
	logger *slog.Logger
}

// NewFeedHandlers creates a new FeedHandlers instance.
func NewFeedHandlers(feedService *feed.Service, jwtService *auth.JWTService, logger *slog.Logger) *FeedHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedHandlers{
		feed:   feedService,
		jwt:    jwtService,
		logger: logger,
	}
}

// FeedResponse is the JSON body of GET /feed.
type FeedResponse struct {
	Posts      []feed.Item `json:"posts"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination carries the cursor metadata of a feed page.
type Pagination struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
	Count      int    `json:"count"`
}

// GetFeed handles GET /feed - returns one ranked feed page.
//
// Query parameters:
//   - mode: balanced (default), nearby, trek, or budget
//   - limit: page size, clamped to 1-50, default 10
//   - cursor: opaque ID of the last item seen
//   - lat, lng: viewer location, both or neither
//
// Authentication is optional: a valid bearer token personalizes the feed,
// anything else serves the anonymous ranking.
func (h *FeedHandlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	query := r.URL.Query()

	mode, err := ranking.ParseMode(query.Get("mode"))
	if err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeUnknownMode,
			"mode must be one of: balanced, nearby, trek, budget")
		return
	}

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "limit must be an integer")
			return
		}
	}

	location, err := parseLocation(query.Get("lat"), query.Get("lng"))
	if err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	req := feed.Request{
		ViewerID: h.viewerID(r),
		Location: location,
		Mode:     mode,
		Limit:    limit,
		Cursor:   query.Get("cursor"),
	}

	page, err := h.feed.GetFeed(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to build feed page", "error", err)
		WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Failed to build feed")
		return
	}

	WriteJSON(w, r.Context(), http.StatusOK, FeedResponse{
		Posts: page.Items,
		Pagination: Pagination{
			NextCursor: page.NextCursor,
			HasMore:    page.HasMore,
			Count:      len(page.Items),
		},
	})
}

// viewerID extracts the authenticated user from an optional bearer token.
// A missing, malformed, or expired token degrades to an anonymous viewer
// instead of rejecting the request: the feed is readable by everyone.
func (h *FeedHandlers) viewerID(r *http.Request) string {
	token := bearerToken(r)
	if token == "" {
		return ""
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		h.logger.Debug("ignoring invalid bearer token on feed request", "error", err)
		return ""
	}
	if claims.Type != auth.TokenTypeAccess {
		return ""
	}

	middleware.SetUserID(r.Context(), claims.Subject)
	return claims.Subject
}

// bearerToken returns the token from an Authorization: Bearer header, empty
// when absent.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// parseLocation parses the optional lat/lng pair. Both must be present
// together and inside valid coordinate ranges.
func parseLocation(latStr, lngStr string) (*geo.Coordinate, error) {
	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, errors.New("lat and lng must be provided together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, errors.New("lat must be a number")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, errors.New("lng must be a number")
	}
	if lat < -90 || lat > 90 {
		return nil, errors.New("lat must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return nil, errors.New("lng must be between -180 and 180")
	}

	return &geo.Coordinate{Lat: lat, Lng: lng}, nil
}
