package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/KrishnaGrg1/Roamly-Backend/internal/auth"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/middleware"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/post"
)

// EngagementHandlers holds dependencies for the like/comment/bookmark HTTP
// handlers.
type EngagementHandlers struct {
	posts      post.Repository
	engagement post.EngagementStore
	jwt        *auth.JWTService
	logger     *slog.Logger
}

// NewEngagementHandlers creates a new EngagementHandlers instance.
func NewEngagementHandlers(posts post.Repository, engagement post.EngagementStore, jwtService *auth.JWTService, logger *slog.Logger) *EngagementHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &EngagementHandlers{
		posts:      posts,
		engagement: engagement,
		jwt:        jwtService,
		logger:     logger,
	}
}

// EngagementResponse returns the post's counters after a mutation.
type EngagementResponse struct {
	PostID     string                `json:"post_id"`
	Engagement post.EngagementCounts `json:"engagement"`
}

// CommentRequest is the body for POST /posts/{id}/comments.
type CommentRequest struct {
	Text string `json:"text"`
}

// Like handles POST and DELETE /posts/{id}/like.
func (h *EngagementHandlers) Like(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.engagement.AddLike)
}

// Bookmark handles POST and DELETE /posts/{id}/bookmark.
func (h *EngagementHandlers) Bookmark(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.engagement.AddBookmark)
}

// Comment handles POST /posts/{id}/comments. Only the counter matters for
// ranking; the comment text itself is validated and acknowledged.
func (h *EngagementHandlers) Comment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}
	if h.requireUser(w, r) == "" {
		return
	}

	var body CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Comment text is required")
		return
	}

	p, ok := h.lookupPost(w, r)
	if !ok {
		return
	}

	if err := h.engagement.AddComment(r.Context(), p.ID, 1); err != nil {
		h.logger.Error("failed to record comment", "post_id", p.ID, "error", err)
		WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Failed to record comment")
		return
	}

	h.writeCounts(w, r, p.ID, http.StatusCreated)
}

// toggle applies a +1 (POST) or -1 (DELETE) delta through the given counter.
func (h *EngagementHandlers) toggle(w http.ResponseWriter, r *http.Request, add func(ctx context.Context, postID string, delta int64) error) {
	var delta int64
	switch r.Method {
	case http.MethodPost:
		delta = 1
	case http.MethodDelete:
		delta = -1
	default:
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	if h.requireUser(w, r) == "" {
		return
	}

	p, ok := h.lookupPost(w, r)
	if !ok {
		return
	}

	if err := add(r.Context(), p.ID, delta); err != nil {
		h.logger.Error("failed to update engagement counter", "post_id", p.ID, "error", err)
		WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Failed to update engagement")
		return
	}

	h.writeCounts(w, r, p.ID, http.StatusOK)
}

// requireUser validates the bearer token and returns the user ID, writing a
// 401 and returning empty when the request is not authenticated. Engagement
// mutations are always attributed to a user.
func (h *EngagementHandlers) requireUser(w http.ResponseWriter, r *http.Request) string {
	token := bearerToken(r)
	if token == "" {
		WriteError(w, r.Context(), http.StatusUnauthorized, ErrCodeAuthFailed, "Authentication required")
		return ""
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil || claims.Type != auth.TokenTypeAccess {
		WriteError(w, r.Context(), http.StatusUnauthorized, ErrCodeAuthFailed, "Invalid or expired token")
		return ""
	}

	middleware.SetUserID(r.Context(), claims.Subject)
	return claims.Subject
}

// lookupPost resolves the {id} path segment to a live post, writing a 404
// when it is missing or soft-deleted.
func (h *EngagementHandlers) lookupPost(w http.ResponseWriter, r *http.Request) (*post.Post, bool) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Post ID is required")
		return nil, false
	}

	p, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			WriteError(w, r.Context(), http.StatusNotFound, ErrCodeNotFound, "Post not found")
			return nil, false
		}
		h.logger.Error("failed to load post", "post_id", id, "error", err)
		WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Failed to load post")
		return nil, false
	}

	return p, true
}

// writeCounts responds with the post's current engagement counters.
func (h *EngagementHandlers) writeCounts(w http.ResponseWriter, r *http.Request, postID string, status int) {
	counts, err := h.engagement.Counts(r.Context(), []string{postID})
	if err != nil {
		h.logger.Error("failed to read engagement counters", "post_id", postID, "error", err)
		WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Failed to read engagement")
		return
	}

	WriteJSON(w, r.Context(), status, EngagementResponse{
		PostID:     postID,
		Engagement: counts[postID],
	})
}
