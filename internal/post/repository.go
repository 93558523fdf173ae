package post

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for post data operations.
type Repository interface {
	// Create inserts a new post with a generated UUID.
	Create(ctx context.Context, p *Post) error

	// GetByID retrieves a post by its UUID, excluding soft-deleted posts.
	GetByID(ctx context.Context, id string) (*Post, error)

	// Delete soft-deletes a post by setting deleted_at.
	Delete(ctx context.Context, id string) error

	// ListRecent retrieves posts ordered by created_at DESC, id ASC
	// (tie-breaker), excluding soft-deleted posts. The cursor is the ID of
	// the last post seen; listing resumes strictly after it in the recency
	// order. An empty cursor starts from the newest post. An unknown cursor
	// yields an empty page rather than an error.
	//
	// This is the recency source stream the feed ranker over-fetches from;
	// feed cursors walk this stream, not the re-ranked order.
	ListRecent(ctx context.Context, limit int, cursor string) ([]*Post, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// Thread-safe via RWMutex.
type InMemoryRepository struct {
	mu    sync.RWMutex
	posts map[string]*Post
}

// NewInMemoryRepository creates a new in-memory post repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		posts: make(map[string]*Post),
	}
}

// Create inserts a new post with a generated UUID.
func (r *InMemoryRepository) Create(ctx context.Context, p *Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	postCopy := *p
	r.posts[p.ID] = &postCopy
	return nil
}

// GetByID retrieves a post by its UUID, excluding soft-deleted posts.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok || p.DeletedAt != nil {
		return nil, ErrPostNotFound
	}

	postCopy := *p
	return &postCopy, nil
}

// Delete soft-deletes a post by setting deleted_at.
// Deleting an already-deleted post reports not found.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	if p.DeletedAt != nil {
		return ErrPostNotFound
	}

	now := time.Now()
	p.DeletedAt = &now
	return nil
}

// ListRecent retrieves posts in recency order, resuming after the cursor.
func (r *InMemoryRepository) ListRecent(ctx context.Context, limit int, cursor string) ([]*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []*Post
	for _, p := range r.posts {
		if p.DeletedAt != nil {
			continue
		}
		candidates = append(candidates, p)
	}

	sortPostsByCreatedDesc(candidates)

	// Resume strictly after the cursor post in recency order. An unknown
	// cursor (post deleted since the last page) yields an empty result.
	start := 0
	if cursor != "" {
		start = len(candidates)
		for i, p := range candidates {
			if p.ID == cursor {
				start = i + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(candidates) {
		end = len(candidates)
	}

	results := candidates[start:end]
	copies := make([]*Post, len(results))
	for i, p := range results {
		postCopy := *p
		copies[i] = &postCopy
	}
	return copies, nil
}

// sortPostsByCreatedDesc sorts posts by created_at DESC, then by ID ASC for
// tie-breaking. This provides stable ordering for cursor-based pagination.
func sortPostsByCreatedDesc(posts []*Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.After(posts[j].CreatedAt) {
			return true
		}
		if posts[i].CreatedAt.Before(posts[j].CreatedAt) {
			return false
		}
		return posts[i].ID < posts[j].ID
	})
}
