package post

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Engagement field names shared by store implementations.
const (
	fieldLikes     = "likes"
	fieldComments  = "comments"
	fieldBookmarks = "bookmarks"
)

// EngagementStore tracks interaction counts per post.
// Counts returned are point-in-time snapshots; posts with no recorded
// interactions report zero counts, never an error.
type EngagementStore interface {
	AddLike(ctx context.Context, postID string, delta int64) error
	AddComment(ctx context.Context, postID string, delta int64) error
	AddBookmark(ctx context.Context, postID string, delta int64) error

	// Counts returns engagement snapshots for the given posts. Every
	// requested ID is present in the result, zero-valued when unknown.
	Counts(ctx context.Context, postIDs []string) (map[string]EngagementCounts, error)
}

// InMemoryEngagementStore is an in-memory EngagementStore.
// Thread-safe via RWMutex.
type InMemoryEngagementStore struct {
	mu     sync.RWMutex
	counts map[string]EngagementCounts
}

// NewInMemoryEngagementStore creates a new in-memory engagement store.
func NewInMemoryEngagementStore() *InMemoryEngagementStore {
	return &InMemoryEngagementStore{
		counts: make(map[string]EngagementCounts),
	}
}

// AddLike adjusts a post's like count.
func (s *InMemoryEngagementStore) AddLike(ctx context.Context, postID string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.counts[postID]
	c.Likes = clampNonNegative(c.Likes + delta)
	s.counts[postID] = c
	return nil
}

// AddComment adjusts a post's comment count.
func (s *InMemoryEngagementStore) AddComment(ctx context.Context, postID string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.counts[postID]
	c.Comments = clampNonNegative(c.Comments + delta)
	s.counts[postID] = c
	return nil
}

// AddBookmark adjusts a post's bookmark count.
func (s *InMemoryEngagementStore) AddBookmark(ctx context.Context, postID string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.counts[postID]
	c.Bookmarks = clampNonNegative(c.Bookmarks + delta)
	s.counts[postID] = c
	return nil
}

// Counts returns engagement snapshots for the given posts.
func (s *InMemoryEngagementStore) Counts(ctx context.Context, postIDs []string) (map[string]EngagementCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]EngagementCounts, len(postIDs))
	for _, id := range postIDs {
		result[id] = s.counts[id]
	}
	return result, nil
}

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// RedisEngagementStore is a Redis-backed EngagementStore.
// Each post's counts live in a hash keyed by post ID, so increments are
// atomic and snapshots are a single HGETALL per post.
type RedisEngagementStore struct {
	client *redis.Client
}

// NewRedisEngagementStore creates a Redis-backed engagement store.
func NewRedisEngagementStore(client *redis.Client) *RedisEngagementStore {
	return &RedisEngagementStore{client: client}
}

// engagementKey builds the Redis hash key for a post's counts.
func engagementKey(postID string) string {
	return "engagement:" + postID
}

// AddLike adjusts a post's like count.
func (s *RedisEngagementStore) AddLike(ctx context.Context, postID string, delta int64) error {
	return s.increment(ctx, postID, fieldLikes, delta)
}

// AddComment adjusts a post's comment count.
func (s *RedisEngagementStore) AddComment(ctx context.Context, postID string, delta int64) error {
	return s.increment(ctx, postID, fieldComments, delta)
}

// AddBookmark adjusts a post's bookmark count.
func (s *RedisEngagementStore) AddBookmark(ctx context.Context, postID string, delta int64) error {
	return s.increment(ctx, postID, fieldBookmarks, delta)
}

func (s *RedisEngagementStore) increment(ctx context.Context, postID, field string, delta int64) error {
	if err := s.client.HIncrBy(ctx, engagementKey(postID), field, delta).Err(); err != nil {
		return fmt.Errorf("failed to increment %s for post %s: %w", field, postID, err)
	}
	return nil
}

// Counts returns engagement snapshots for the given posts.
// Lookups are pipelined so a feed page costs one round trip.
func (s *RedisEngagementStore) Counts(ctx context.Context, postIDs []string) (map[string]EngagementCounts, error) {
	result := make(map[string]EngagementCounts, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(postIDs))
	for i, id := range postIDs {
		cmds[i] = pipe.HGetAll(ctx, engagementKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch engagement counts: %w", err)
	}

	for i, id := range postIDs {
		fields, err := cmds[i].Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read engagement counts for post %s: %w", id, err)
		}
		result[id] = EngagementCounts{
			Likes:     parseCount(fields[fieldLikes]),
			Comments:  parseCount(fields[fieldComments]),
			Bookmarks: parseCount(fields[fieldBookmarks]),
		}
	}
	return result, nil
}

// parseCount parses a hash field value, treating absent or malformed values
// as zero. Negative stored values clamp to zero.
func parseCount(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
