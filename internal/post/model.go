// Package post provides models and repositories for trip posts and their
// engagement counts.
package post

import (
	"errors"
	"time"
)

// Common errors for post operations.
var (
	ErrPostNotFound = errors.New("post not found")
	ErrPostDeleted  = errors.New("post has been deleted")
)

// Post represents a trip shared to the feed.
type Post struct {
	ID      string `json:"id"`
	TripID  string `json:"trip_id"`
	UserID  string `json:"user_id"`
	Caption string `json:"caption,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// EngagementCounts is a per-post tally of interactions.
// It is a derived snapshot recomputed per request; the ranking engine never
// persists or mutates it.
type EngagementCounts struct {
	Likes     int64 `json:"likes"`
	Comments  int64 `json:"comments"`
	Bookmarks int64 `json:"bookmarks"`
}
