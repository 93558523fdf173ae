package ranking

import (
	"math"
	"testing"

	"github.com/KrishnaGrg1/Roamly-Backend/internal/post"
)

// TestEngagementScore tests weighted log compression of interaction counts.
func TestEngagementScore(t *testing.T) {
	tests := []struct {
		name     string
		counts   post.EngagementCounts
		expected float64
	}{
		{
			name:     "no engagement scores zero",
			counts:   post.EngagementCounts{},
			expected: 0,
		},
		{
			name:     "single like",
			counts:   post.EngagementCounts{Likes: 1},
			expected: math.Log(2) * 15,
		},
		{
			name:     "mixed engagement",
			counts:   post.EngagementCounts{Likes: 10, Comments: 5, Bookmarks: 2},
			expected: math.Log(10*1+5*3+2*5+1) * 15,
		},
		{
			name:     "viral post clamps at 100",
			counts:   post.EngagementCounts{Likes: 10_000_000},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EngagementScore(tt.counts)
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("EngagementScore() = %f, want %f", got, tt.expected)
			}
			if got < 0 || got > 100 {
				t.Errorf("score %f outside [0, 100]", got)
			}
		})
	}
}

// TestEngagementScoreStrictlyIncreasing verifies any single count increase
// raises the score (below the clamp).
func TestEngagementScoreStrictlyIncreasing(t *testing.T) {
	base := post.EngagementCounts{Likes: 3, Comments: 2, Bookmarks: 1}
	baseScore := EngagementScore(base)

	bumps := []struct {
		name   string
		counts post.EngagementCounts
	}{
		{name: "more likes", counts: post.EngagementCounts{Likes: 4, Comments: 2, Bookmarks: 1}},
		{name: "more comments", counts: post.EngagementCounts{Likes: 3, Comments: 3, Bookmarks: 1}},
		{name: "more bookmarks", counts: post.EngagementCounts{Likes: 3, Comments: 2, Bookmarks: 2}},
	}

	for _, tt := range bumps {
		t.Run(tt.name, func(t *testing.T) {
			if got := EngagementScore(tt.counts); got <= baseScore {
				t.Errorf("expected score above %f, got %f", baseScore, got)
			}
		})
	}
}

// TestEngagementScoreBookmarksOutweighLikes verifies high-intent engagement
// beats an equal count of weak signals.
func TestEngagementScoreBookmarksOutweighLikes(t *testing.T) {
	bookmarked := EngagementScore(post.EngagementCounts{Bookmarks: 10})
	liked := EngagementScore(post.EngagementCounts{Likes: 10})

	if bookmarked <= liked {
		t.Errorf("10 bookmarks (%f) should outscore 10 likes (%f)", bookmarked, liked)
	}
}
