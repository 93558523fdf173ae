package ranking

import (
	"math"

	"github.com/KrishnaGrg1/Roamly-Backend/internal/post"
)

// Engagement interaction weights. Bookmarks signal the highest intent,
// likes the weakest.
const (
	weightBookmark = 5
	weightComment  = 3
	weightLike     = 1
)

// engagementLogScale converts the compressed log value to the [0, 100] range.
const engagementLogScale = 15

// EngagementScore rates social proof from weighted interaction counts on a
// [0, 100] scale. The raw weighted sum is compressed logarithmically so a
// single viral post (huge like count) cannot dominate posts with deliberate,
// high-intent engagement. The +1 guards against ln(0).
func EngagementScore(counts post.EngagementCounts) float64 {
	raw := float64(counts.Bookmarks*weightBookmark +
		counts.Comments*weightComment +
		counts.Likes*weightLike)

	normalized := math.Log(raw+1) * engagementLogScale

	return math.Min(normalized, 100)
}
