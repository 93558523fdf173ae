package ranking

import (
	"math"
	"testing"
	"time"
)

func daysAgo(now time.Time, days float64) *time.Time {
	t := now.Add(-time.Duration(days * 24 * float64(time.Hour)))
	return &t
}

func TestFreshnessScore(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		completedAt *time.Time
		evergreen   bool
		expected    float64
	}{
		{
			name:        "never completed is neutral",
			completedAt: nil,
			expected:    50,
		},
		{
			name:        "completed just now",
			completedAt: daysAgo(now, 0),
			expected:    100,
		},
		{
			name:        "a week old still scores full marks",
			completedAt: daysAgo(now, 7),
			expected:    100,
		},
		{
			name:        "two weeks old",
			completedAt: daysAgo(now, 14),
			expected:    86, // 100 - 7*2
		},
		{
			name:        "a month old",
			completedAt: daysAgo(now, 30),
			expected:    54, // 100 - 23*2
		},
		{
			name:        "sixty days old",
			completedAt: daysAgo(now, 60),
			expected:    39, // 54 - 30*0.5
		},
		{
			name:        "ninety days old",
			completedAt: daysAgo(now, 90),
			expected:    24, // 54 - 60*0.5
		},
		{
			name:        "half a year old",
			completedAt: daysAgo(now, 180),
			expected:    15, // 24 - 90*0.1
		},
		{
			name:        "ancient content clamps at zero",
			completedAt: daysAgo(now, 10000),
			expected:    0,
		},
		{
			name:        "evergreen two weeks old decays half as fast",
			completedAt: daysAgo(now, 14),
			evergreen:   true,
			expected:    93, // 100 - 7*2*0.5
		},
		{
			name:        "evergreen sixty days old",
			completedAt: daysAgo(now, 60),
			evergreen:   true,
			expected:    46.5, // 54 - 30*0.5*0.5
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FreshnessScore(tt.completedAt, tt.evergreen, now)
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("FreshnessScore() = %f, want %f", got, tt.expected)
			}
		})
	}
}

// TestFreshnessScoreNonIncreasing checks the decay curve never rewards
// getting older, across band boundaries included.
func TestFreshnessScoreNonIncreasing(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	for _, evergreen := range []bool{false, true} {
		prev := math.Inf(1)
		for age := 0.0; age <= 400; age += 0.5 {
			got := FreshnessScore(daysAgo(now, age), evergreen, now)
			if got > prev {
				t.Fatalf("evergreen=%v: score rose from %f to %f at age %.1f days",
					evergreen, prev, got, age)
			}
			prev = got
		}
	}
}

// TestFreshnessScoreEvergreenAdvantage checks evergreen content never scores
// below its non-evergreen counterpart at the same age.
func TestFreshnessScoreEvergreenAdvantage(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	for age := 0.0; age <= 400; age += 1 {
		fast := FreshnessScore(daysAgo(now, age), false, now)
		slow := FreshnessScore(daysAgo(now, age), true, now)
		if slow < fast {
			t.Fatalf("evergreen score %f below default %f at age %.0f days", slow, fast, age)
		}
	}
}
