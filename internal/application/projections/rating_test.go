package projections

import (
	"math"
	"testing"

	"campuspulse/internal/domain/event"
)

// TestAverageRating verifies the mean and the empty state.
func TestAverageRating(t *testing.T) {
	tests := []struct {
		name        string
		ratings     []int
		wantAvg     float64
		wantDisplay string
	}{
		{"none", nil, 0, NoRatingsLabel},
		{"three", []int{5, 3, 4}, 4, "4.0"},
		{"fractional", []int{5, 4}, 4.5, "4.5"},
		{"thirds", []int{5, 5, 4}, 14.0 / 3, "4.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reviews []event.Review
			for _, r := range tt.ratings {
				reviews = append(reviews, event.Review{Rating: r})
			}
			got := AverageRating(reviews)
			if math.IsNaN(got.Average) || got.Average != tt.wantAvg {
				t.Errorf("Average = %v, want %v", got.Average, tt.wantAvg)
			}
			if got.Count != len(tt.ratings) || got.Has != (len(tt.ratings) > 0) {
				t.Errorf("Count/Has = %d/%v", got.Count, got.Has)
			}
			if got.Display() != tt.wantDisplay {
				t.Errorf("Display() = %q, want %q", got.Display(), tt.wantDisplay)
			}
		})
	}
}
