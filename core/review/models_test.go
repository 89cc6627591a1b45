package review

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/phronisis/core"
)

func TestSummarize(t *testing.T) {
	conf := core.ReviewConfig{MinReviews: 2, PassScore: 3.0}

	tests := []struct {
		name    string
		reviews []PeerReview
		want    Summary
	}{
		{
			name: "no reviews",
			want: Summary{ArtifactID: "a1"},
		},
		{
			name:    "single review does not pass",
			reviews: []PeerReview{{Clarity: 5, Logic: 5, Fairness: 5}},
			want: Summary{
				ArtifactID:  "a1",
				ReviewCount: 1,
				Clarity:     5, Logic: 5, Fairness: 5, Overall: 5,
			},
		},
		{
			name: "two reviews pass",
			reviews: []PeerReview{
				{Clarity: 4, Logic: 3, Fairness: 5},
				{Clarity: 3, Logic: 3, Fairness: 3},
			},
			want: Summary{
				ArtifactID:  "a1",
				ReviewCount: 2,
				Clarity:     3.5, Logic: 3, Fairness: 4, Overall: 3.5,
				Passed: true,
			},
		},
		{
			name: "two low reviews fail",
			reviews: []PeerReview{
				{Clarity: 1, Logic: 2, Fairness: 2},
				{Clarity: 2, Logic: 1, Fairness: 1},
			},
			want: Summary{
				ArtifactID:  "a1",
				ReviewCount: 2,
				Clarity:     1.5, Logic: 1.5, Fairness: 1.5, Overall: 1.5,
			},
		},
		{
			name: "means round to two decimals",
			reviews: []PeerReview{
				{Clarity: 1, Logic: 5, Fairness: 3},
				{Clarity: 2, Logic: 5, Fairness: 3},
				{Clarity: 2, Logic: 5, Fairness: 3},
			},
			want: Summary{
				ArtifactID:  "a1",
				ReviewCount: 3,
				Clarity:     1.67, Logic: 5, Fairness: 3, Overall: 3.22,
				Passed: true,
			},
		},
		{
			name: "overall exactly at pass score passes",
			reviews: []PeerReview{
				{Clarity: 3, Logic: 3, Fairness: 3},
				{Clarity: 3, Logic: 3, Fairness: 3},
			},
			want: Summary{
				ArtifactID:  "a1",
				ReviewCount: 2,
				Clarity:     3, Logic: 3, Fairness: 3, Overall: 3,
				Passed: true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize("a1", tt.reviews, conf)
			assert.Equal(t, tt.want, got)
		})
	}
}
