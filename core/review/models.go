package review

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/phronisis/core"
)

// Rubric score bounds (inclusive).
const (
	ScoreMin = 1
	ScoreMax = 5
)

// PeerReview is one reviewer's structured feedback on an artifact.
// (ArtifactID, ReviewerID) is unique.
type PeerReview struct {
	ID         string    `json:"id"`
	ArtifactID string    `json:"artifact_id"`
	ReviewerID string    `json:"reviewer_id"`
	Clarity    int       `json:"clarity"`
	Logic      int       `json:"logic"`
	Fairness   int       `json:"fairness"`
	Comments   string    `json:"comments,omitempty"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// NewReview contains information needed to submit a PeerReview.
type NewReview struct {
	ArtifactID string `json:"artifact_id" validate:"required"`
	Clarity    int    `json:"clarity" validate:"required,min=1,max=5"`
	Logic      int    `json:"logic" validate:"required,min=1,max=5"`
	Fairness   int    `json:"fairness" validate:"required,min=1,max=5"`
	Comments   string `json:"comments"`
}

func (nr *NewReview) Validate(validate *validator.Validate) error {
	nr.Comments = core.CleanString(nr.Comments)
	return validate.Struct(nr)
}

// Summary aggregates all reviews received by an artifact: per-dimension
// arithmetic means plus an overall mean of the three dimensions.
type Summary struct {
	ArtifactID  string  `json:"artifact_id"`
	ReviewCount int     `json:"review_count"`
	Clarity     float64 `json:"clarity"`
	Logic       float64 `json:"logic"`
	Fairness    float64 `json:"fairness"`
	Overall     float64 `json:"overall"`
	Passed      bool    `json:"passed"`
}

// Summarize aggregates reviews into a Summary against the given gate config.
func Summarize(artifactID string, reviews []PeerReview, conf core.ReviewConfig) Summary {
	s := Summary{ArtifactID: artifactID, ReviewCount: len(reviews)}
	if len(reviews) == 0 {
		return s
	}

	var clarity, logic, fairness int
	for _, rev := range reviews {
		clarity += rev.Clarity
		logic += rev.Logic
		fairness += rev.Fairness
	}
	n := float64(len(reviews))
	s.Clarity = round2(float64(clarity) / n)
	s.Logic = round2(float64(logic) / n)
	s.Fairness = round2(float64(fairness) / n)
	s.Overall = round2((s.Clarity + s.Logic + s.Fairness) / 3)
	s.Passed = s.ReviewCount >= conf.MinReviews && s.Overall >= conf.PassScore
	return s
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
