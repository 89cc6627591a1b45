package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/phronisis/core/artifact"
	"github.com/trezcool/phronisis/core/review"
)

type reviewRepository struct {
	db *DB
}

var _ review.Repository = (*reviewRepository)(nil)

func NewReviewRepository(db *DB) review.Repository {
	return &reviewRepository{db: db}
}

func (repo *reviewRepository) CreateReview(_ context.Context, rev review.PeerReview) (review.PeerReview, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, r := range repo.db.reviews {
		if r.ArtifactID == rev.ArtifactID && r.ReviewerID == rev.ReviewerID {
			return review.PeerReview{}, review.ErrDuplicateReview
		}
	}
	rev.ID = newPK()
	repo.db.reviews[rev.ID] = &rev
	return rev, nil
}

func (repo *reviewRepository) QueryArtifactReviews(_ context.Context, artifactID string) ([]review.PeerReview, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reviews := make([]review.PeerReview, 0)
	for _, rev := range repo.db.reviews {
		if rev.ArtifactID == artifactID {
			reviews = append(reviews, *rev)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.Before(reviews[j].CreatedAt) })
	return reviews, nil
}

func (repo *reviewRepository) QueryReviewsReceived(_ context.Context, ownerID string) ([]review.PeerReview, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reviews := make([]review.PeerReview, 0)
	for _, rev := range repo.db.reviews {
		art, ok := repo.db.artifacts[rev.ArtifactID]
		if ok && art.UserID == ownerID {
			reviews = append(reviews, *rev)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	return reviews, nil
}

func (repo *reviewRepository) NextArtifactForReviewer(_ context.Context, reviewerID string) (artifact.Artifact, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reviewCounts := make(map[string]int, len(repo.db.artifacts))
	reviewedByMe := make(map[string]bool)
	for _, rev := range repo.db.reviews {
		reviewCounts[rev.ArtifactID]++
		if rev.ReviewerID == reviewerID {
			reviewedByMe[rev.ArtifactID] = true
		}
	}

	eligible := make([]artifact.Artifact, 0)
	for _, art := range repo.db.artifacts {
		if art.UserID == reviewerID || reviewedByMe[art.ID] {
			continue
		}
		eligible = append(eligible, *art)
	}
	if len(eligible) == 0 {
		return artifact.Artifact{}, review.ErrNoneEligible
	}

	// fewest reviews first, oldest first on ties
	sort.Slice(eligible, func(i, j int) bool {
		ci, cj := reviewCounts[eligible[i].ID], reviewCounts[eligible[j].ID]
		if ci != cj {
			return ci < cj
		}
		return eligible[i].CreatedAt.Before(eligible[j].CreatedAt)
	})
	return eligible[0], nil
}
