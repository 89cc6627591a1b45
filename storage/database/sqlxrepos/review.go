package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/phronisis/core/artifact"
	"github.com/trezcool/phronisis/core/review"
)

type ReviewRepository struct {
	db *sqlx.DB
}

var _ review.Repository = (*ReviewRepository)(nil) // interface compliance check

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: wrap(db)}
}

type reviewRow struct {
	ID         string      `db:"id"`
	ArtifactID string      `db:"artifact_id"`
	ReviewerID string      `db:"reviewer_id"`
	Clarity    int         `db:"clarity"`
	Logic      int         `db:"logic"`
	Fairness   int         `db:"fairness"`
	Comments   null.String `db:"comments"`
	CreatedAt  null.Time   `db:"created_at"`
}

func (r reviewRow) toReview() review.PeerReview {
	return review.PeerReview{
		ID:         r.ID,
		ArtifactID: r.ArtifactID,
		ReviewerID: r.ReviewerID,
		Clarity:    r.Clarity,
		Logic:      r.Logic,
		Fairness:   r.Fairness,
		Comments:   r.Comments.String,
		CreatedAt:  r.CreatedAt.Time,
	}
}

func toReviews(rows []reviewRow) []review.PeerReview {
	reviews := make([]review.PeerReview, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.toReview())
	}
	return reviews
}

func (repo *ReviewRepository) CreateReview(ctx context.Context, rev review.PeerReview) (review.PeerReview, error) {
	rev.ID = newID()
	q := `INSERT INTO peer_review (id, artifact_id, reviewer_id, clarity, logic, fairness, comments, created_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, q,
		rev.ID, rev.ArtifactID, rev.ReviewerID, rev.Clarity, rev.Logic, rev.Fairness,
		null.NewString(rev.Comments, rev.Comments != ""), rev.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return review.PeerReview{}, review.ErrDuplicateReview
		}
		return review.PeerReview{}, errors.Wrap(err, "creating review")
	}
	return rev, nil
}

func (repo *ReviewRepository) QueryArtifactReviews(ctx context.Context, artifactID string) ([]review.PeerReview, error) {
	var rows []reviewRow
	q := `SELECT * FROM peer_review WHERE artifact_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q, artifactID); err != nil {
		return nil, errors.Wrap(err, "querying artifact reviews")
	}
	return toReviews(rows), nil
}

func (repo *ReviewRepository) QueryReviewsReceived(ctx context.Context, ownerID string) ([]review.PeerReview, error) {
	var rows []reviewRow
	q := `SELECT r.* FROM peer_review r
	      JOIN artifact a ON a.id = r.artifact_id
	      WHERE a.user_id = $1
	      ORDER BY r.created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, ownerID); err != nil {
		return nil, errors.Wrap(err, "querying reviews received")
	}
	return toReviews(rows), nil
}

func (repo *ReviewRepository) NextArtifactForReviewer(ctx context.Context, reviewerID string) (artifact.Artifact, error) {
	var row artifactRow
	q := `SELECT a.* FROM artifact a
	      LEFT JOIN peer_review r ON r.artifact_id = a.id
	      WHERE a.user_id <> $1
	        AND NOT EXISTS (
	            SELECT 1 FROM peer_review mine
	            WHERE mine.artifact_id = a.id AND mine.reviewer_id = $1
	        )
	      GROUP BY a.id
	      ORDER BY COUNT(r.id), a.created_at
	      LIMIT 1`
	if err := repo.db.GetContext(ctx, &row, q, reviewerID); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return artifact.Artifact{}, review.ErrNoneEligible
		}
		return artifact.Artifact{}, errors.Wrap(err, "selecting next artifact")
	}
	return row.toArtifact(), nil
}
