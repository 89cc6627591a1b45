package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/phronisis/core/artifact"
)

type ArtifactRepository struct {
	db *sqlx.DB
}

var _ artifact.Repository = (*ArtifactRepository)(nil) // interface compliance check

func NewArtifactRepository(db *sql.DB) *ArtifactRepository {
	return &ArtifactRepository{db: wrap(db)}
}

type artifactRow struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	PerspectiveSlug string    `db:"perspective_slug"`
	Title           string    `db:"title"`
	BodyText        string    `db:"body_text"`
	CreatedAt       null.Time `db:"created_at"`
}

func (r artifactRow) toArtifact() artifact.Artifact {
	return artifact.Artifact{
		ID:              r.ID,
		UserID:          r.UserID,
		PerspectiveSlug: r.PerspectiveSlug,
		Title:           r.Title,
		BodyText:        r.BodyText,
		CreatedAt:       r.CreatedAt.Time,
	}
}

func (repo *ArtifactRepository) CreateArtifact(ctx context.Context, art artifact.Artifact) (artifact.Artifact, error) {
	art.ID = newID()
	q := `INSERT INTO artifact (id, user_id, perspective_slug, title, body_text, created_at)
	      VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, q,
		art.ID, art.UserID, art.PerspectiveSlug, art.Title, art.BodyText, art.CreatedAt)
	if err != nil {
		return artifact.Artifact{}, errors.Wrap(err, "creating artifact")
	}
	return art, nil
}

func (repo *ArtifactRepository) GetArtifactByID(ctx context.Context, id string) (artifact.Artifact, error) {
	var row artifactRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM artifact WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return artifact.Artifact{}, artifact.ErrNotFound
		}
		return artifact.Artifact{}, errors.Wrap(err, "finding artifact")
	}
	return row.toArtifact(), nil
}

func (repo *ArtifactRepository) QueryUserArtifacts(ctx context.Context, userID string) ([]artifact.Artifact, error) {
	var rows []artifactRow
	q := `SELECT * FROM artifact WHERE user_id = $1 ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying user artifacts")
	}
	artifacts := make([]artifact.Artifact, 0, len(rows))
	for _, row := range rows {
		artifacts = append(artifacts, row.toArtifact())
	}
	return artifacts, nil
}
