package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/phronisis/core/progress"
)

type ProgressRepository struct {
	db *sqlx.DB
}

var _ progress.Repository = (*ProgressRepository)(nil) // interface compliance check

func NewProgressRepository(db *sql.DB) *ProgressRepository {
	return &ProgressRepository{db: wrap(db)}
}

type progressRow struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	PerspectiveSlug string    `db:"perspective_slug"`
	LessonID        string    `db:"lesson_id"`
	Status          string    `db:"status"`
	Score           int       `db:"score"`
	UpdatedAt       null.Time `db:"updated_at"`
}

func (r progressRow) toProgress() progress.Progress {
	return progress.Progress{
		ID:              r.ID,
		UserID:          r.UserID,
		PerspectiveSlug: r.PerspectiveSlug,
		LessonID:        r.LessonID,
		Status:          r.Status,
		Score:           r.Score,
		UpdatedAt:       r.UpdatedAt.Time,
	}
}

func (repo *ProgressRepository) GetProgress(ctx context.Context, userID, perspectiveSlug, lessonID string) (progress.Progress, error) {
	var row progressRow
	q := `SELECT * FROM progress WHERE user_id = $1 AND perspective_slug = $2 AND lesson_id = $3`
	if err := repo.db.GetContext(ctx, &row, q, userID, perspectiveSlug, lessonID); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return progress.Progress{}, progress.ErrNotFound
		}
		return progress.Progress{}, errors.Wrap(err, "finding progress")
	}
	return row.toProgress(), nil
}

func (repo *ProgressRepository) CreateProgress(ctx context.Context, prog progress.Progress) (progress.Progress, error) {
	prog.ID = newID()
	q := `INSERT INTO progress (id, user_id, perspective_slug, lesson_id, status, score, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, q,
		prog.ID, prog.UserID, prog.PerspectiveSlug, prog.LessonID, prog.Status, prog.Score, prog.UpdatedAt)
	if err != nil {
		return progress.Progress{}, errors.Wrap(err, "creating progress")
	}
	return prog, nil
}

func (repo *ProgressRepository) UpdateProgress(ctx context.Context, prog progress.Progress) (progress.Progress, error) {
	q := `UPDATE progress SET status = $1, score = $2, updated_at = $3 WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, q, prog.Status, prog.Score, prog.UpdatedAt, prog.ID)
	if err != nil {
		return progress.Progress{}, errors.Wrap(err, "updating progress")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return progress.Progress{}, progress.ErrNotFound
	}
	return prog, nil
}

func (repo *ProgressRepository) QueryUserProgress(ctx context.Context, userID, perspectiveSlug string) ([]progress.Progress, error) {
	var rows []progressRow
	q := `SELECT * FROM progress WHERE user_id = $1 AND perspective_slug = $2`
	if err := repo.db.SelectContext(ctx, &rows, q, userID, perspectiveSlug); err != nil {
		return nil, errors.Wrap(err, "querying user progress")
	}
	records := make([]progress.Progress, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toProgress())
	}
	return records, nil
}

func (repo *ProgressRepository) CountCompleted(ctx context.Context, userID, perspectiveSlug string) (int, error) {
	var count int
	q := `SELECT COUNT(*) FROM progress
	      WHERE user_id = $1 AND perspective_slug = $2 AND status = $3 AND lesson_id <> $4`
	err := repo.db.GetContext(ctx, &count, q, userID, perspectiveSlug, progress.StatusCompleted, progress.ChallengeLessonID)
	if err != nil {
		return 0, errors.Wrap(err, "counting completed lessons")
	}
	return count, nil
}
