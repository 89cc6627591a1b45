package inmemdb

import (
	"context"

	"github.com/trezcool/phronisis/core/progress"
)

type progressRepository struct {
	db *DB
}

var _ progress.Repository = (*progressRepository)(nil)

func NewProgressRepository(db *DB) progress.Repository {
	return &progressRepository{db: db}
}

func (repo *progressRepository) GetProgress(_ context.Context, userID, perspectiveSlug, lessonID string) (progress.Progress, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, prog := range repo.db.progress {
		if prog.UserID == userID && prog.PerspectiveSlug == perspectiveSlug && prog.LessonID == lessonID {
			return *prog, nil
		}
	}
	return progress.Progress{}, progress.ErrNotFound
}

func (repo *progressRepository) CreateProgress(_ context.Context, prog progress.Progress) (progress.Progress, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	prog.ID = newPK()
	repo.db.progress[prog.ID] = &prog
	return prog, nil
}

func (repo *progressRepository) UpdateProgress(_ context.Context, prog progress.Progress) (progress.Progress, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.progress[prog.ID]
	if !ok {
		return progress.Progress{}, progress.ErrNotFound
	}
	orig.Status = prog.Status
	orig.Score = prog.Score
	orig.UpdatedAt = prog.UpdatedAt
	return *orig, nil
}

func (repo *progressRepository) QueryUserProgress(_ context.Context, userID, perspectiveSlug string) ([]progress.Progress, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]progress.Progress, 0)
	for _, prog := range repo.db.progress {
		if prog.UserID == userID && prog.PerspectiveSlug == perspectiveSlug {
			records = append(records, *prog)
		}
	}
	return records, nil
}

func (repo *progressRepository) CountCompleted(_ context.Context, userID, perspectiveSlug string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, prog := range repo.db.progress {
		if prog.UserID == userID &&
			prog.PerspectiveSlug == perspectiveSlug &&
			prog.Status == progress.StatusCompleted &&
			prog.LessonID != progress.ChallengeLessonID {
			count++
		}
	}
	return count, nil
}
