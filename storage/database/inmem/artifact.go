package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/phronisis/core/artifact"
)

type artifactRepository struct {
	db *DB
}

var _ artifact.Repository = (*artifactRepository)(nil)

func NewArtifactRepository(db *DB) artifact.Repository {
	return &artifactRepository{db: db}
}

func (repo *artifactRepository) CreateArtifact(_ context.Context, art artifact.Artifact) (artifact.Artifact, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	art.ID = newPK()
	repo.db.artifacts[art.ID] = &art
	return art, nil
}

func (repo *artifactRepository) GetArtifactByID(_ context.Context, id string) (artifact.Artifact, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if art, ok := repo.db.artifacts[id]; ok {
		return *art, nil
	}
	return artifact.Artifact{}, artifact.ErrNotFound
}

func (repo *artifactRepository) QueryUserArtifacts(_ context.Context, userID string) ([]artifact.Artifact, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	arts := make([]artifact.Artifact, 0)
	for _, art := range repo.db.artifacts {
		if art.UserID == userID {
			arts = append(arts, *art)
		}
	}
	sort.Slice(arts, func(i, j int) bool { return arts[i].CreatedAt.After(arts[j].CreatedAt) })
	return arts, nil
}
