// Package inmemdb provides in-memory repository implementations for tests.
package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/phronisis/core/artifact"
	"github.com/trezcool/phronisis/core/event"
	"github.com/trezcool/phronisis/core/progress"
	"github.com/trezcool/phronisis/core/review"
	"github.com/trezcool/phronisis/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users     map[string]*user.User
	progress  map[string]*progress.Progress
	artifacts map[string]*artifact.Artifact
	reviews   map[string]*review.PeerReview
	events    []event.Event
}

func NewDB() *DB {
	return &DB{
		users:     make(map[string]*user.User),
		progress:  make(map[string]*progress.Progress),
		artifacts: make(map[string]*artifact.Artifact),
		reviews:   make(map[string]*review.PeerReview),
	}
}

// Reset empties all tables.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.users = make(map[string]*user.User)
	db.progress = make(map[string]*progress.Progress)
	db.artifacts = make(map[string]*artifact.Artifact)
	db.reviews = make(map[string]*review.PeerReview)
	db.events = nil
}

func newPK() string {
	return uuid.NewString()
}
