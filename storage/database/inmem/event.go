package inmemdb

import (
	"context"
	"time"

	"github.com/trezcool/phronisis/core/event"
)

type eventRepository struct {
	db *DB
}

var _ event.Repository = (*eventRepository)(nil)

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) CreateEvent(_ context.Context, ev event.Event) (event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ev.ID = newPK()
	repo.db.events = append(repo.db.events, ev)
	return ev, nil
}

func (repo *eventRepository) QueryRecentEvents(_ context.Context, limit int) ([]event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	events := make([]event.Event, 0, limit)
	for i := len(repo.db.events) - 1; i >= 0 && len(events) < limit; i-- {
		events = append(events, repo.db.events[i])
	}
	return events, nil
}

func (repo *eventRepository) CountUserEventsSince(_ context.Context, userID string, since time.Time) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, ev := range repo.db.events {
		if ev.UserID == userID && !ev.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
