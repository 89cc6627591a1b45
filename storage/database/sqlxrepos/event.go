package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/phronisis/core/event"
)

type EventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*EventRepository)(nil) // interface compliance check

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: wrap(db)}
}

type eventRow struct {
	ID              string      `db:"id"`
	UserID          string      `db:"user_id"`
	Type            string      `db:"type"`
	PerspectiveSlug null.String `db:"perspective_slug"`
	LessonID        null.String `db:"lesson_id"`
	Meta            null.JSON   `db:"meta"`
	CreatedAt       null.Time   `db:"created_at"`
}

func (r eventRow) toEvent() event.Event {
	ev := event.Event{
		ID:              r.ID,
		UserID:          r.UserID,
		Type:            r.Type,
		PerspectiveSlug: r.PerspectiveSlug.String,
		LessonID:        r.LessonID.String,
		CreatedAt:       r.CreatedAt.Time,
	}
	if r.Meta.Valid {
		_ = json.Unmarshal(r.Meta.JSON, &ev.Meta)
	}
	return ev
}

func (repo *EventRepository) CreateEvent(ctx context.Context, ev event.Event) (event.Event, error) {
	ev.ID = newID()

	var meta null.JSON
	if ev.Meta != nil {
		data, err := json.Marshal(ev.Meta)
		if err != nil {
			return event.Event{}, errors.Wrap(err, "marshalling event meta")
		}
		meta = null.JSONFrom(data)
	}

	q := `INSERT INTO event (id, user_id, type, perspective_slug, lesson_id, meta, created_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, q,
		ev.ID, ev.UserID, ev.Type,
		null.NewString(ev.PerspectiveSlug, ev.PerspectiveSlug != ""),
		null.NewString(ev.LessonID, ev.LessonID != ""),
		meta, ev.CreatedAt)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "creating event")
	}
	return ev, nil
}

func (repo *EventRepository) QueryRecentEvents(ctx context.Context, limit int) ([]event.Event, error) {
	var rows []eventRow
	q := `SELECT * FROM event ORDER BY created_at DESC LIMIT $1`
	if err := repo.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, errors.Wrap(err, "querying recent events")
	}
	events := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toEvent())
	}
	return events, nil
}

func (repo *EventRepository) CountUserEventsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	q := `SELECT COUNT(*) FROM event WHERE user_id = $1 AND created_at >= $2`
	if err := repo.db.GetContext(ctx, &count, q, userID, since); err != nil {
		return 0, errors.Wrap(err, "counting user events")
	}
	return count, nil
}
