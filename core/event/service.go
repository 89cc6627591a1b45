package event

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/phronisis/core"
)

// RecentLimit caps admin event listings.
const RecentLimit = 100

// maxStreak caps the dashboard streak counter.
const maxStreak = 7

type (
	Repository interface {
		CreateEvent(ctx context.Context, ev Event) (Event, error)
		// QueryRecentEvents returns the newest events first, up to limit.
		QueryRecentEvents(ctx context.Context, limit int) ([]Event, error)
		CountUserEventsSince(ctx context.Context, userID string, since time.Time) (int, error)
	}

	ServiceInterface interface {
		Log(ctx context.Context, userID, eventType, perspectiveSlug, lessonID string, meta map[string]interface{})
		Recent(ctx context.Context) ([]Event, error)
		Streak(ctx context.Context, userID string) (int, error)
	}

	// MetricsRecorder counts logged events; nil disables recording.
	MetricsRecorder interface {
		RecordEventLogged(eventType string)
	}

	Service struct {
		repo    Repository
		logger  core.Logger
		metrics MetricsRecorder
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, logger core.Logger, metrics MetricsRecorder) *Service {
	return &Service{repo: repo, logger: logger, metrics: metrics}
}

// Log appends an analytics event. Logging is best-effort: a failure is
// reported but never propagated to the calling flow.
func (svc *Service) Log(ctx context.Context, userID, eventType, perspectiveSlug, lessonID string, meta map[string]interface{}) {
	ev := Event{
		UserID:          userID,
		Type:            eventType,
		PerspectiveSlug: perspectiveSlug,
		LessonID:        lessonID,
		Meta:            meta,
		CreatedAt:       time.Now().UTC(),
	}
	if _, err := svc.repo.CreateEvent(ctx, ev); err != nil {
		svc.logger.Error(fmt.Sprintf("logging event %s: %v", eventType, err), err)
		return
	}
	if svc.metrics != nil {
		svc.metrics.RecordEventLogged(eventType)
	}
}

func (svc *Service) Recent(ctx context.Context) ([]Event, error) {
	return svc.repo.QueryRecentEvents(ctx, RecentLimit)
}

// Streak counts the user's events since midnight UTC, capped at 7.
func (svc *Service) Streak(ctx context.Context, userID string) (int, error) {
	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	count, err := svc.repo.CountUserEventsSince(ctx, userID, midnight)
	if err != nil {
		return 0, err
	}
	if count > maxStreak {
		return maxStreak, nil
	}
	return count, nil
}
