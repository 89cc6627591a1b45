package progress_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/phronisis/core"
	"github.com/trezcool/phronisis/core/content"
	"github.com/trezcool/phronisis/core/event"
	"github.com/trezcool/phronisis/core/progress"
	inmemdb "github.com/trezcool/phronisis/storage/database/inmem"
	testutil "github.com/trezcool/phronisis/tests"
)

var testPerspective = content.Perspective{
	Slug:    "understanding-arguments",
	Title:   "Understanding Arguments",
	Summary: "Learn to identify arguments.",
	Order:   1,
	Lessons: []content.Lesson{
		{
			ID:    "what-is-an-argument",
			Title: "What is an Argument?",
			QuickChecks: []content.QuickCheck{
				{
					Question:    "Which of these is an argument?",
					Choices:     []string{"A", "B", "C"},
					AnswerIndex: 1,
					Feedback:    []string{"No.", "Yes!", "No."},
				},
			},
			Minigame: &content.Minigame{
				Type:          content.MinigameChoice,
				Options:       []string{"Yes", "No"},
				CorrectOption: "Yes",
				Explanation:   "It gives a reason for a conclusion.",
			},
		},
		{
			ID:    "premises-and-conclusions",
			Title: "Premises and Conclusions",
			Minigame: &content.Minigame{
				Type: content.MinigameSlider,
			},
		},
		{ID: "evaluating-arguments", Title: "Evaluating Arguments"},
	},
}

func setup(t *testing.T) (*progress.Service, progress.Repository, event.Repository) {
	t.Helper()

	dir := t.TempDir()
	data, err := json.Marshal(testPerspective)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, testPerspective.Slug+".json"), data, 0o644))

	logger := testutil.NewLogger()
	contentSvc, err := content.NewService(content.NewLoader(dir, logger), logger, nil)
	require.NoError(t, err)

	db := inmemdb.NewDB()
	progRepo := inmemdb.NewProgressRepository(db)
	eventRepo := inmemdb.NewEventRepository(db)
	eventSvc := event.NewService(eventRepo, logger, nil)

	return progress.NewService(progRepo, contentSvc, eventSvc), progRepo, eventRepo
}

func lastEvent(t *testing.T, repo event.Repository) event.Event {
	t.Helper()

	events, err := repo.QueryRecentEvents(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	return events[0]
}

func TestService_Start(t *testing.T) {
	svc, _, eventRepo := setup(t)
	ctx := context.Background()

	t.Run("unknown lesson", func(t *testing.T) {
		_, err := svc.Start(ctx, "u1", testPerspective.Slug, "nope")
		assert.Equal(t, content.ErrLessonNotFound, errors.Cause(err))
	})

	t.Run("first visit creates a started record", func(t *testing.T) {
		prog, err := svc.Start(ctx, "u1", testPerspective.Slug, "what-is-an-argument")
		require.NoError(t, err)
		assert.Equal(t, progress.StatusStarted, prog.Status)
		assert.Equal(t, event.TypeLessonStarted, lastEvent(t, eventRepo).Type)

		// revisiting reuses the record
		again, err := svc.Start(ctx, "u1", testPerspective.Slug, "what-is-an-argument")
		require.NoError(t, err)
		assert.Equal(t, prog.ID, again.ID)
	})
}

func TestService_SubmitQuiz(t *testing.T) {
	svc, progRepo, eventRepo := setup(t)
	ctx := context.Background()
	slug, lesson := testPerspective.Slug, "what-is-an-argument"

	t.Run("out of range inputs", func(t *testing.T) {
		var vErr *core.ValidationError
		_, err := svc.SubmitQuiz(ctx, "u1", slug, lesson, 5, 0)
		assert.ErrorAs(t, err, &vErr)
		_, err = svc.SubmitQuiz(ctx, "u1", slug, lesson, 0, 9)
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("correct answer scores 100", func(t *testing.T) {
		res, err := svc.SubmitQuiz(ctx, "u1", slug, lesson, 0, 1)
		require.NoError(t, err)
		assert.True(t, res.Correct)
		assert.Equal(t, 100, res.Score)
		assert.Equal(t, 1, res.CorrectAnswer)
		assert.Equal(t, []string{"No.", "Yes!", "No."}, res.Feedback)
		assert.Equal(t, event.TypeQuizAttempted, lastEvent(t, eventRepo).Type)
	})

	t.Run("wrong retry never lowers the stored score", func(t *testing.T) {
		res, err := svc.SubmitQuiz(ctx, "u1", slug, lesson, 0, 2)
		require.NoError(t, err)
		assert.False(t, res.Correct)
		assert.Equal(t, 0, res.Score)

		prog, err := progRepo.GetProgress(ctx, "u1", slug, lesson)
		require.NoError(t, err)
		assert.Equal(t, 100, prog.Score)
	})
}

func TestService_SubmitMinigame(t *testing.T) {
	svc, _, eventRepo := setup(t)
	ctx := context.Background()
	slug := testPerspective.Slug

	t.Run("choice game is graded", func(t *testing.T) {
		res, err := svc.SubmitMinigame(ctx, "u1", slug, "what-is-an-argument", progress.MinigameInput{Choice: "Yes"})
		require.NoError(t, err)
		assert.True(t, res.Graded)
		assert.True(t, res.Correct)
		assert.Equal(t, "It gives a reason for a conclusion.", res.Explanation)
		assert.Equal(t, event.TypeMinigamePlayed, lastEvent(t, eventRepo).Type)

		res, err = svc.SubmitMinigame(ctx, "u2", slug, "what-is-an-argument", progress.MinigameInput{Choice: "No"})
		require.NoError(t, err)
		assert.True(t, res.Graded)
		assert.False(t, res.Correct)
	})

	t.Run("slider game is recorded ungraded", func(t *testing.T) {
		res, err := svc.SubmitMinigame(ctx, "u1", slug, "premises-and-conclusions", progress.MinigameInput{SliderValue: "7"})
		require.NoError(t, err)
		assert.False(t, res.Graded)
		assert.Equal(t, "7", res.Selected)
	})

	t.Run("lesson without minigame", func(t *testing.T) {
		var vErr *core.ValidationError
		_, err := svc.SubmitMinigame(ctx, "u1", slug, "evaluating-arguments", progress.MinigameInput{Choice: "Yes"})
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestService_CompleteAndPercent(t *testing.T) {
	svc, _, eventRepo := setup(t)
	ctx := context.Background()
	slug := testPerspective.Slug

	percent := func(t *testing.T) int {
		p, err := svc.PerspectivePercent(ctx, "u1", testPerspective)
		require.NoError(t, err)
		return p
	}

	assert.Equal(t, 0, percent(t))

	prog, err := svc.Complete(ctx, "u1", slug, "what-is-an-argument")
	require.NoError(t, err)
	assert.Equal(t, progress.StatusCompleted, prog.Status)
	assert.Equal(t, event.TypeLessonCompleted, lastEvent(t, eventRepo).Type)
	assert.Equal(t, 33, percent(t)) // 1 of 3

	// completing again is a no-op
	_, err = svc.Complete(ctx, "u1", slug, "what-is-an-argument")
	require.NoError(t, err)
	assert.Equal(t, 33, percent(t))

	_, err = svc.Complete(ctx, "u1", slug, "premises-and-conclusions")
	require.NoError(t, err)
	assert.Equal(t, 67, percent(t)) // 2 of 3

	_, err = svc.Complete(ctx, "u1", slug, "evaluating-arguments")
	require.NoError(t, err)
	assert.Equal(t, 100, percent(t))

	t.Run("empty perspective", func(t *testing.T) {
		p, err := svc.PerspectivePercent(ctx, "u1", content.Perspective{Slug: "empty"})
		require.NoError(t, err)
		assert.Equal(t, 0, p)
	})
}

func TestService_MarkChallengeCompleted(t *testing.T) {
	svc, progRepo, _ := setup(t)
	ctx := context.Background()
	slug := testPerspective.Slug

	require.NoError(t, svc.MarkChallengeCompleted(ctx, "u1", slug))
	prog, err := progRepo.GetProgress(ctx, "u1", slug, progress.ChallengeLessonID)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusCompleted, prog.Status)

	// idempotent
	require.NoError(t, svc.MarkChallengeCompleted(ctx, "u1", slug))

	// the pseudo lesson does not count towards the percent
	p, err := svc.PerspectivePercent(ctx, "u1", testPerspective)
	require.NoError(t, err)
	assert.Equal(t, 0, p)
}
