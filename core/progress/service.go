package progress

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/phronisis/core"
	"github.com/trezcool/phronisis/core/content"
	"github.com/trezcool/phronisis/core/event"
)

var (
	// errors
	ErrNotFound       = errors.New("progress not found")
	ErrInvalidAnswer  = errors.New("invalid answer")
	ErrNoSuchMinigame = errors.New("lesson has no minigame")
)

const quizMaxScore = 100

type (
	Repository interface {
		GetProgress(ctx context.Context, userID, perspectiveSlug, lessonID string) (Progress, error)
		CreateProgress(ctx context.Context, prog Progress) (Progress, error)
		UpdateProgress(ctx context.Context, prog Progress) (Progress, error)
		QueryUserProgress(ctx context.Context, userID, perspectiveSlug string) ([]Progress, error)
		// CountCompleted counts completed lesson records, excluding the
		// ChallengeLessonID pseudo-lesson.
		CountCompleted(ctx context.Context, userID, perspectiveSlug string) (int, error)
	}

	ServiceInterface interface {
		Start(ctx context.Context, userID, perspectiveSlug, lessonID string) (Progress, error)
		SubmitQuiz(ctx context.Context, userID, perspectiveSlug, lessonID string, checkIdx, answer int) (QuizResult, error)
		SubmitMinigame(ctx context.Context, userID, perspectiveSlug, lessonID string, in MinigameInput) (MinigameResult, error)
		Complete(ctx context.Context, userID, perspectiveSlug, lessonID string) (Progress, error)
		ForPerspective(ctx context.Context, userID, perspectiveSlug string) (map[string]Progress, error)
		PerspectivePercent(ctx context.Context, userID string, p content.Perspective) (int, error)
		MarkChallengeCompleted(ctx context.Context, userID, perspectiveSlug string) error
	}

	Service struct {
		repo       Repository
		contentSvc content.ServiceInterface
		eventSvc   event.ServiceInterface
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, contentSvc content.ServiceInterface, eventSvc event.ServiceInterface) *Service {
	return &Service{repo: repo, contentSvc: contentSvc, eventSvc: eventSvc}
}

// Start ensures a progress record exists for the lesson, creating a
// `started` one (and logging lesson_started) on first visit.
func (svc *Service) Start(ctx context.Context, userID, perspectiveSlug, lessonID string) (Progress, error) {
	if _, _, err := svc.contentSvc.GetLesson(perspectiveSlug, lessonID); err != nil {
		return Progress{}, err
	}

	prog, err := svc.repo.GetProgress(ctx, userID, perspectiveSlug, lessonID)
	if err == nil {
		return prog, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Progress{}, err
	}

	prog, err = svc.repo.CreateProgress(ctx, Progress{
		UserID:          userID,
		PerspectiveSlug: perspectiveSlug,
		LessonID:        lessonID,
		Status:          StatusStarted,
		UpdatedAt:       time.Now().UTC(),
	})
	if err != nil {
		return Progress{}, err
	}
	svc.eventSvc.Log(ctx, userID, event.TypeLessonStarted, perspectiveSlug, lessonID, nil)
	return prog, nil
}

// SubmitQuiz grades a quick check answer. A correct answer scores 100;
// the stored score never decreases across attempts.
func (svc *Service) SubmitQuiz(ctx context.Context, userID, perspectiveSlug, lessonID string, checkIdx, answer int) (QuizResult, error) {
	_, lesson, err := svc.contentSvc.GetLesson(perspectiveSlug, lessonID)
	if err != nil {
		return QuizResult{}, err
	}
	if checkIdx < 0 || checkIdx >= len(lesson.QuickChecks) {
		return QuizResult{}, core.NewValidationError(ErrInvalidAnswer, core.FieldError{Field: "check_idx", Error: "no such quick check"})
	}
	check := lesson.QuickChecks[checkIdx]
	if answer < 0 || answer >= len(check.Choices) {
		return QuizResult{}, core.NewValidationError(ErrInvalidAnswer, core.FieldError{Field: "answer", Error: "answer out of range"})
	}

	prog, err := svc.Start(ctx, userID, perspectiveSlug, lessonID)
	if err != nil {
		return QuizResult{}, err
	}

	correct := answer == check.AnswerIndex
	score := 0
	if correct {
		score = quizMaxScore
	}
	if score > prog.Score {
		prog.Score = score
	}
	prog.UpdatedAt = time.Now().UTC()
	if _, err = svc.repo.UpdateProgress(ctx, prog); err != nil {
		return QuizResult{}, err
	}

	svc.eventSvc.Log(ctx, userID, event.TypeQuizAttempted, perspectiveSlug, lessonID, map[string]interface{}{
		"check_idx": checkIdx,
		"correct":   correct,
		"score":     score,
	})

	return QuizResult{
		Correct:       correct,
		Selected:      answer,
		CorrectAnswer: check.AnswerIndex,
		Score:         score,
		Feedback:      check.Feedback,
	}, nil
}

// SubmitMinigame grades choice minigames against the correct option and
// records slider values ungraded.
func (svc *Service) SubmitMinigame(ctx context.Context, userID, perspectiveSlug, lessonID string, in MinigameInput) (MinigameResult, error) {
	_, lesson, err := svc.contentSvc.GetLesson(perspectiveSlug, lessonID)
	if err != nil {
		return MinigameResult{}, err
	}
	mg := lesson.Minigame
	if mg == nil {
		return MinigameResult{}, core.NewValidationError(ErrNoSuchMinigame)
	}

	if _, err = svc.Start(ctx, userID, perspectiveSlug, lessonID); err != nil {
		return MinigameResult{}, err
	}

	switch mg.Type {
	case content.MinigameChoice:
		correct := in.Choice == mg.CorrectOption
		svc.eventSvc.Log(ctx, userID, event.TypeMinigamePlayed, perspectiveSlug, lessonID, map[string]interface{}{
			"game_type": mg.Type,
			"selected":  in.Choice,
			"correct":   correct,
		})
		return MinigameResult{
			Graded:      true,
			Correct:     correct,
			Selected:    in.Choice,
			Explanation: mg.Explanation,
		}, nil

	case content.MinigameSlider:
		svc.eventSvc.Log(ctx, userID, event.TypeMinigamePlayed, perspectiveSlug, lessonID, map[string]interface{}{
			"game_type": mg.Type,
			"value":     in.SliderValue,
		})
		return MinigameResult{Selected: in.SliderValue}, nil

	default:
		return MinigameResult{}, core.NewValidationError(errors.Errorf("unknown minigame type %q", mg.Type))
	}
}

// Complete marks the lesson completed and logs lesson_completed.
func (svc *Service) Complete(ctx context.Context, userID, perspectiveSlug, lessonID string) (Progress, error) {
	prog, err := svc.Start(ctx, userID, perspectiveSlug, lessonID)
	if err != nil {
		return Progress{}, err
	}
	if prog.Status == StatusCompleted {
		return prog, nil
	}

	prog.Status = StatusCompleted
	prog.UpdatedAt = time.Now().UTC()
	prog, err = svc.repo.UpdateProgress(ctx, prog)
	if err != nil {
		return Progress{}, err
	}
	svc.eventSvc.Log(ctx, userID, event.TypeLessonCompleted, perspectiveSlug, lessonID, nil)
	return prog, nil
}

// ForPerspective returns the user's progress keyed by lesson id.
func (svc *Service) ForPerspective(ctx context.Context, userID, perspectiveSlug string) (map[string]Progress, error) {
	records, err := svc.repo.QueryUserProgress(ctx, userID, perspectiveSlug)
	if err != nil {
		return nil, err
	}
	byLesson := make(map[string]Progress, len(records))
	for _, prog := range records {
		byLesson[prog.LessonID] = prog
	}
	return byLesson, nil
}

// PerspectivePercent computes the completion percentage for a perspective.
func (svc *Service) PerspectivePercent(ctx context.Context, userID string, p content.Perspective) (int, error) {
	total := len(p.Lessons)
	if total == 0 {
		return 0, nil
	}
	completed, err := svc.repo.CountCompleted(ctx, userID, p.Slug)
	if err != nil {
		return 0, err
	}
	if completed > total {
		completed = total
	}
	return int(math.Round(100 * float64(completed) / float64(total))), nil
}

// MarkChallengeCompleted records the creator challenge as completed for the
// user. It is idempotent; the review gate calls it on every pass evaluation.
func (svc *Service) MarkChallengeCompleted(ctx context.Context, userID, perspectiveSlug string) error {
	prog, err := svc.repo.GetProgress(ctx, userID, perspectiveSlug, ChallengeLessonID)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			return err
		}
		_, err = svc.repo.CreateProgress(ctx, Progress{
			UserID:          userID,
			PerspectiveSlug: perspectiveSlug,
			LessonID:        ChallengeLessonID,
			Status:          StatusCompleted,
			Score:           quizMaxScore,
			UpdatedAt:       time.Now().UTC(),
		})
		return err
	}

	if prog.Status == StatusCompleted {
		return nil
	}
	prog.Status = StatusCompleted
	prog.Score = quizMaxScore
	prog.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateProgress(ctx, prog)
	return err
}
