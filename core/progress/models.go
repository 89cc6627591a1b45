package progress

import "time"

// Progress statuses
const (
	StatusNotStarted = "not_started"
	StatusStarted    = "started"
	StatusCompleted  = "completed"
)

// ChallengeLessonID is the pseudo lesson id under which creator-challenge
// completion is recorded once peer reviews unlock it.
const ChallengeLessonID = "creator-challenge"

// Progress tracks one user's state on one lesson of a perspective.
// (UserID, PerspectiveSlug, LessonID) is unique.
type Progress struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	PerspectiveSlug string    `json:"perspective_slug"`
	LessonID        string    `json:"lesson_id"`
	Status          string    `json:"status"`
	Score           int       `json:"score"`
	UpdatedAt       time.Time `json:"updated_at"` // UTC
}

type (
	// QuizResult is the outcome of grading one quick check submission.
	QuizResult struct {
		Correct       bool     `json:"correct"`
		Selected      int      `json:"selected"`
		CorrectAnswer int      `json:"correct_answer"`
		Score         int      `json:"score"`
		Feedback      []string `json:"feedback,omitempty"`
	}

	MinigameInput struct {
		Choice      string `json:"choice,omitempty"`
		SliderValue string `json:"slider_value,omitempty"`
	}

	// MinigameResult reports a minigame outcome. Slider games are not graded.
	MinigameResult struct {
		Graded      bool   `json:"graded"`
		Correct     bool   `json:"correct"`
		Selected    string `json:"selected,omitempty"`
		Explanation string `json:"explanation,omitempty"`
	}
)
