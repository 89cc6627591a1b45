package event

import "time"

// Event types
const (
	TypeLessonStarted       = "lesson_started"
	TypeLessonCompleted     = "lesson_completed"
	TypeQuizAttempted       = "quiz_attempted"
	TypeMinigamePlayed      = "minigame_played"
	TypeArtifactSubmitted   = "artifact_submitted"
	TypePeerReviewCompleted = "peer_review_completed"
	TypeArtifactReported    = "artifact_reported"
	TypeChallengeUnlocked   = "challenge_unlocked"
)

// Event is one append-only analytics record.
type Event struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"user_id"`
	Type            string                 `json:"type"`
	PerspectiveSlug string                 `json:"perspective_slug,omitempty"`
	LessonID        string                 `json:"lesson_id,omitempty"`
	Meta            map[string]interface{} `json:"meta,omitempty"`
	CreatedAt       time.Time              `json:"created_at"` // UTC
}
