package content

import (
	"github.com/go-playground/validator/v10"
)

// Minigame types
const (
	MinigameChoice = "choice"
	MinigameSlider = "slider"
)

type (
	// Perspective is a top-level learning module composed of lessons,
	// defined by a JSON file in the content directory.
	Perspective struct {
		Slug             string            `json:"slug" validate:"required,slug"`
		Title            string            `json:"title" validate:"required"`
		Summary          string            `json:"summary" validate:"required"`
		Order            int               `json:"order" validate:"required"`
		Lessons          []Lesson          `json:"lessons" validate:"required,min=1,dive"`
		CreatorChallenge *CreatorChallenge `json:"creator_challenge,omitempty"`
		Resources        []Resource        `json:"resources,omitempty"`
	}

	// Resource is an external further-reading link.
	Resource struct {
		Label string `json:"label"`
		URL   string `json:"url"`
	}

	Lesson struct {
		ID          string       `json:"id" validate:"required"`
		Title       string       `json:"title" validate:"required"`
		KeyIdeas    []string     `json:"key_ideas,omitempty"`
		Examples    []string     `json:"examples,omitempty"`
		QuickChecks []QuickCheck `json:"quick_checks,omitempty"`
		Minigame    *Minigame    `json:"minigame,omitempty"`
	}

	QuickCheck struct {
		Question    string   `json:"question"`
		Choices     []string `json:"choices"`
		AnswerIndex int      `json:"answer_index"`
		Feedback    []string `json:"feedback,omitempty"`
	}

	Minigame struct {
		Type          string   `json:"type"`
		Title         string   `json:"title,omitempty"`
		Prompt        string   `json:"prompt,omitempty"`
		Options       []string `json:"options,omitempty"`
		CorrectOption string   `json:"correct_option,omitempty"`
		Explanation   string   `json:"explanation,omitempty"`
	}

	// CreatorChallenge is the writing prompt whose submissions go through peer review.
	CreatorChallenge struct {
		Prompt   string   `json:"prompt"`
		Criteria []string `json:"criteria,omitempty"`
	}
)

func (p *Perspective) Validate(validate *validator.Validate) error {
	return validate.Struct(p)
}

// GetLesson finds a lesson by id.
func (p *Perspective) GetLesson(lessonID string) (Lesson, bool) {
	for _, lesson := range p.Lessons {
		if lesson.ID == lessonID {
			return lesson, true
		}
	}
	return Lesson{}, false
}
