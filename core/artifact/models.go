package artifact

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/phronisis/core"
)

// Artifact is a user-authored text submitted in response to a creator
// challenge, subject to peer review.
type Artifact struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	PerspectiveSlug string    `json:"perspective_slug"`
	Title           string    `json:"title"`
	BodyText        string    `json:"body_text"`
	CreatedAt       time.Time `json:"created_at"` // UTC
}

// NewArtifact contains information needed to submit an Artifact.
type NewArtifact struct {
	Title    string `json:"title" validate:"required,max=200"`
	BodyText string `json:"body_text" validate:"required"`
}

func (na *NewArtifact) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.BodyText = core.CleanString(na.BodyText)
	return validate.Struct(na)
}
