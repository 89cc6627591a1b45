package artifact

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/phronisis/core/content"
	"github.com/trezcool/phronisis/core/event"
)

var (
	// errors
	ErrNotFound = errors.New("artifact not found")
)

type (
	Repository interface {
		CreateArtifact(ctx context.Context, art Artifact) (Artifact, error)
		GetArtifactByID(ctx context.Context, id string) (Artifact, error)
		// QueryUserArtifacts returns the user's artifacts, newest first.
		QueryUserArtifacts(ctx context.Context, userID string) ([]Artifact, error)
	}

	ServiceInterface interface {
		Submit(ctx context.Context, userID, perspectiveSlug string, na NewArtifact) (Artifact, error)
		GetByID(ctx context.Context, id string) (Artifact, error)
		QueryOwn(ctx context.Context, userID string) ([]Artifact, error)
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

// Submit stores a creator-challenge submission and logs artifact_submitted.
func (svc *Service) Submit(ctx context.Context, userID, perspectiveSlug string, na NewArtifact) (Artifact, error) {
	if _, err := svc.contentSvc.GetBySlug(perspectiveSlug); err != nil {
		return Artifact{}, err
	}

	art, err := svc.repo.CreateArtifact(ctx, Artifact{
		UserID:          userID,
		PerspectiveSlug: perspectiveSlug,
		Title:           na.Title,
		BodyText:        na.BodyText,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		return Artifact{}, err
	}
	svc.eventSvc.Log(ctx, userID, event.TypeArtifactSubmitted, perspectiveSlug, "", nil)
	return art, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Artifact, error) {
	return svc.repo.GetArtifactByID(ctx, id)
}

func (svc *Service) QueryOwn(ctx context.Context, userID string) ([]Artifact, error) {
	return svc.repo.QueryUserArtifacts(ctx, userID)
}
