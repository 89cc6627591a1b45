package review

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/phronisis/core"
	"github.com/trezcool/phronisis/core/artifact"
	"github.com/trezcool/phronisis/core/event"
	"github.com/trezcool/phronisis/core/progress"
	"github.com/trezcool/phronisis/core/user"
)

var (
	// errors
	ErrNoneEligible    = errors.New("no artifact awaiting review")
	ErrDuplicateReview = errors.New("artifact already reviewed by this reviewer")
	ErrSelfReview      = errors.New("own artifacts cannot be reviewed")
)

type (
	Repository interface {
		CreateReview(ctx context.Context, rev PeerReview) (PeerReview, error)
		QueryArtifactReviews(ctx context.Context, artifactID string) ([]PeerReview, error)
		// QueryReviewsReceived returns reviews on the owner's artifacts, newest first.
		QueryReviewsReceived(ctx context.Context, ownerID string) ([]PeerReview, error)
		// NextArtifactForReviewer selects the artifact the reviewer should
		// review next: not authored by them, not yet reviewed by them,
		// fewest completed reviews first, oldest first on ties.
		// Returns ErrNoneEligible when nothing qualifies.
		NextArtifactForReviewer(ctx context.Context, reviewerID string) (artifact.Artifact, error)
	}

	ServiceInterface interface {
		NextFor(ctx context.Context, reviewerID string) (artifact.Artifact, error)
		Submit(ctx context.Context, reviewerID string, nr NewReview) (PeerReview, Summary, error)
		Report(ctx context.Context, reviewerID, artifactID string) error
		Summary(ctx context.Context, artifactID string) (Summary, error)
		ReceivedBy(ctx context.Context, ownerID string) ([]PeerReview, error)
	}

	Service struct {
		repo        Repository
		artifactSvc artifact.ServiceInterface
		progressSvc progress.ServiceInterface
		usrSvc      user.ServiceInterface
		eventSvc    event.ServiceInterface
		mailSvc     core.EmailService
		conf        *core.Config
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(
	repo Repository,
	artifactSvc artifact.ServiceInterface,
	progressSvc progress.ServiceInterface,
	usrSvc user.ServiceInterface,
	eventSvc event.ServiceInterface,
	mailSvc core.EmailService,
	conf *core.Config,
) *Service {
	return &Service{
		repo:        repo,
		artifactSvc: artifactSvc,
		progressSvc: progressSvc,
		usrSvc:      usrSvc,
		eventSvc:    eventSvc,
		mailSvc:     mailSvc,
		conf:        conf,
	}
}

// NextFor returns the reviewer's next assignment.
func (svc *Service) NextFor(ctx context.Context, reviewerID string) (artifact.Artifact, error) {
	return svc.repo.NextArtifactForReviewer(ctx, reviewerID)
}

// Submit stores the review, notifies the artifact owner and evaluates the
// progress gate. The gate unlocks the owner's creator challenge the first
// time the artifact's summary passes; re-evaluations are no-ops.
func (svc *Service) Submit(ctx context.Context, reviewerID string, nr NewReview) (PeerReview, Summary, error) {
	art, err := svc.artifactSvc.GetByID(ctx, nr.ArtifactID)
	if err != nil {
		if errors.Cause(err) == artifact.ErrNotFound {
			return PeerReview{}, Summary{}, core.NewValidationError(err, core.FieldError{Field: "artifact_id", Error: err.Error()})
		}
		return PeerReview{}, Summary{}, errors.Wrap(err, "finding artifact")
	}
	if art.UserID == reviewerID {
		return PeerReview{}, Summary{}, core.NewValidationError(ErrSelfReview, core.FieldError{Field: "artifact_id", Error: ErrSelfReview.Error()})
	}

	rev, err := svc.repo.CreateReview(ctx, PeerReview{
		ArtifactID: nr.ArtifactID,
		ReviewerID: reviewerID,
		Clarity:    nr.Clarity,
		Logic:      nr.Logic,
		Fairness:   nr.Fairness,
		Comments:   nr.Comments,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		if errors.Cause(err) == ErrDuplicateReview {
			return PeerReview{}, Summary{}, core.NewValidationError(err, core.FieldError{Field: "artifact_id", Error: err.Error()})
		}
		return PeerReview{}, Summary{}, errors.Wrap(err, "creating review")
	}

	svc.eventSvc.Log(ctx, reviewerID, event.TypePeerReviewCompleted, art.PerspectiveSlug, "", map[string]interface{}{
		"artifact_id": art.ID,
	})

	reviews, err := svc.repo.QueryArtifactReviews(ctx, art.ID)
	if err != nil {
		return PeerReview{}, Summary{}, errors.Wrap(err, "querying artifact reviews")
	}
	summary := Summarize(art.ID, reviews, svc.conf.Review)

	if summary.Passed {
		if err = svc.evaluateGate(ctx, art, rev, reviews); err != nil {
			return PeerReview{}, Summary{}, err
		}
	}

	svc.notifyOwner(ctx, art)
	return rev, summary, nil
}

// evaluateGate unlocks the owner's creator challenge. challenge_unlocked is
// only logged when this review tipped the summary from failing to passing.
func (svc *Service) evaluateGate(ctx context.Context, art artifact.Artifact, rev PeerReview, reviews []PeerReview) error {
	if err := svc.progressSvc.MarkChallengeCompleted(ctx, art.UserID, art.PerspectiveSlug); err != nil {
		return errors.Wrap(err, "completing challenge")
	}

	prior := make([]PeerReview, 0, len(reviews)-1)
	for _, r := range reviews {
		if r.ID != rev.ID {
			prior = append(prior, r)
		}
	}
	if !Summarize(art.ID, prior, svc.conf.Review).Passed {
		svc.eventSvc.Log(ctx, art.UserID, event.TypeChallengeUnlocked, art.PerspectiveSlug, "", map[string]interface{}{
			"artifact_id": art.ID,
		})
	}
	return nil
}

func (svc *Service) notifyOwner(ctx context.Context, art artifact.Artifact) {
	owner, err := svc.usrSvc.GetByID(ctx, art.UserID)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: owner.DisplayName, Address: owner.Email}},
		Subject: "Your artifact received a new review",
		BodyTemplate: "Hi {{.Data.Name}},\n\n" +
			"A fellow learner just reviewed \"{{.Data.Title}}\".\n" +
			"See your feedback at {{.FrontendBaseURL}}/profile.",
		TemplateData: struct{ Name, Title string }{owner.DisplayName, art.Title},
	})
}

// Report flags an artifact without reviewing it; the report only lands in
// the analytics log.
func (svc *Service) Report(ctx context.Context, reviewerID, artifactID string) error {
	art, err := svc.artifactSvc.GetByID(ctx, artifactID)
	if err != nil {
		if errors.Cause(err) == artifact.ErrNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "artifact_id", Error: err.Error()})
		}
		return errors.Wrap(err, "finding artifact")
	}

	svc.eventSvc.Log(ctx, reviewerID, event.TypeArtifactReported, art.PerspectiveSlug, "", map[string]interface{}{
		"artifact_id": art.ID,
	})
	return nil
}

func (svc *Service) Summary(ctx context.Context, artifactID string) (Summary, error) {
	art, err := svc.artifactSvc.GetByID(ctx, artifactID)
	if err != nil {
		return Summary{}, err
	}
	reviews, err := svc.repo.QueryArtifactReviews(ctx, art.ID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(art.ID, reviews, svc.conf.Review), nil
}

func (svc *Service) ReceivedBy(ctx context.Context, ownerID string) ([]PeerReview, error) {
	return svc.repo.QueryReviewsReceived(ctx, ownerID)
}
