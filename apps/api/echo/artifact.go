package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/phronisis/core/artifact"
	"github.com/trezcool/phronisis/core/review"
)

type artifactApi struct {
	svc       artifact.ServiceInterface
	reviewSvc review.ServiceInterface
	validate  *validator.Validate
}

func registerArtifactAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := artifactApi{
		svc:       deps.ArtifactSvc,
		reviewSvc: deps.ReviewSvc,
		validate:  deps.Validate,
	}

	ag := g.Group("/artifacts", jwt)
	ag.POST("", api.submit)
	ag.GET("", api.listOwn)
	ag.GET("/reviews-received", api.reviewsReceived)
	ag.GET("/:id/summary", api.summary)
}

// Handlers

func (api *artifactApi) submit(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data SubmitArtifactRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitArtifactRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	art, err := api.svc.Submit(ctx.Request().Context(), claims.Subject, data.PerspectiveSlug, data.NewArtifact)
	if err != nil {
		return errors.Wrap(err, "submitting artifact")
	}
	return ctx.JSON(http.StatusCreated, art)
}

func (api *artifactApi) listOwn(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	arts, err := api.svc.QueryOwn(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying artifacts")
	}
	if arts == nil {
		arts = []artifact.Artifact{}
	}
	return ctx.JSON(http.StatusOK, arts)
}

func (api *artifactApi) reviewsReceived(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reviews, err := api.reviewSvc.ReceivedBy(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying reviews received")
	}
	if reviews == nil {
		reviews = []review.PeerReview{}
	}
	return ctx.JSON(http.StatusOK, reviews)
}

func (api *artifactApi) summary(ctx echo.Context) error {
	summary, err := api.reviewSvc.Summary(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "summarizing artifact reviews")
	}
	return ctx.JSON(http.StatusOK, summary)
}

type SubmitArtifactRequest struct {
	artifact.NewArtifact
	PerspectiveSlug string `json:"perspective_slug" validate:"required,slug"`
}

func (sr *SubmitArtifactRequest) Validate(validate *validator.Validate) error {
	if err := sr.NewArtifact.Validate(validate); err != nil {
		return err
	}
	return validate.StructPartial(sr, "PerspectiveSlug")
}
