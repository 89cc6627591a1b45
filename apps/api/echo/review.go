package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/phronisis/core/review"
)

type reviewApi struct {
	svc      review.ServiceInterface
	validate *validator.Validate
}

func registerReviewAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := reviewApi{
		svc:      deps.ReviewSvc,
		validate: deps.Validate,
	}

	rg := g.Group("/reviews", jwt)
	rg.GET("/next", api.next)
	rg.POST("", api.submit)
	rg.POST("/report", api.report)
}

// Handlers

func (api *reviewApi) next(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	art, err := api.svc.NextFor(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding next artifact")
	}
	return ctx.JSON(http.StatusOK, art)
}

func (api *reviewApi) submit(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data review.NewReview
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReview")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	rev, summary, err := api.svc.Submit(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "submitting review")
	}
	return ctx.JSON(http.StatusCreated, SubmitReviewResponse{Review: rev, Summary: summary})
}

func (api *reviewApi) report(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data ReportRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReportRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	if err = api.svc.Report(ctx.Request().Context(), claims.Subject, data.ArtifactID); err != nil {
		return errors.Wrap(err, "reporting artifact")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Artifact reported. Thank you for keeping reviews useful."})
}

type (
	SubmitReviewResponse struct {
		Review  review.PeerReview `json:"review"`
		Summary review.Summary    `json:"summary"`
	}

	ReportRequest struct {
		ArtifactID string `json:"artifact_id" validate:"required"`
	}
)

func (rr *ReportRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(rr)
}
