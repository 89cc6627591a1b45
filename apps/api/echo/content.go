package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/phronisis/core/content"
	"github.com/trezcool/phronisis/core/progress"
)

type contentApi struct {
	svc         content.ServiceInterface
	progressSvc progress.ServiceInterface
	validate    *validator.Validate
}

func registerContentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := contentApi{
		svc:         deps.ContentSvc,
		progressSvc: deps.ProgressSvc,
		validate:    deps.Validate,
	}

	pg := g.Group("/perspectives", jwt)
	pg.GET("", api.list)
	pg.GET("/:slug", api.retrieve)
	pg.POST("", api.upload, adminMiddleware())
}

// Handlers

func (api *contentApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	all := api.svc.All()
	items := make([]PerspectiveListItem, 0, len(all))
	for _, p := range all {
		percent, err := api.progressSvc.PerspectivePercent(ctx.Request().Context(), claims.Subject, p)
		if err != nil {
			return errors.Wrap(err, "computing perspective percent")
		}
		items = append(items, PerspectiveListItem{
			Slug:        p.Slug,
			Title:       p.Title,
			Summary:     p.Summary,
			Order:       p.Order,
			LessonCount: len(p.Lessons),
			Percent:     percent,
		})
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *contentApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	p, err := api.svc.GetBySlug(ctx.Param("slug"))
	if err != nil {
		return errors.Wrap(err, "finding perspective")
	}

	byLesson, err := api.progressSvc.ForPerspective(ctx.Request().Context(), claims.Subject, p.Slug)
	if err != nil {
		return errors.Wrap(err, "querying progress")
	}

	lessons := make([]LessonDetail, 0, len(p.Lessons))
	for _, lesson := range p.Lessons {
		status, score := progress.StatusNotStarted, 0
		if prog, ok := byLesson[lesson.ID]; ok {
			status, score = prog.Status, prog.Score
		}
		lessons = append(lessons, LessonDetail{Lesson: lesson, Status: status, Score: score})
	}

	challengeDone := false
	if prog, ok := byLesson[progress.ChallengeLessonID]; ok {
		challengeDone = prog.Status == progress.StatusCompleted
	}

	return ctx.JSON(http.StatusOK, PerspectiveDetail{
		Slug:               p.Slug,
		Title:              p.Title,
		Summary:            p.Summary,
		Order:              p.Order,
		Lessons:            lessons,
		CreatorChallenge:   p.CreatorChallenge,
		Resources:          p.Resources,
		ChallengeCompleted: challengeDone,
	})
}

func (api *contentApi) upload(ctx echo.Context) error {
	var data content.Perspective
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Perspective")
	}

	if err := api.svc.Ingest(data, api.validate); err != nil {
		return errors.Wrap(err, "ingesting perspective")
	}
	return ctx.JSON(http.StatusCreated, SuccessResponse{Success: "Perspective saved."})
}

type (
	PerspectiveListItem struct {
		Slug        string `json:"slug"`
		Title       string `json:"title"`
		Summary     string `json:"summary"`
		Order       int    `json:"order"`
		LessonCount int    `json:"lesson_count"`
		Percent     int    `json:"percent"`
	}

	LessonDetail struct {
		content.Lesson
		Status string `json:"status"`
		Score  int    `json:"score"`
	}

	PerspectiveDetail struct {
		Slug               string                    `json:"slug"`
		Title              string                    `json:"title"`
		Summary            string                    `json:"summary"`
		Order              int                       `json:"order"`
		Lessons            []LessonDetail            `json:"lessons"`
		CreatorChallenge   *content.CreatorChallenge `json:"creator_challenge,omitempty"`
		Resources          []content.Resource        `json:"resources,omitempty"`
		ChallengeCompleted bool                      `json:"challenge_completed"`
	}
)
