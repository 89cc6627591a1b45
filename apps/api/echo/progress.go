package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/phronisis/core/content"
	"github.com/trezcool/phronisis/core/event"
	"github.com/trezcool/phronisis/core/progress"
)

type progressApi struct {
	svc        progress.ServiceInterface
	contentSvc content.ServiceInterface
	eventSvc   event.ServiceInterface
}

func registerProgressAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := progressApi{
		svc:        deps.ProgressSvc,
		contentSvc: deps.ContentSvc,
		eventSvc:   deps.EventSvc,
	}

	lg := g.Group("/perspectives/:slug/lessons/:lesson_id", jwt)
	lg.POST("/start", api.start)
	lg.POST("/quiz", api.submitQuiz)
	lg.POST("/minigame", api.submitMinigame)
	lg.POST("/complete", api.complete)

	g.GET("/dashboard", api.dashboard, jwt)
}

// Handlers

func (api *progressApi) start(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	prog, err := api.svc.Start(ctx.Request().Context(), claims.Subject, ctx.Param("slug"), ctx.Param("lesson_id"))
	if err != nil {
		return errors.Wrap(err, "starting lesson")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *progressApi) submitQuiz(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data QuizRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizRequest")
	}

	res, err := api.svc.SubmitQuiz(ctx.Request().Context(), claims.Subject, ctx.Param("slug"), ctx.Param("lesson_id"), data.CheckIdx, data.Answer)
	if err != nil {
		return errors.Wrap(err, "submitting quiz")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *progressApi) submitMinigame(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data progress.MinigameInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MinigameInput")
	}

	res, err := api.svc.SubmitMinigame(ctx.Request().Context(), claims.Subject, ctx.Param("slug"), ctx.Param("lesson_id"), data)
	if err != nil {
		return errors.Wrap(err, "submitting minigame")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *progressApi) complete(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	prog, err := api.svc.Complete(ctx.Request().Context(), claims.Subject, ctx.Param("slug"), ctx.Param("lesson_id"))
	if err != nil {
		return errors.Wrap(err, "completing lesson")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *progressApi) dashboard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	all := api.contentSvc.All()
	perspectives := make([]DashboardPerspective, 0, len(all))
	for _, p := range all {
		percent, err := api.svc.PerspectivePercent(ctx.Request().Context(), claims.Subject, p)
		if err != nil {
			return errors.Wrap(err, "computing perspective percent")
		}
		perspectives = append(perspectives, DashboardPerspective{
			Slug:    p.Slug,
			Title:   p.Title,
			Percent: percent,
		})
	}

	streak, err := api.eventSvc.Streak(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "computing streak")
	}

	return ctx.JSON(http.StatusOK, DashboardResponse{Perspectives: perspectives, Streak: streak})
}

type (
	QuizRequest struct {
		CheckIdx int `json:"check_idx"`
		Answer   int `json:"answer"`
	}

	DashboardPerspective struct {
		Slug    string `json:"slug"`
		Title   string `json:"title"`
		Percent int    `json:"percent"`
	}

	DashboardResponse struct {
		Perspectives []DashboardPerspective `json:"perspectives"`
		Streak       int                    `json:"streak"`
	}
)
