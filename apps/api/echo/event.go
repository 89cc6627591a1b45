package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/phronisis/core/event"
)

type eventApi struct {
	svc event.ServiceInterface
}

func registerEventAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := eventApi{svc: deps.EventSvc}

	g.GET("/events", api.recent, jwt, adminMiddleware())
}

// Handlers

func (api *eventApi) recent(ctx echo.Context) error {
	events, err := api.svc.Recent(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying recent events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}
