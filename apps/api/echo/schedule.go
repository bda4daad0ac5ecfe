package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mwalimu/ratiba/core"
	"github.com/mwalimu/ratiba/core/schedule"
)

type scheduleApi struct {
	svc        *schedule.Service
	conf       *core.Config
	validate   *validator.Validate
	translator ut.Translator
}

func registerScheduleAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *schedule.Service,
	conf *core.Config,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := scheduleApi{
		svc:        svc,
		conf:       conf,
		validate:   validate,
		translator: translator,
	}

	sg := g.Group("/schedules", jwt)
	sg.GET("/busy", api.busy)
	sg.POST("/generate", api.generate)
	sg.GET("/:requestID", api.retrieve)
	sg.PUT("/:requestID", api.save)
}

// Handlers

// retrieve returns a teaching request's schedule; only its tutor, its student
// or an admin may see it. Anyone else gets a 404 so the request id leaks nothing.
func (api *scheduleApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sched, err := api.svc.Fetch(ctx.Request().Context(), ctx.Param("requestID"))
	if err != nil {
		if errors.Cause(err) == schedule.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "fetching schedule")
	}
	if !(sched.IsParty(claims.Subject) || claims.IsAdmin) {
		return errHttpNotFound
	}

	return ctx.JSON(http.StatusOK, sched)
}

// save replaces a schedule's event list with the submitted one; only the
// owning tutor or an admin may save.
func (api *scheduleApi) save(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reqCtx := ctx.Request().Context()
	requestID := ctx.Param("requestID")

	sched, err := api.svc.Fetch(reqCtx, requestID)
	if err != nil {
		if errors.Cause(err) == schedule.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "fetching schedule")
	}
	if !(sched.IsOwner(claims.Subject) || claims.IsAdmin) {
		return errHttpForbidden
	}

	var data schedule.SaveSchedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveSchedule")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sched, err = api.svc.Save(reqCtx, requestID, data.EventList(api.conf.Schedule.DefaultTitle))
	if err != nil {
		return errors.Wrap(err, "saving schedule")
	}

	return ctx.JSON(http.StatusOK, sched)
}

// generate previews the sessions a recurrence rule would create. Nothing is
// persisted; the client submits the picked sessions via save.
func (api *scheduleApi) generate(ctx echo.Context) error {
	var data schedule.GenerateSchedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateSchedule")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	intervals := schedule.Expand(data.Spec())
	if intervals == nil {
		intervals = []schedule.Interval{}
	}
	return ctx.JSON(http.StatusOK, GenerateResponse{Sessions: intervals})
}

// busy returns the authenticated user's booked intervals across all their
// schedules, for rendering as read-only unavailability overlays.
func (api *scheduleApi) busy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	intervals, err := api.svc.Busy(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying busy intervals")
	}
	if intervals == nil {
		intervals = []schedule.Interval{}
	}
	return ctx.JSON(http.StatusOK, intervals)
}

type GenerateResponse struct {
	Sessions []schedule.Interval `json:"sessions"`
}
