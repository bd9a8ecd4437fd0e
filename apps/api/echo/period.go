package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eden/core/period"
	"github.com/trezcool/eden/services/export"
	"github.com/trezcool/eden/services/metrics"
)

type periodApi struct {
	svc      *period.Service
	validate *validator.Validate
}

func registerPeriodAPI(g *echo.Group, svc *period.Service, validate *validator.Validate) {
	api := periodApi{
		svc:      svc,
		validate: validate,
	}

	pg := g.Group("/periods")
	pg.GET("", api.query)
	pg.POST("", api.create)
	pg.GET("/today", api.today)
	pg.GET("/export", api.export)

	// detail endpoints
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)
	pg.PATCH("/:id/day", api.changeDay)
	pg.PATCH("/:id/time", api.changeTime)
	pg.PATCH("/:id/subject", api.changeSubject)
}

// Handlers

func (api *periodApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	periods, err := api.svc.Query(ctx.Request().Context(), ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying periods")
	}
	if periods == nil {
		periods = []period.Period{}
	}
	return ctx.JSON(http.StatusOK, periods)
}

func (api *periodApi) create(ctx echo.Context) error {
	var data NewPeriodRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPeriodRequest")
	}
	if err := data.Period.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.Create(ctx.Request().Context(), data.Period)
	if err != nil {
		return errors.Wrap(err, "creating period")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *periodApi) today(ctx echo.Context) error {
	var query period.TodayQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to TodayQuery")
	}
	if err := query.Validate(api.validate); err != nil {
		return err
	}
	day, err := period.ParseWeekday(query.Today)
	if err != nil {
		return errors.Wrap(err, "parsing weekday")
	}

	periods, err := api.svc.Today(ctx.Request().Context(), day)
	if err != nil {
		return errors.Wrap(err, "classifying periods")
	}
	for _, cp := range periods {
		metrics.ObserveClassification(cp.Status.String())
	}
	if periods == nil {
		periods = []period.ClassifiedPeriod{}
	}
	return ctx.JSON(http.StatusOK, periods)
}

func (api *periodApi) export(ctx echo.Context) error {
	var query ExportQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to ExportQuery")
	}
	if err := query.Validate(api.validate); err != nil {
		return err
	}

	var periods []period.Period
	var err error
	if query.Day == "" {
		periods, err = api.svc.Query(ctx.Request().Context(), nil)
	} else {
		var day period.Weekday
		if day, err = period.ParseWeekday(query.Day); err != nil {
			return errors.Wrap(err, "parsing weekday")
		}
		periods, err = api.svc.QueryByDay(ctx.Request().Context(), day)
	}
	if err != nil {
		return errors.Wrap(err, "querying periods")
	}

	// build the workbook before committing the response so failures still reach the error handler
	wb, err := export.Timetable(periods)
	if err != nil {
		return errors.Wrap(err, "exporting timetable")
	}
	defer wb.Close()

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, export.ContentType)
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="timetable.xlsx"`)
	res.WriteHeader(http.StatusOK)
	_, err = wb.WriteTo(res)
	return errors.Wrap(err, "writing timetable")
}

func (api *periodApi) retrieve(ctx echo.Context) error {
	p, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding period by ID")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *periodApi) update(ctx echo.Context) error {
	var data UpdatePeriodRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePeriodRequest")
	}
	if err := data.Period.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data.Period)
	if err != nil {
		return errors.Wrap(err, "updating period")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *periodApi) changeDay(ctx echo.Context) error {
	var data period.ChangeDay
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeDay")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.ChangeDay(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "changing period day")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *periodApi) changeTime(ctx echo.Context) error {
	var data period.ChangeTime
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeTime")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.ChangeTime(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "changing period time")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *periodApi) changeSubject(ctx echo.Context) error {
	var data period.ChangeSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeSubject")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.ChangeSubject(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "changing period subject")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *periodApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting period")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	NewPeriodRequest struct {
		Period period.NewPeriod `json:"period"`
	}

	UpdatePeriodRequest struct {
		Period period.UpdatePeriod `json:"period"`
	}

	ExportQuery struct {
		Day string `query:"day" validate:"omitempty,weekday"`
	}
)

func (eq *ExportQuery) Validate(validate *validator.Validate) error {
	return validate.Struct(eq)
}
