package echoapi

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/analytics"
	"github.com/trezcool/masomo/core/user"
)

const defaultTopStudents = 5

type statsAPI struct {
	engine *analytics.Engine
}

func registerStatsAPI(g *echo.Group, authed []echo.MiddlewareFunc, engine *analytics.Engine) {
	api := statsAPI{engine: engine}

	sg := g.Group("/stats", authed...)
	sg.GET("/students/:id", api.student, ownStudentOrStaffMiddleware)
	sg.GET("/students/:id/subjects", api.studentSubjects, ownStudentOrStaffMiddleware)
	sg.GET("/classes/:class", api.class, roleMiddleware(user.RoleTeacher, user.RoleAdmin))

	ag := sg.Group("", roleMiddleware(user.RoleAdmin))
	ag.GET("/trend", api.trend)
	ag.GET("/top", api.top)
	ag.GET("/subjects", api.subjects)
	ag.GET("/classes", api.classes)
	ag.GET("/overview", api.overview)
}

type StudentReport struct {
	analytics.StudentStats
	Performance    string  `json:"performance"`
	AttendanceRate float64 `json:"attendance_rate"`
}

func (api *statsAPI) student(ctx echo.Context) error {
	id := ctx.Param("id")
	stats, err := api.engine.StudentPerformance(id)
	if err != nil {
		return errors.Wrap(err, "computing student performance")
	}
	rate, err := api.engine.AttendanceRate(id)
	if err != nil {
		return errors.Wrap(err, "computing attendance rate")
	}
	return ctx.JSON(http.StatusOK, StudentReport{
		StudentStats:   stats,
		Performance:    analytics.PerformanceLabel(stats.AverageScore),
		AttendanceRate: rate,
	})
}

func (api *statsAPI) studentSubjects(ctx echo.Context) error {
	groups, err := api.engine.StudentMarksBySubject(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "grouping student marks")
	}
	return ctx.JSON(http.StatusOK, nonNil(groups))
}

func (api *statsAPI) class(ctx echo.Context) error {
	class, err := url.PathUnescape(ctx.Param("class"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "class", Error: "invalid class name"})
	}
	stats, err := api.engine.ClassPerformance(core.CleanString(class))
	if err != nil {
		return errors.Wrap(err, "computing class performance")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *statsAPI) trend(ctx echo.Context) error {
	points, err := api.engine.MonthlyTrend()
	if err != nil {
		return errors.Wrap(err, "computing monthly trend")
	}
	return ctx.JSON(http.StatusOK, points)
}

func (api *statsAPI) top(ctx echo.Context) error {
	n := defaultTopStudents
	if raw := ctx.QueryParam("n"); raw != "" {
		var err error
		if n, err = strconv.Atoi(raw); err != nil || n < 1 {
			return core.NewValidationError(nil, core.FieldError{Field: "n", Error: "n must be a positive integer"})
		}
	}
	rankings, err := api.engine.TopStudents(n)
	if err != nil {
		return errors.Wrap(err, "ranking students")
	}
	return ctx.JSON(http.StatusOK, nonNil(rankings))
}

func (api *statsAPI) subjects(ctx echo.Context) error {
	shares, err := api.engine.SubjectDistribution()
	if err != nil {
		return errors.Wrap(err, "computing subject distribution")
	}
	return ctx.JSON(http.StatusOK, nonNil(shares))
}

func (api *statsAPI) classes(ctx echo.Context) error {
	summaries, err := api.engine.ClassComparison()
	if err != nil {
		return errors.Wrap(err, "comparing classes")
	}
	return ctx.JSON(http.StatusOK, nonNil(summaries))
}

func (api *statsAPI) overview(ctx echo.Context) error {
	overview, err := api.engine.Overview()
	if err != nil {
		return errors.Wrap(err, "computing overview")
	}
	return ctx.JSON(http.StatusOK, overview)
}
