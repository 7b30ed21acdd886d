package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core/school"
	"github.com/trezcool/masomo/core/user"
)

type marksAPI struct {
	svc *school.Service
}

func registerMarksAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *school.Service) {
	api := marksAPI{svc: svc}

	mg := g.Group("/marks", authed...)
	mg.POST("", api.create, roleMiddleware(user.RoleTeacher, user.RoleAdmin))
}

func (api *marksAPI) create(ctx echo.Context) error {
	var data school.NewMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMark")
	}

	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	mark, err := api.svc.AddMarkAs(usr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, mark)
}
