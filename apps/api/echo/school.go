package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/school"
	"github.com/trezcool/masomo/core/user"
)

type schoolAPI struct {
	svc *school.Service
}

func registerSchoolAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *school.Service) {
	api := schoolAPI{svc: svc}
	staff := roleMiddleware(user.RoleTeacher, user.RoleAdmin)

	sg := g.Group("/students", authed...)
	sg.GET("", api.queryStudents, staff)
	sg.GET("/:id", api.retrieveStudent, ownStudentOrStaffMiddleware)
	sg.GET("/:id/marks", api.studentMarks, ownStudentOrStaffMiddleware)

	tg := g.Group("/teachers", authed...)
	tg.GET("", api.queryTeachers)
	tg.GET("/:id", api.retrieveTeacher)
	tg.GET("/:id/subjects", api.teacherSubjects)

	subg := g.Group("/subjects", authed...)
	subg.GET("", api.querySubjects)
	subg.GET("/:id", api.retrieveSubject)
	subg.GET("/:id/marks", api.subjectMarks, staff)
}

type StudentQuery struct {
	Class string `query:"class"`
}

func (api *schoolAPI) queryStudents(ctx echo.Context) error {
	var query StudentQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to StudentQuery")
	}

	var students []school.Student
	var err error
	if class := core.CleanString(query.Class); class != "" {
		students, err = api.svc.StudentsByClass(class)
	} else {
		students, err = api.svc.Students()
	}
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, nonNil(students))
}

func (api *schoolAPI) retrieveStudent(ctx echo.Context) error {
	stu, err := api.svc.StudentByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *schoolAPI) studentMarks(ctx echo.Context) error {
	if _, err := api.svc.StudentByID(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	marks, err := api.svc.MarksByStudent(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying student marks")
	}
	return ctx.JSON(http.StatusOK, nonNil(marks))
}

func (api *schoolAPI) queryTeachers(ctx echo.Context) error {
	teachers, err := api.svc.Teachers()
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, nonNil(teachers))
}

func (api *schoolAPI) retrieveTeacher(ctx echo.Context) error {
	tch, err := api.svc.TeacherByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding teacher by ID")
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *schoolAPI) teacherSubjects(ctx echo.Context) error {
	if _, err := api.svc.TeacherByID(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "finding teacher by ID")
	}
	subjects, err := api.svc.SubjectsByTeacher(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying teacher subjects")
	}
	return ctx.JSON(http.StatusOK, nonNil(subjects))
}

func (api *schoolAPI) querySubjects(ctx echo.Context) error {
	subjects, err := api.svc.Subjects()
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, nonNil(subjects))
}

func (api *schoolAPI) retrieveSubject(ctx echo.Context) error {
	sub, err := api.svc.SubjectByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding subject by ID")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *schoolAPI) subjectMarks(ctx echo.Context) error {
	if _, err := api.svc.SubjectByID(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "finding subject by ID")
	}
	marks, err := api.svc.MarksBySubject(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying subject marks")
	}
	return ctx.JSON(http.StatusOK, nonNil(marks))
}

// nonNil renders empty results as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
