package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/capacitahr/capacita/core/employee"
	"github.com/capacitahr/capacita/core/training"
)

type employeeApi struct {
	svc         *employee.Service
	trainingSvc *training.Service
}

func registerEmployeeAPI(g *echo.Group, svc *employee.Service, trainingSvc *training.Service) {
	api := employeeApi{
		svc:         svc,
		trainingSvc: trainingSvc,
	}

	eg := g.Group("/employees")
	eg.GET("/assignment-values", api.assignmentValues)
	eg.GET("/:id/dashboard", api.dashboard)
}

// Handlers

func (api *employeeApi) assignmentValues(ctx echo.Context) error {
	vals, err := api.svc.AssignmentValues(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying assignment values")
	}
	return ctx.JSON(http.StatusOK, vals)
}

func (api *employeeApi) dashboard(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	if _, err := api.svc.GetByID(ctx.Request().Context(), id); err != nil {
		if errors.Cause(err) == employee.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting employee")
	}

	dash, err := api.trainingSvc.EmployeeDashboard(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}
