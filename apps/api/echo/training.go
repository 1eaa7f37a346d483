package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/capacitahr/capacita/core"
	"github.com/capacitahr/capacita/core/course"
	"github.com/capacitahr/capacita/core/employee"
	"github.com/capacitahr/capacita/core/training"
)

type trainingApi struct {
	svc      *training.Service
	validate *validator.Validate
}

func registerTrainingAPI(g *echo.Group, svc *training.Service, validate *validator.Validate) {
	api := trainingApi{
		svc:      svc,
		validate: validate,
	}

	tg := g.Group("/training-records")
	tg.GET("", api.query)
	tg.POST("", api.assign)
	tg.PUT("", api.applyOutcome)
	tg.POST("/quiz", api.submitQuiz)
	tg.DELETE("", api.destroyMultiple)

	g.POST("/reminders", api.sendReminders)
}

// Requests / Responses

type AssignmentRequest struct {
	CourseID        int    `json:"course_id" validate:"required"`
	AssignmentType  string `json:"assignment_type" validate:"required"`
	AssignmentValue string `json:"assignment_value"`
}

func (r *AssignmentRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

type AssignmentResponse struct {
	Count int `json:"count"`
}

type OutcomeRequest struct {
	EmployeeID int  `json:"employee_id" validate:"required"`
	CourseID   int  `json:"course_id" validate:"required"`
	Nota       int  `json:"nota" validate:"gte=0,lte=100"`
	Buenas     int  `json:"buenas" validate:"gte=0"`
	Graduado   bool `json:"graduado"`
}

func (r *OutcomeRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

type QuizRequest struct {
	EmployeeID int                      `json:"employee_id" validate:"required"`
	CourseID   int                      `json:"course_id" validate:"required"`
	Answers    []course.SubmittedAnswer `json:"answers" validate:"omitempty,dive"`
}

func (r *QuizRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

type DeleteRecordsRequest struct {
	TrainingRecordIDs []int `json:"training_record_ids" validate:"required,min=1"`
}

func (r *DeleteRecordsRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

// Handlers

// query serves both roster pages (?course_id=&page=&limit=) and an
// employee's full record list (?employee_id=).
func (api *trainingApi) query(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if raw := ctx.QueryParam("employee_id"); raw != "" {
		employeeID, err := strconv.Atoi(raw)
		if err != nil {
			return core.NewValidationError(
				errors.New("invalid employee_id"),
				core.FieldError{Field: "employee_id", Error: "must be an integer"},
			)
		}
		records, err := api.svc.QueryByEmployee(reqCtx, employeeID)
		if err != nil {
			return errors.Wrap(err, "querying employee records")
		}
		return ctx.JSON(http.StatusOK, records)
	}

	raw := ctx.QueryParam("course_id")
	if raw == "" {
		return core.NewValidationError(
			errors.New("missing filter"),
			core.FieldError{Field: "course_id", Error: "either course_id or employee_id is required"},
		)
	}
	courseID, err := strconv.Atoi(raw)
	if err != nil {
		return core.NewValidationError(
			errors.New("invalid course_id"),
			core.FieldError{Field: "course_id", Error: "must be an integer"},
		)
	}

	page, err := api.svc.PaginateRoster(reqCtx, courseID, bindPage(ctx))
	if err != nil {
		return errors.Wrap(err, "querying roster page")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *trainingApi) assign(ctx echo.Context) error {
	var data AssignmentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignmentRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rule, err := employee.ParseAssignmentRule(data.AssignmentType, data.AssignmentValue)
	if err != nil {
		return err
	}

	count, err := api.svc.Assign(ctx.Request().Context(), data.CourseID, rule)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "assigning course")
	}
	return ctx.JSON(http.StatusCreated, AssignmentResponse{Count: count})
}

func (api *trainingApi) applyOutcome(ctx echo.Context) error {
	var data OutcomeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OutcomeRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	outcome := training.QuizOutcome{
		Nota:     data.Nota,
		Buenas:   data.Buenas,
		Graduado: data.Graduado,
	}
	if err := api.svc.ApplyOutcome(ctx.Request().Context(), data.EmployeeID, data.CourseID, outcome); err != nil {
		switch errors.Cause(err) {
		case employee.ErrNotFound, course.ErrNotFound:
			return errHttpNotFound
		}
		return errors.Wrap(err, "applying quiz outcome")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *trainingApi) submitQuiz(ctx echo.Context) error {
	var data QuizRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.SubmitQuiz(ctx.Request().Context(), data.EmployeeID, data.CourseID, data.Answers)
	if err != nil {
		switch errors.Cause(err) {
		case employee.ErrNotFound, course.ErrNotFound:
			return errHttpNotFound
		}
		return errors.Wrap(err, "submitting quiz")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *trainingApi) destroyMultiple(ctx echo.Context) error {
	var data DeleteRecordsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DeleteRecordsRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), data.TrainingRecordIDs...); err != nil {
		return errors.Wrap(err, "deleting training records")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *trainingApi) sendReminders(ctx echo.Context) error {
	var data training.ReminderBatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReminderBatch")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	summary := api.svc.SendReminders(ctx.Request().Context(), data)
	return ctx.JSON(http.StatusOK, summary)
}
