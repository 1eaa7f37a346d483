package training

import (
	"context"

	"github.com/pkg/errors"

	"github.com/capacitahr/capacita/core"
	"github.com/capacitahr/capacita/core/course"
	"github.com/capacitahr/capacita/core/employee"
)

type (
	Repository interface {
		// AssignEmployees creates at most one record per (employee, course)
		// pair and returns the number of genuinely new records; employees
		// already on the roster are skipped, never duplicated.
		AssignEmployees(ctx context.Context, courseID int, employeeIDs []int) (int, error)
		QueryRecordsByEmployee(ctx context.Context, employeeID int) ([]Record, error)
		// QueryRecordPage returns one page of a course roster joined with the
		// employee display name, plus the total record count.
		QueryRecordPage(ctx context.Context, courseID int, page core.Page) ([]Record, int, error)
		// ApplyQuizOutcome upserts the result block keyed on
		// (employee_id, course_id); a repeat submission overwrites.
		ApplyQuizOutcome(ctx context.Context, employeeID, courseID int, outcome QuizOutcome) error
		// MarkReminderSent atomically sets correo_enviado, stamps
		// fecha_ultimo_email and increments total_envios as a relative
		// update on exactly the named record.
		MarkReminderSent(ctx context.Context, recordID int) error
		DeleteRecordsByID(ctx context.Context, ids ...int) error
	}

	// RuleResolver resolves an assignment rule into employee ids; the
	// employee directory service satisfies it.
	RuleResolver interface {
		ResolveRule(ctx context.Context, rule employee.AssignmentRule) ([]int, error)
	}

	// CourseGetter fetches the full course aggregate for quiz scoring.
	CourseGetter interface {
		GetByID(ctx context.Context, id int) (course.Course, error)
	}

	Service struct {
		repo     Repository
		resolver RuleResolver
		courses  CourseGetter
		mailSvc  core.EmailService
		conf     *core.Config
		logger   core.Logger
	}
)

func NewService(
	repo Repository,
	resolver RuleResolver,
	courses CourseGetter,
	mailSvc core.EmailService,
	conf *core.Config,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		courses:  courses,
		mailSvc:  mailSvc,
		conf:     conf,
		logger:   logger,
	}
}

// Assign resolves the rule into concrete employees and materializes one
// training record per newly-assigned employee. Re-running the same rule is
// idempotent; an empty resolved set is not an error.
func (svc *Service) Assign(ctx context.Context, courseID int, rule employee.AssignmentRule) (int, error) {
	if _, err := svc.courses.GetByID(ctx, courseID); err != nil {
		return 0, err
	}

	ids, err := svc.resolver.ResolveRule(ctx, rule)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	created, err := svc.repo.AssignEmployees(ctx, courseID, ids)
	if err != nil {
		return 0, errors.Wrap(err, "assigning employees")
	}
	return created, nil
}

// SubmitQuiz scores the submission against the course answer key and writes
// the outcome back onto the learner's record. This is the terminal step of an
// attempt; a second submission is a retake and overwrites the previous result.
func (svc *Service) SubmitQuiz(ctx context.Context, employeeID, courseID int, answers []course.SubmittedAnswer) (course.QuizResult, error) {
	crs, err := svc.courses.GetByID(ctx, courseID)
	if err != nil {
		return course.QuizResult{}, err
	}

	res := course.Score(crs, answers)
	outcome := QuizOutcome{
		Nota:     res.Percentage,
		Buenas:   res.CorrectCount,
		Graduado: res.Passed,
	}
	if err := svc.repo.ApplyQuizOutcome(ctx, employeeID, courseID, outcome); err != nil {
		return course.QuizResult{}, errors.Wrap(err, "applying quiz outcome")
	}
	return res, nil
}

// ApplyOutcome applies an already-computed result block (the direct write-back
// entry point). Idempotent on repeat identical submission.
func (svc *Service) ApplyOutcome(ctx context.Context, employeeID, courseID int, outcome QuizOutcome) error {
	return svc.repo.ApplyQuizOutcome(ctx, employeeID, courseID, outcome)
}

func (svc *Service) QueryByEmployee(ctx context.Context, employeeID int) ([]Record, error) {
	return svc.repo.QueryRecordsByEmployee(ctx, employeeID)
}

// EmployeeDashboard re-buckets an employee's records for display.
func (svc *Service) EmployeeDashboard(ctx context.Context, employeeID int) (Dashboard, error) {
	records, err := svc.repo.QueryRecordsByEmployee(ctx, employeeID)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying employee records")
	}
	return Classify(records), nil
}

func (svc *Service) PaginateRoster(ctx context.Context, courseID int, page core.Page) (RecordPage, error) {
	records, total, err := svc.repo.QueryRecordPage(ctx, courseID, page)
	if err != nil {
		return RecordPage{}, errors.Wrap(err, "querying record page")
	}
	totalPages := page.TotalPages(total)
	return RecordPage{
		Results:      records,
		CurrentPage:  page.Number,
		TotalPages:   totalPages,
		TotalRecords: total,
		HasNextPage:  page.Number < totalPages,
		HasPrevPage:  page.Number > 1 && page.Number <= totalPages+1,
	}, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteRecordsByID(ctx, ids...)
}
