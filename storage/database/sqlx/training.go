package sqlxrepos

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/capacitahr/capacita/core"
	"github.com/capacitahr/capacita/core/course"
	"github.com/capacitahr/capacita/core/employee"
	"github.com/capacitahr/capacita/core/training"
)

type recordRow struct {
	ID               int         `db:"id"`
	EmployeeID       int         `db:"employee_id"`
	CourseID         int         `db:"course_id"`
	EmployeeName     null.String `db:"employee_name"`
	EmployeeEmail    null.String `db:"employee_email"`
	CourseTitle      null.String `db:"course_title"`
	ScheduledHours   int         `db:"scheduled_hours"`
	ScheduledMonth   int         `db:"scheduled_month"`
	ScheduledYear    int         `db:"scheduled_year"`
	Modality         string      `db:"modality"`
	Classification   string      `db:"classification"`
	SponsoringEntity string      `db:"sponsoring_entity"`
	Realizado        bool        `db:"realizado"`
	Graduado         bool        `db:"graduado"`
	Cancelado        bool        `db:"cancelado"`
	Aplica           bool        `db:"aplica"`
	Eficiente        bool        `db:"eficiente"`
	Impreso          bool        `db:"impreso"`
	Nota             int         `db:"nota"`
	Buenas           int         `db:"buenas"`
	CorreoEnviado    bool        `db:"correo_enviado"`
	FechaUltimoEmail null.Time   `db:"fecha_ultimo_email"`
	TotalEnvios      int         `db:"total_envios"`
	CreatedAt        time.Time   `db:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at"`
}

func (r recordRow) toDomain() training.Record {
	return training.Record{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		CourseID:         r.CourseID,
		EmployeeName:     r.EmployeeName.String,
		EmployeeEmail:    r.EmployeeEmail.String,
		CourseTitle:      r.CourseTitle.String,
		ScheduledHours:   r.ScheduledHours,
		ScheduledMonth:   r.ScheduledMonth,
		ScheduledYear:    r.ScheduledYear,
		Modality:         r.Modality,
		Classification:   r.Classification,
		SponsoringEntity: r.SponsoringEntity,
		Realizado:        r.Realizado,
		Graduado:         r.Graduado,
		Cancelado:        r.Cancelado,
		Aplica:           r.Aplica,
		Eficiente:        r.Eficiente,
		Impreso:          r.Impreso,
		Nota:             r.Nota,
		Buenas:           r.Buenas,
		CorreoEnviado:    r.CorreoEnviado,
		FechaUltimoEmail: r.FechaUltimoEmail,
		TotalEnvios:      r.TotalEnvios,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toDomainSlice(rows []recordRow) []training.Record {
	records := make([]training.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toDomain())
	}
	return records
}

const recordColumns = `tr.id, tr.employee_id, tr.course_id,
	tr.scheduled_hours, tr.scheduled_month, tr.scheduled_year,
	tr.modality, tr.classification, tr.sponsoring_entity,
	tr.realizado, tr.graduado, tr.cancelado, tr.aplica, tr.eficiente, tr.impreso,
	tr.nota, tr.buenas, tr.correo_enviado, tr.fecha_ultimo_email, tr.total_envios,
	tr.created_at, tr.updated_at`

type trainingRepository struct {
	db core.DBExecutor
}

var _ training.Repository = (*trainingRepository)(nil)

var rosterOrder = core.DBOrdering{Field: "tr.id", Ascending: true}

func NewTrainingRepository(db core.DBExecutor) *trainingRepository {
	return &trainingRepository{db: db}
}

func (repo trainingRepository) AssignEmployees(ctx context.Context, courseID int, employeeIDs []int) (int, error) {
	if len(employeeIDs) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	builder := psql.
		Insert("training_record").
		Columns("employee_id", "course_id", "created_at", "updated_at")
	for _, empID := range employeeIDs {
		builder = builder.Values(empID, courseID, now, now)
	}
	// idempotent on (employee_id, course_id): re-running a rule never
	// duplicates rows for employees already assigned
	query, args, err := builder.Suffix("ON CONFLICT (employee_id, course_id) DO NOTHING").ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building record insert")
	}

	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "inserting training records")
	}
	created, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "counting inserted records")
	}
	return int(created), nil
}

func (repo trainingRepository) QueryRecordsByEmployee(ctx context.Context, employeeID int) ([]training.Record, error) {
	query, args, err := psql.
		Select(recordColumns, "c.title AS course_title").
		From("training_record tr").
		Join("course c ON c.id = tr.course_id").
		Where(sq.Eq{"tr.employee_id": employeeID}).
		OrderBy(rosterOrder.String()).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building employee records query")
	}

	var rows []recordRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying employee records")
	}
	return toDomainSlice(rows), nil
}

func (repo trainingRepository) QueryRecordPage(ctx context.Context, courseID int, page core.Page) ([]training.Record, int, error) {
	var total int
	if err := repo.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM training_record WHERE course_id = $1", courseID); err != nil {
		return nil, 0, errors.Wrap(err, "counting training records")
	}

	query, args, err := psql.
		Select(recordColumns,
			"e.first_name || ' ' || e.last_name AS employee_name",
			"e.email AS employee_email",
		).
		From("training_record tr").
		Join("employee e ON e.id = tr.employee_id").
		Where(sq.Eq{"tr.course_id": courseID}).
		OrderBy(rosterOrder.String()).
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "building record page query")
	}

	var rows []recordRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying record page")
	}
	return toDomainSlice(rows), total, nil
}

func (repo trainingRepository) ApplyQuizOutcome(ctx context.Context, employeeID, courseID int, outcome training.QuizOutcome) error {
	now := time.Now().UTC()
	// upsert keyed on (employee_id, course_id): a second submission is a
	// retake and overwrites the previous result (no attempt history)
	query, args, err := psql.
		Insert("training_record").
		Columns("employee_id", "course_id", "realizado", "graduado", "nota", "buenas", "created_at", "updated_at").
		Values(employeeID, courseID, true, outcome.Graduado, outcome.Nota, outcome.Buenas, now, now).
		Suffix(`ON CONFLICT (employee_id, course_id) DO UPDATE
			SET realizado = TRUE,
			    graduado = EXCLUDED.graduado,
			    nota = EXCLUDED.nota,
			    buenas = EXCLUDED.buenas,
			    updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building outcome upsert")
	}
	if _, err := repo.db.ExecContext(ctx, query, args...); err != nil {
		// the insert arm trips an FK when the employee or course id is not
		// in the directory; surface that as a lookup miss, not a 500
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			if strings.Contains(pqErr.Constraint, "employee") {
				return employee.ErrNotFound
			}
			return course.ErrNotFound
		}
		return errors.Wrap(err, "upserting quiz outcome")
	}
	return nil
}

func (repo trainingRepository) MarkReminderSent(ctx context.Context, recordID int) error {
	// single relative update: the increment must never be computed from a
	// possibly-stale application-side read
	res, err := repo.db.ExecContext(ctx, `
		UPDATE training_record
		SET correo_enviado = TRUE,
		    fecha_ultimo_email = now(),
		    total_envios = total_envios + 1,
		    updated_at = now()
		WHERE id = $1`, recordID)
	if err != nil {
		return errors.Wrap(err, "updating reminder ledger")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "checking ledger update")
	}
	if n == 0 {
		return training.ErrNotFound
	}
	return nil
}

func (repo trainingRepository) DeleteRecordsByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := psql.Delete("training_record").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building record delete")
	}
	if _, err := repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting training records")
	}
	return nil
}
