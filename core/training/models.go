package training

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var ErrNotFound = errors.New("training record not found")

// Record links one employee to one course ("capacitación") and is the single
// source of truth for that relationship: scheduling metadata, quiz outcome
// and the reminder ledger.
type Record struct {
	ID         int `json:"id"`
	EmployeeID int `json:"employee_id"`
	CourseID   int `json:"course_id"`

	// joined display data, not stored on the record itself
	EmployeeName  string `json:"employee_name,omitempty"`
	EmployeeEmail string `json:"employee_email,omitempty"`
	CourseTitle   string `json:"course_title,omitempty"`

	// scheduling metadata
	ScheduledHours   int    `json:"scheduled_hours"`
	ScheduledMonth   int    `json:"scheduled_month"`
	ScheduledYear    int    `json:"scheduled_year"`
	Modality         string `json:"modality"`
	Classification   string `json:"classification"`
	SponsoringEntity string `json:"sponsoring_entity"`

	// status/result block
	Realizado bool `json:"realizado"` // attempted
	Graduado  bool `json:"graduado"`  // passed
	Cancelado bool `json:"cancelado"` // withdrawn
	Aplica    bool `json:"aplica"`    // advisory efficiency-tracking flags
	Eficiente bool `json:"eficiente"`
	Impreso   bool `json:"impreso"` // certificate printed
	Nota      int  `json:"nota"`    // 0-100 score
	Buenas    int  `json:"buenas"`  // correct answer count

	// reminder ledger
	CorreoEnviado    bool      `json:"correo_enviado"`
	FechaUltimoEmail null.Time `json:"fecha_ultimo_email"`
	TotalEnvios      int       `json:"total_envios"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Pending reports whether the record is still actionable: not passed and not
// withdrawn. An attempted-but-failed record stays pending (eligible for retake).
func (r Record) Pending() bool {
	return !r.Graduado && !r.Cancelado
}

// Completed reports whether the record was attempted and passed.
func (r Record) Completed() bool {
	return r.Realizado && r.Graduado
}

// Dashboard buckets an employee's records for display.
type Dashboard struct {
	Pending   []Record `json:"pending"`
	Completed []Record `json:"completed"`
}

// Classify partitions records into pending vs completed. The predicates are
// intentionally not complements: a cancelled record lands in neither bucket.
func Classify(records []Record) Dashboard {
	dash := Dashboard{
		Pending:   make([]Record, 0, len(records)),
		Completed: make([]Record, 0, len(records)),
	}
	for _, rec := range records {
		if rec.Pending() {
			dash.Pending = append(dash.Pending, rec)
		}
		if rec.Completed() {
			dash.Completed = append(dash.Completed, rec)
		}
	}
	return dash
}

// QuizOutcome is the result block written back onto a record after a quiz
// attempt. Resubmission overwrites: there is no attempt history.
type QuizOutcome struct {
	Nota     int  `json:"nota" validate:"gte=0,lte=100"`
	Buenas   int  `json:"buenas" validate:"gte=0"`
	Graduado bool `json:"graduado"`
}

// RecordPage is the paginated roster payload for one course.
type RecordPage struct {
	Results      []Record `json:"results"`
	CurrentPage  int      `json:"current_page"`
	TotalPages   int      `json:"total_pages"`
	TotalRecords int      `json:"total_records"`
	HasNextPage  bool     `json:"has_next_page"`
	HasPrevPage  bool     `json:"has_prev_page"`
}
