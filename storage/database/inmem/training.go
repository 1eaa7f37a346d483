package inmemdb

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/capacitahr/capacita/core"
	"github.com/capacitahr/capacita/core/course"
	"github.com/capacitahr/capacita/core/employee"
	"github.com/capacitahr/capacita/core/training"
)

type TrainingRepository struct {
	db      *trainingTable
	courses *courseTable
	emps    *employeeTable

	// NowFunc is mockable so ledger timestamps can be asserted in tests.
	NowFunc func() time.Time
}

var _ training.Repository = (*TrainingRepository)(nil)

func NewTrainingRepository(db *DB) *TrainingRepository {
	return &TrainingRepository{
		db:      db.training,
		courses: db.course,
		emps:    db.employee,
		NowFunc: time.Now,
	}
}

func (r *TrainingRepository) findByEmployeeAndCourse(employeeID, courseID int) *training.Record {
	for _, rec := range r.db.t {
		if rec.EmployeeID == employeeID && rec.CourseID == courseID {
			return rec
		}
	}
	return nil
}

func (r *TrainingRepository) AssignEmployees(ctx context.Context, courseID int, employeeIDs []int) (int, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	now := r.NowFunc().UTC()
	var created int
	for _, empID := range employeeIDs {
		if r.findByEmployeeAndCourse(empID, courseID) != nil {
			continue
		}
		r.db.pkCount++
		rec := &training.Record{
			ID:         r.db.pkCount,
			EmployeeID: empID,
			CourseID:   courseID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		r.db.t[rec.ID] = rec
		r.db.order = append(r.db.order, rec.ID)
		created++
	}
	return created, nil
}

func (r *TrainingRepository) QueryRecordsByEmployee(ctx context.Context, employeeID int) ([]training.Record, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var records []training.Record
	for _, id := range r.db.order {
		rec := r.db.t[id]
		if rec == nil || rec.EmployeeID != employeeID {
			continue
		}
		out := *rec
		r.courses.mutex.RLock()
		if crs, ok := r.courses.t[rec.CourseID]; ok {
			out.CourseTitle = crs.Title
		}
		r.courses.mutex.RUnlock()
		records = append(records, out)
	}
	return records, nil
}

func (r *TrainingRepository) QueryRecordPage(ctx context.Context, courseID int, page core.Page) ([]training.Record, int, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var all []training.Record
	for _, id := range r.db.order {
		rec := r.db.t[id]
		if rec == nil || rec.CourseID != courseID {
			continue
		}
		out := *rec
		r.emps.mutex.RLock()
		if emp, ok := r.emps.t[rec.EmployeeID]; ok {
			out.EmployeeName = emp.DisplayName()
			out.EmployeeEmail = emp.Email
		}
		r.emps.mutex.RUnlock()
		all = append(all, out)
	}

	total := len(all)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *TrainingRepository) ApplyQuizOutcome(ctx context.Context, employeeID, courseID int, outcome training.QuizOutcome) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	now := r.NowFunc().UTC()
	rec := r.findByEmployeeAndCourse(employeeID, courseID)
	if rec == nil {
		// same misses the SQL backend reports through its FK constraints
		r.emps.mutex.RLock()
		_, empOK := r.emps.t[employeeID]
		r.emps.mutex.RUnlock()
		if !empOK {
			return employee.ErrNotFound
		}
		r.courses.mutex.RLock()
		_, crsOK := r.courses.t[courseID]
		r.courses.mutex.RUnlock()
		if !crsOK {
			return course.ErrNotFound
		}

		r.db.pkCount++
		rec = &training.Record{
			ID:         r.db.pkCount,
			EmployeeID: employeeID,
			CourseID:   courseID,
			CreatedAt:  now,
		}
		r.db.t[rec.ID] = rec
		r.db.order = append(r.db.order, rec.ID)
	}
	rec.Realizado = true
	rec.Graduado = outcome.Graduado
	rec.Nota = outcome.Nota
	rec.Buenas = outcome.Buenas
	rec.UpdatedAt = now
	return nil
}

func (r *TrainingRepository) MarkReminderSent(ctx context.Context, recordID int) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	rec, ok := r.db.t[recordID]
	if !ok {
		return training.ErrNotFound
	}
	now := r.NowFunc().UTC()
	rec.CorreoEnviado = true
	rec.FechaUltimoEmail = null.TimeFrom(now)
	rec.TotalEnvios++
	rec.UpdatedAt = now
	return nil
}

func (r *TrainingRepository) DeleteRecordsByID(ctx context.Context, ids ...int) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, id := range ids {
		if _, ok := r.db.t[id]; !ok {
			continue
		}
		delete(r.db.t, id)
		for i, ordID := range r.db.order {
			if ordID == id {
				r.db.order = append(r.db.order[:i], r.db.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

// GetRecord is a test helper for asserting persisted state.
func (r *TrainingRepository) GetRecord(id int) (training.Record, bool) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	rec, ok := r.db.t[id]
	if !ok {
		return training.Record{}, false
	}
	return *rec, true
}

// SetCancelled is a test helper; cancellation is an admin workflow with no
// API surface here.
func (r *TrainingRepository) SetCancelled(id int, cancelled bool) bool {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	rec, ok := r.db.t[id]
	if !ok {
		return false
	}
	rec.Cancelado = cancelled
	rec.UpdatedAt = r.NowFunc().UTC()
	return true
}
