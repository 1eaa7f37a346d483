package inmemdb

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/capacitahr/capacita/core"
	"github.com/capacitahr/capacita/core/course"
)

type CourseRepository struct {
	db *courseTable
}

var _ course.Repository = (*CourseRepository)(nil)

func NewCourseRepository(db *DB) *CourseRepository {
	return &CourseRepository{db: db.course}
}

func (r *CourseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	r.db.pkCount++
	crs.ID = r.db.pkCount
	for qi := range crs.Questions {
		r.db.pkCount++
		crs.Questions[qi].ID = r.db.pkCount
		for ai := range crs.Questions[qi].Answers {
			r.db.pkCount++
			crs.Questions[qi].Answers[ai].ID = r.db.pkCount
		}
	}
	stored := crs
	r.db.t[crs.ID] = &stored
	r.db.order = append(r.db.order, crs.ID)
	return crs, nil
}

// GetCourseRows flattens the stored aggregate back into join-shaped rows,
// mirroring what the SQL left join yields.
func (r *CourseRepository) GetCourseRows(ctx context.Context, id int) ([]course.Row, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	crs, ok := r.db.t[id]
	if !ok {
		return nil, nil
	}

	shell := course.Row{
		CourseID:      crs.ID,
		Title:         crs.Title,
		Description:   crs.Description,
		Link1:         null.NewString(crs.Link1, crs.Link1 != ""),
		Link2:         null.NewString(crs.Link2, crs.Link2 != ""),
		Link3:         null.NewString(crs.Link3, crs.Link3 != ""),
		Link4:         null.NewString(crs.Link4, crs.Link4 != ""),
		PassThreshold: crs.PassThreshold,
		CreatedAt:     null.TimeFrom(crs.CreatedAt),
		UpdatedAt:     null.TimeFrom(crs.UpdatedAt),
	}

	if len(crs.Questions) == 0 {
		return []course.Row{shell}, nil
	}

	var rows []course.Row
	for _, q := range crs.Questions {
		qRow := shell
		qRow.QuestionID = null.IntFrom(q.ID)
		qRow.QuestionPrompt = null.StringFrom(q.Prompt)
		qRow.QuestionType = null.StringFrom(q.Type)
		if len(q.Answers) == 0 {
			rows = append(rows, qRow)
			continue
		}
		for _, a := range q.Answers {
			aRow := qRow
			aRow.AnswerID = null.IntFrom(a.ID)
			aRow.AnswerText = null.StringFrom(a.Text)
			aRow.AnswerCorrect = null.BoolFrom(a.Correct)
			rows = append(rows, aRow)
		}
	}
	return rows, nil
}

func (r *CourseRepository) QueryCoursePage(ctx context.Context, page core.Page) ([]course.Course, int, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	total := len(r.db.order)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Size
	if end > total {
		end = total
	}

	courses := make([]course.Course, 0, end-start)
	for _, id := range r.db.order[start:end] {
		shell := *r.db.t[id]
		shell.Questions = nil
		courses = append(courses, shell)
	}
	return courses, total, nil
}

func (r *CourseRepository) DeleteCoursesByID(ctx context.Context, ids ...int) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, id := range ids {
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
