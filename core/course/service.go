package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/capacitahr/capacita/core"
)

type (
	Repository interface {
		// CreateCourse inserts the course along with its questions and
		// answers, returning the stored aggregate with generated ids.
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		// GetCourseRows returns the flat left-joined rows for one course in
		// stable (question id, answer id) order; empty when the course does
		// not exist.
		GetCourseRows(ctx context.Context, id int) ([]Row, error)
		// QueryCoursePage returns one page of course shells (no nested data)
		// plus the total course count.
		QueryCoursePage(ctx context.Context, page core.Page) ([]Course, int, error)
		DeleteCoursesByID(ctx context.Context, ids ...int) error
	}

	Service struct {
		repo Repository
	}

	// CoursePage is the paginated list payload.
	CoursePage struct {
		Results      []Course `json:"results"`
		CurrentPage  int      `json:"current_page"`
		TotalPages   int      `json:"total_pages"`
		TotalCourses int      `json:"total_courses"`
		HasNextPage  bool     `json:"has_next_page"`
		HasPrevPage  bool     `json:"has_prev_page"`
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Title:         nc.Title,
		Description:   nc.Description,
		Link1:         nc.Link1,
		Link2:         nc.Link2,
		Link3:         nc.Link3,
		Link4:         nc.Link4,
		PassThreshold: nc.PassThreshold,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, nq := range nc.Questions {
		qType := nq.Type
		if qType == "" {
			qType = QuestionTypeSingleChoice
		}
		q := Question{Prompt: nq.Prompt, Type: qType}
		for _, na := range nq.Answers {
			q.Answers = append(q.Answers, Answer{Text: na.Text, Correct: na.Correct})
		}
		crs.Questions = append(crs.Questions, q)
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Course, error) {
	rows, err := svc.repo.GetCourseRows(ctx, id)
	if err != nil {
		return Course{}, errors.Wrap(err, "querying course rows")
	}
	crs, ok := BuildCourse(rows)
	if !ok {
		return Course{}, ErrNotFound
	}
	return crs, nil
}

func (svc *Service) Paginate(ctx context.Context, page core.Page) (CoursePage, error) {
	courses, total, err := svc.repo.QueryCoursePage(ctx, page)
	if err != nil {
		return CoursePage{}, errors.Wrap(err, "querying course page")
	}
	totalPages := page.TotalPages(total)
	return CoursePage{
		Results:      courses,
		CurrentPage:  page.Number,
		TotalPages:   totalPages,
		TotalCourses: total,
		HasNextPage:  page.Number < totalPages,
		HasPrevPage:  page.Number > 1 && page.Number <= totalPages+1,
	}, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteCoursesByID(ctx, ids...)
}
