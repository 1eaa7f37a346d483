package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/capacitahr/capacita/core"
	"github.com/capacitahr/capacita/core/course"
)

type courseShellRow struct {
	ID            int         `db:"id"`
	Title         string      `db:"title"`
	Description   string      `db:"description"`
	Link1         null.String `db:"link1"`
	Link2         null.String `db:"link2"`
	Link3         null.String `db:"link3"`
	Link4         null.String `db:"link4"`
	PassThreshold int         `db:"pass_threshold"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func (r courseShellRow) toDomain() course.Course {
	return course.Course{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Link1:         r.Link1.String,
		Link2:         r.Link2.String,
		Link3:         r.Link3.String,
		Link4:         r.Link4.String,
		PassThreshold: r.PassThreshold,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type courseRepository struct {
	db *sqlx.DB
}

var (
	questionOrder = core.DBOrdering{Field: "q.id", Ascending: true}
	answerOrder   = core.DBOrdering{Field: "a.id", Ascending: true}
)

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "beginning tx")
	}
	return createCourseTx(ctx, tx, crs)
}

// createCourseTx inserts the full course aggregate and settles tx either way.
func createCourseTx(ctx context.Context, tx core.DBTransactor, crs course.Course) (course.Course, error) {
	defer func() { _ = tx.Rollback() }()

	query, args, err := psql.
		Insert("course").
		Columns("title", "description", "link1", "link2", "link3", "link4", "pass_threshold", "created_at", "updated_at").
		Values(
			crs.Title, crs.Description,
			null.NewString(crs.Link1, crs.Link1 != ""),
			null.NewString(crs.Link2, crs.Link2 != ""),
			null.NewString(crs.Link3, crs.Link3 != ""),
			null.NewString(crs.Link4, crs.Link4 != ""),
			crs.PassThreshold, crs.CreatedAt, crs.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return course.Course{}, errors.Wrap(err, "building course insert")
	}
	if err := tx.GetContext(ctx, &crs.ID, query, args...); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}

	for qi := range crs.Questions {
		q := &crs.Questions[qi]
		query, args, err = psql.
			Insert("question").
			Columns("course_id", "prompt", "qtype").
			Values(crs.ID, q.Prompt, q.Type).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return course.Course{}, errors.Wrap(err, "building question insert")
		}
		if err := tx.GetContext(ctx, &q.ID, query, args...); err != nil {
			return course.Course{}, errors.Wrap(err, "inserting question")
		}

		for ai := range q.Answers {
			a := &q.Answers[ai]
			query, args, err = psql.
				Insert("answer").
				Columns("question_id", "text", "correct").
				Values(q.ID, a.Text, a.Correct).
				Suffix("RETURNING id").
				ToSql()
			if err != nil {
				return course.Course{}, errors.Wrap(err, "building answer insert")
			}
			if err := tx.GetContext(ctx, &a.ID, query, args...); err != nil {
				return course.Course{}, errors.Wrap(err, "inserting answer")
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return course.Course{}, errors.Wrap(err, "committing course insert")
	}
	return crs, nil
}

func (repo courseRepository) GetCourseRows(ctx context.Context, id int) ([]course.Row, error) {
	// one row per answer; question/answer columns are null for courses
	// without questions. Stable order drives quiz question ordering.
	query, args, err := psql.
		Select(
			"c.id AS course_id", "c.title", "c.description",
			"c.link1", "c.link2", "c.link3", "c.link4",
			"c.pass_threshold", "c.created_at", "c.updated_at",
			"q.id AS question_id", "q.prompt AS question_prompt", "q.qtype AS question_type",
			"a.id AS answer_id", "a.text AS answer_text", "a.correct AS answer_correct",
		).
		From("course c").
		LeftJoin("question q ON q.course_id = c.id").
		LeftJoin("answer a ON a.question_id = q.id").
		Where(sq.Eq{"c.id": id}).
		OrderBy(questionOrder.String(), answerOrder.String()).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building course rows query")
	}

	var rows []course.Row
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying course rows")
	}
	return rows, nil
}

func (repo courseRepository) QueryCoursePage(ctx context.Context, page core.Page) ([]course.Course, int, error) {
	var total int
	if err := repo.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM course"); err != nil {
		return nil, 0, errors.Wrap(err, "counting courses")
	}

	query, args, err := psql.
		Select("id", "title", "description", "link1", "link2", "link3", "link4", "pass_threshold", "created_at", "updated_at").
		From("course").
		OrderBy(byIDAsc.String()).
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "building course page query")
	}

	var rows []courseShellRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying course page")
	}

	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toDomain())
	}
	return courses, total, nil
}

func (repo courseRepository) DeleteCoursesByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := psql.Delete("course").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building course delete")
	}
	if _, err := repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return nil
}
