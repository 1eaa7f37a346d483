package course

import "github.com/volatiletech/null/v8"

// Row is one record of the flat, left-joined course query: course columns are
// repeated on every row, question/answer columns are null when a course has
// no questions yet.
type Row struct {
	CourseID      int         `db:"course_id"`
	Title         string      `db:"title"`
	Description   string      `db:"description"`
	Link1         null.String `db:"link1"`
	Link2         null.String `db:"link2"`
	Link3         null.String `db:"link3"`
	Link4         null.String `db:"link4"`
	PassThreshold int         `db:"pass_threshold"`
	CreatedAt     null.Time   `db:"created_at"`
	UpdatedAt     null.Time   `db:"updated_at"`

	QuestionID     null.Int    `db:"question_id"`
	QuestionPrompt null.String `db:"question_prompt"`
	QuestionType   null.String `db:"question_type"`

	AnswerID      null.Int    `db:"answer_id"`
	AnswerText    null.String `db:"answer_text"`
	AnswerCorrect null.Bool   `db:"answer_correct"`
}

// BuildCourses assembles flat join rows into nested Course aggregates.
// First-seen order is preserved for courses, questions and answers; the
// question order it yields is the one quiz navigation and scoring use, so the
// caller must feed rows in a stable order. Duplicate identifiers caused by
// the join fan-out are skipped.
func BuildCourses(rows []Row) []Course {
	var courses []Course
	courseIdx := make(map[int]int)              // course id -> index in courses
	questionIdx := make(map[int]map[int]int)    // course id -> question id -> index
	answerSeen := make(map[int]map[int]bool)    // question id -> answer id -> seen

	for _, row := range rows {
		ci, ok := courseIdx[row.CourseID]
		if !ok {
			courses = append(courses, Course{
				ID:            row.CourseID,
				Title:         row.Title,
				Description:   row.Description,
				Link1:         row.Link1.String,
				Link2:         row.Link2.String,
				Link3:         row.Link3.String,
				Link4:         row.Link4.String,
				PassThreshold: row.PassThreshold,
				CreatedAt:     row.CreatedAt.Time,
				UpdatedAt:     row.UpdatedAt.Time,
			})
			ci = len(courses) - 1
			courseIdx[row.CourseID] = ci
			questionIdx[row.CourseID] = make(map[int]int)
		}

		// rows without a question only contribute the course shell
		if !row.QuestionID.Valid {
			continue
		}
		qID := row.QuestionID.Int

		qi, ok := questionIdx[row.CourseID][qID]
		if !ok {
			qType := row.QuestionType.String
			if qType == "" {
				qType = QuestionTypeSingleChoice
			}
			courses[ci].Questions = append(courses[ci].Questions, Question{
				ID:     qID,
				Prompt: row.QuestionPrompt.String,
				Type:   qType,
			})
			qi = len(courses[ci].Questions) - 1
			questionIdx[row.CourseID][qID] = qi
			answerSeen[qID] = make(map[int]bool)
		}

		if !row.AnswerID.Valid || answerSeen[qID][row.AnswerID.Int] {
			continue
		}
		answerSeen[qID][row.AnswerID.Int] = true
		courses[ci].Questions[qi].Answers = append(courses[ci].Questions[qi].Answers, Answer{
			ID:      row.AnswerID.Int,
			Text:    row.AnswerText.String,
			Correct: row.AnswerCorrect.Bool,
		})
	}
	return courses
}

// BuildCourse assembles the rows of a single-course query; ok is false when
// no rows were supplied.
func BuildCourse(rows []Row) (Course, bool) {
	courses := BuildCourses(rows)
	if len(courses) == 0 {
		return Course{}, false
	}
	return courses[0], true
}
