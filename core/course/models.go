package course

import (
	"strconv"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/capacitahr/capacita/core"
)

var ErrNotFound = errors.New("course not found")

// QuestionTypeSingleChoice is the only question type in use; the column is
// reserved for future multi-choice formats.
const QuestionTypeSingleChoice = "single_choice"

type (
	Answer struct {
		ID      int    `json:"id"`
		Text    string `json:"text"`
		Correct bool   `json:"correct"`
	}

	Question struct {
		ID      int      `json:"id"`
		Prompt  string   `json:"prompt"`
		Type    string   `json:"type"`
		Answers []Answer `json:"answers"`
	}

	Course struct {
		ID          int    `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`

		// optional resource links (induction videos etc.)
		Link1 string `json:"link1"`
		Link2 string `json:"link2"`
		Link3 string `json:"link3"`
		Link4 string `json:"link4"`

		// PassThreshold is a 0-100 percentage; 0 disables pass/fail gating.
		PassThreshold int `json:"pass_threshold"`

		Questions []Question `json:"questions"`

		CreatedAt time.Time `json:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at"` // UTC
	}
)

// NewAnswer contains information needed to create a new Answer.
type NewAnswer struct {
	Text    string `json:"text" validate:"required"`
	Correct bool   `json:"correct"`
}

// NewQuestion contains information needed to create a new Question.
type NewQuestion struct {
	Prompt  string      `json:"prompt" validate:"required"`
	Type    string      `json:"type"`
	Answers []NewAnswer `json:"answers" validate:"required,min=1,dive"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title         string        `json:"title" validate:"required"`
	Description   string        `json:"description"`
	Link1         string        `json:"link1"`
	Link2         string        `json:"link2"`
	Link3         string        `json:"link3"`
	Link4         string        `json:"link4"`
	PassThreshold int           `json:"pass_threshold" validate:"gte=0,lte=100"`
	Questions     []NewQuestion `json:"questions" validate:"omitempty,dive"`
}

// Validate checks struct tags and the creation-time invariant that every
// question carries at least one correct answer, so the scoring engine can
// assume it downstream.
func (nc *NewCourse) Validate(validate *validator.Validate, translator ut.Translator) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)

	if err := validate.Struct(nc); err != nil {
		return err
	}

	var flds []core.FieldError
	for i, q := range nc.Questions {
		var hasCorrect bool
		for _, a := range q.Answers {
			if a.Correct {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			flds = append(flds, core.FieldError{
				Field: "questions[" + strconv.Itoa(i) + "]",
				Error: "at least one answer must be marked correct",
			})
		}
	}
	if flds != nil {
		return core.NewValidationError(errors.New("invalid questions"), flds...)
	}
	return nil
}
