package course

import "math"

type (
	// SubmittedAnswer is one learner choice: at most one per question
	// (single-choice). Extra entries for the same question are ignored.
	SubmittedAnswer struct {
		QuestionID int `json:"question_id" validate:"required"`
		AnswerID   int `json:"answer_id" validate:"required"`
	}

	QuestionResult struct {
		QuestionID int  `json:"question_id"`
		AnswerID   int  `json:"answer_id"` // 0 when unanswered
		Correct    bool `json:"correct"`
	}

	QuizResult struct {
		Results      []QuestionResult `json:"results"`
		CorrectCount int              `json:"correct_count"`
		Percentage   int              `json:"percentage"`
		Passed       bool             `json:"passed"`
	}
)

// Score grades a submission against the course answer key.
//
// The denominator is the course's question count, never the submission's:
// unanswered questions count as incorrect, and submitted question ids that do
// not belong to the course are ignored. Passed is inclusive of the threshold;
// a threshold of 0 means no gating.
func Score(crs Course, submitted []SubmittedAnswer) QuizResult {
	choices := make(map[int]int, len(submitted)) // question id -> chosen answer id
	for _, sa := range submitted {
		if _, ok := choices[sa.QuestionID]; !ok {
			choices[sa.QuestionID] = sa.AnswerID
		}
	}

	res := QuizResult{Results: make([]QuestionResult, 0, len(crs.Questions))}
	for _, q := range crs.Questions {
		qr := QuestionResult{QuestionID: q.ID}
		if answerID, ok := choices[q.ID]; ok {
			qr.AnswerID = answerID
			for _, a := range q.Answers {
				if a.ID == answerID {
					qr.Correct = a.Correct
					break
				}
			}
		}
		if qr.Correct {
			res.CorrectCount++
		}
		res.Results = append(res.Results, qr)
	}

	if total := len(crs.Questions); total > 0 {
		res.Percentage = int(math.Round(float64(res.CorrectCount) / float64(total) * 100))
	}
	res.Passed = res.Percentage >= crs.PassThreshold
	return res
}
