package app

import (
	"math"

	"gameshow-quiz-service/internal/domain"
)

const (
	correctMessage   = "Awesome!"
	incorrectMessage = "Oops, try again!"
)

// Evaluate scores a submission against the stored answer key. A correct
// answer earns half of the question's points, plus up to the other half
// scaled linearly by the time left. Without a timeTaken the full points are
// awarded.
func Evaluate(def domain.GameshowDefinition, submission domain.AnswerSubmission) (domain.AnswerResult, error) {
	var question *domain.Question
	for i := range def.Questions {
		if def.Questions[i].ID == submission.QuestionID {
			question = &def.Questions[i]
			break
		}
	}
	if question == nil {
		return domain.AnswerResult{}, domain.ErrQuestionNotFound
	}

	var selected *domain.Option
	for i := range question.Options {
		if question.Options[i].ID == submission.SelectedOptionID {
			selected = &question.Options[i]
			break
		}
	}
	if selected == nil {
		return domain.AnswerResult{}, domain.ErrOptionNotFound
	}

	result := domain.AnswerResult{
		IsCorrect:       selected.IsCorrect,
		CorrectOptionID: correctOptionID(*question),
		Message:         incorrectMessage,
	}
	if selected.IsCorrect {
		result.Score = earnedPoints(*question, submission.TimeTaken)
		result.Message = correctMessage
	}
	return result, nil
}

func earnedPoints(q domain.Question, timeTaken *float64) int {
	maxPoints := maxPointsFor(q)
	if timeTaken == nil {
		return int(math.Round(maxPoints))
	}
	timeRatio := 0.0
	if q.TimeLimit > 0 {
		timeRatio = math.Max(0, (q.TimeLimit-*timeTaken)/q.TimeLimit)
	}
	return int(math.Round(maxPoints*0.5 + maxPoints*0.5*timeRatio))
}

// maxPointsFor treats zero points as unset.
func maxPointsFor(q domain.Question) float64 {
	if q.Points == 0 {
		return domain.DefaultPoints
	}
	return q.Points
}

func correctOptionID(q domain.Question) string {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.ID
		}
	}
	return ""
}
