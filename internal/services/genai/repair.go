package genai

import (
	"fmt"

	"github.com/lectern-app/lectern-api/internal/models"
)

// MCQOptionCount is the required number of options per multiple-choice question
const MCQOptionCount = 4

// RepairQuestions normalizes generated multiple-choice questions so each has
// exactly one correct option. When the model marks none correct, the first
// option is forced correct; when it marks several, only the first marked
// option keeps the flag. Zero or negative point values default to 1.
func RepairQuestions(questions []models.QuizQuestion) []models.QuizQuestion {
	repaired := make([]models.QuizQuestion, len(questions))

	for i, question := range questions {
		options := make([]models.QuizOption, len(question.Options))
		copy(options, question.Options)

		correctSeen := false
		for j := range options {
			if options[j].IsCorrect {
				if correctSeen {
					options[j].IsCorrect = false
				}
				correctSeen = true
			}
		}
		if !correctSeen && len(options) > 0 {
			options[0].IsCorrect = true
		}

		question.Options = options
		if question.Points <= 0 {
			question.Points = 1
		}
		repaired[i] = question
	}

	return repaired
}

// ValidateQuestions checks the structural invariants of a repaired question
// set: expected count (when positive), non-empty question text, exactly
// MCQOptionCount options with non-empty text, and exactly one correct option.
func ValidateQuestions(questions []models.QuizQuestion, expectedCount int) error {
	if len(questions) == 0 {
		return fmt.Errorf("no questions generated")
	}
	if expectedCount > 0 && len(questions) != expectedCount {
		return fmt.Errorf("expected %d questions, got %d", expectedCount, len(questions))
	}

	for i, question := range questions {
		if question.QuestionText == "" {
			return fmt.Errorf("question %d: empty question text", i)
		}
		if len(question.Options) != MCQOptionCount {
			return fmt.Errorf("question %d: expected %d options, got %d", i, MCQOptionCount, len(question.Options))
		}
		for j, option := range question.Options {
			if option.Text == "" {
				return fmt.Errorf("question %d option %d: empty option text", i, j)
			}
		}
		if count := question.CorrectCount(); count != 1 {
			return fmt.Errorf("question %d: expected exactly one correct option, got %d", i, count)
		}
		if question.Points < 1 {
			return fmt.Errorf("question %d: points must be at least 1", i)
		}
	}

	return nil
}
