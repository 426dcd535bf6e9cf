package genai

import (
	"testing"

	"github.com/lectern-app/lectern-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourOptions(correct ...int) []models.QuizOption {
	options := []models.QuizOption{
		{Text: "A"}, {Text: "B"}, {Text: "C"}, {Text: "D"},
	}
	for _, i := range correct {
		options[i].IsCorrect = true
	}
	return options
}

func TestRepairQuestions(t *testing.T) {
	t.Run("zero correct forces first option", func(t *testing.T) {
		repaired := RepairQuestions([]models.QuizQuestion{
			{QuestionText: "Q", Options: fourOptions(), Points: 1},
		})

		require.Len(t, repaired, 1)
		assert.True(t, repaired[0].Options[0].IsCorrect)
		assert.Equal(t, 1, repaired[0].CorrectCount())
	})

	t.Run("multiple correct keeps only the first", func(t *testing.T) {
		repaired := RepairQuestions([]models.QuizQuestion{
			{QuestionText: "Q", Options: fourOptions(1, 3), Points: 2},
		})

		require.Len(t, repaired, 1)
		assert.False(t, repaired[0].Options[0].IsCorrect)
		assert.True(t, repaired[0].Options[1].IsCorrect)
		assert.False(t, repaired[0].Options[3].IsCorrect)
		assert.Equal(t, 1, repaired[0].CorrectCount())
	})

	t.Run("single correct untouched", func(t *testing.T) {
		repaired := RepairQuestions([]models.QuizQuestion{
			{QuestionText: "Q", Options: fourOptions(2), Points: 3},
		})

		assert.True(t, repaired[0].Options[2].IsCorrect)
		assert.Equal(t, 3, repaired[0].Points)
	})

	t.Run("points default to one", func(t *testing.T) {
		repaired := RepairQuestions([]models.QuizQuestion{
			{QuestionText: "Q", Options: fourOptions(0), Points: 0},
			{QuestionText: "Q2", Options: fourOptions(0), Points: -5},
		})

		assert.Equal(t, 1, repaired[0].Points)
		assert.Equal(t, 1, repaired[1].Points)
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		original := []models.QuizQuestion{
			{QuestionText: "Q", Options: fourOptions(1, 2), Points: 1},
		}

		RepairQuestions(original)
		assert.Equal(t, 2, original[0].CorrectCount())
	})
}

func TestValidateQuestions(t *testing.T) {
	valid := func() []models.QuizQuestion {
		return []models.QuizQuestion{
			{QuestionText: "Q", Options: fourOptions(0), Points: 1},
		}
	}

	t.Run("valid set passes", func(t *testing.T) {
		assert.NoError(t, ValidateQuestions(valid(), 1))
	})

	t.Run("count enforced when positive", func(t *testing.T) {
		assert.Error(t, ValidateQuestions(valid(), 5))
		assert.NoError(t, ValidateQuestions(valid(), 0))
	})

	t.Run("empty set rejected", func(t *testing.T) {
		assert.Error(t, ValidateQuestions(nil, 0))
	})

	t.Run("wrong option count rejected", func(t *testing.T) {
		questions := valid()
		questions[0].Options = questions[0].Options[:3]
		assert.Error(t, ValidateQuestions(questions, 1))
	})

	t.Run("empty question text rejected", func(t *testing.T) {
		questions := valid()
		questions[0].QuestionText = ""
		assert.Error(t, ValidateQuestions(questions, 1))
	})

	t.Run("two correct options rejected", func(t *testing.T) {
		questions := valid()
		questions[0].Options[2].IsCorrect = true
		assert.Error(t, ValidateQuestions(questions, 1))
	})
}
