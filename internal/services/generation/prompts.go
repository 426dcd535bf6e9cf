package generation

import (
	"fmt"
	"strings"
)

const (
	DefaultQuestionCount = 5
	DefaultDifficulty    = "mixed"
)

// buildNotesPrompt asks for a structured study-notes payload
func buildNotesPrompt(sourceText string) string {
	var b strings.Builder
	b.WriteString("You are an educational content assistant. Read the lecture transcript below and produce study notes.\n\n")
	b.WriteString("Respond with a single JSON object and nothing else, in this shape:\n")
	b.WriteString(`{"summary": "two to four sentence overview", "key_points": ["point", "..."]}`)
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(sourceText)
	return b.String()
}

// buildQuizPrompt asks for multiple-choice questions in the canonical shape
func buildQuizPrompt(sourceText string, count int, difficulty string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an educational content assistant. Write %d multiple-choice questions of %s difficulty about the lecture transcript below.\n\n", count, difficulty)
	b.WriteString("Each question must have exactly 4 options with exactly one marked correct.\n")
	b.WriteString("Respond with a single JSON array and nothing else, where each element has this shape:\n")
	b.WriteString(`{"question_text": "...", "options": [{"text": "...", "is_correct": false}], "points": 1, "explanation": "..."}`)
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(sourceText)
	return b.String()
}

// buildFeedbackPrompt asks for a cognitive-load assessment of the material
func buildFeedbackPrompt(sourceText string) string {
	var b strings.Builder
	b.WriteString("You are an educational content assistant. Assess how demanding the lecture transcript below is for a student encountering the material for the first time.\n\n")
	b.WriteString("Respond with a single JSON object and nothing else, in this shape:\n")
	b.WriteString(`{"assessment": "...", "cognitive_load": "low|moderate|high", "suggestions": ["...", "..."]}`)
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(sourceText)
	return b.String()
}
