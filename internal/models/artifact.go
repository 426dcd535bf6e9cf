package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// FeatureKind identifies which learning artifact a generation request produces
type FeatureKind string

const (
	FeatureNotes         FeatureKind = "notes"
	FeatureQuizQuestions FeatureKind = "quiz_questions"
	FeatureFeedback      FeatureKind = "feedback"
)

// ParseFeatureKind validates a feature kind supplied by a caller
func ParseFeatureKind(s string) (FeatureKind, error) {
	switch FeatureKind(s) {
	case FeatureNotes, FeatureQuizQuestions, FeatureFeedback:
		return FeatureKind(s), nil
	default:
		return "", fmt.Errorf("unknown feature kind: %q", s)
	}
}

// GenerationKey is the idempotency identity of a generation request.
// At most one persisted artifact may exist per key.
type GenerationKey struct {
	OwnerID   string
	SubjectID string
	Feature   FeatureKind
}

func (k GenerationKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.OwnerID, k.SubjectID, k.Feature)
}

// ArtifactContent holds the feature-specific payload as raw JSON
type ArtifactContent json.RawMessage

// Value implements driver.Valuer interface for ArtifactContent
func (c ArtifactContent) Value() (driver.Value, error) {
	if len(c) == 0 {
		return nil, nil
	}
	return []byte(c), nil
}

// Scan implements sql.Scanner interface for ArtifactContent
func (c *ArtifactContent) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*c = append((*c)[:0], v...)
	case string:
		*c = ArtifactContent(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	return nil
}

// MarshalJSON passes the stored payload through untouched
func (c ArtifactContent) MarshalJSON() ([]byte, error) {
	if len(c) == 0 {
		return []byte("null"), nil
	}
	return c, nil
}

// UnmarshalJSON stores the payload verbatim
func (c *ArtifactContent) UnmarshalJSON(data []byte) error {
	*c = append((*c)[:0], data...)
	return nil
}

// GeneratedArtifact is a persisted generation result. The composite unique
// index on (owner_id, subject_id, feature_kind) is the storage-layer
// guarantee that a key is generated at most once.
type GeneratedArtifact struct {
	gorm.Model
	OwnerID          string          `json:"owner_id" gorm:"not null;uniqueIndex:idx_artifacts_key"`
	SubjectID        string          `json:"subject_id" gorm:"not null;uniqueIndex:idx_artifacts_key"`
	FeatureKind      FeatureKind     `json:"feature_kind" gorm:"not null;uniqueIndex:idx_artifacts_key"`
	SourceTextHash   string          `json:"source_text_hash"`
	GeneratorVersion string          `json:"generator_version"`
	Content          ArtifactContent `json:"content" gorm:"type:json"`
}

// Key returns the artifact's generation key
func (a *GeneratedArtifact) Key() GenerationKey {
	return GenerationKey{OwnerID: a.OwnerID, SubjectID: a.SubjectID, Feature: a.FeatureKind}
}

// TableName specifies the table name for GORM
func (GeneratedArtifact) TableName() string {
	return "generated_artifacts"
}

// QuizOption is one answer choice of a multiple-choice question
type QuizOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// QuizQuestion is one generated multiple-choice question. Invariant after
// repair: exactly four options, exactly one marked correct, points >= 1.
type QuizQuestion struct {
	QuestionText string       `json:"question_text"`
	Options      []QuizOption `json:"options"`
	Points       int          `json:"points"`
	Explanation  string       `json:"explanation"`
}

// CorrectCount returns how many options are flagged correct
func (q QuizQuestion) CorrectCount() int {
	count := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			count++
		}
	}
	return count
}

// NotesContent is the payload of a generated notes artifact
type NotesContent struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// FeedbackContent is the payload of a generated cognitive-load feedback artifact
type FeedbackContent struct {
	Assessment    string   `json:"assessment"`
	CognitiveLoad string   `json:"cognitive_load"` // low, moderate, high
	Suggestions   []string `json:"suggestions"`
}
