package generation

import (
	"context"
	"errors"

	"github.com/lectern-app/lectern-api/internal/models"
)

// Service errors
var (
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrArtifactExists   = errors.New("artifact already exists for this key")
	ErrSourceNotReady   = errors.New("source transcript is not ready")
)

// Status reports where a generation key sits in its lifecycle
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// Params tunes quiz generation. Zero values fall back to defaults.
type Params struct {
	QuestionCount int
	Difficulty    string
}

// Service defines the business logic interface for artifact generation.
// EnsureArtifact is idempotent per generation key: concurrent and repeated
// calls for the same key converge on a single persisted artifact.
type Service interface {
	// EnsureArtifact returns the artifact for the key, generating it on
	// first call. The second return reports whether this call created it.
	EnsureArtifact(ctx context.Context, key models.GenerationKey, params Params) (*models.GeneratedArtifact, bool, error)

	// GetArtifact retrieves a persisted artifact without triggering generation
	GetArtifact(ctx context.Context, key models.GenerationKey) (*models.GeneratedArtifact, error)

	// Status reports the generation lifecycle state for a key
	Status(ctx context.Context, key models.GenerationKey) (Status, error)
}

// Generator is the slice of the resilient client the orchestrator needs
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, out interface{}) error
	GenerateQuestions(ctx context.Context, prompt string, expectedCount int) ([]models.QuizQuestion, error)
}

// SourceProvider supplies the canonical text a generation request runs against
type SourceProvider interface {
	GetByVideoID(ctx context.Context, videoID string) (*models.TranscriptJob, error)
}

// Repository defines the interface for artifact persistence
type Repository interface {
	// Create persists a new artifact. Returns ErrArtifactExists when the
	// generation key is already taken.
	Create(ctx context.Context, artifact *models.GeneratedArtifact) error
	GetByKey(ctx context.Context, key models.GenerationKey) (*models.GeneratedArtifact, error)
}
