package generation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/lectern-app/lectern-api/internal/models"
)

type service struct {
	repo             Repository
	generator        Generator
	source           SourceProvider
	generatorVersion string

	// keyLocks serializes in-process generation per key so a burst of
	// identical requests performs one model call instead of N
	keyLocks sync.Map

	mu       sync.Mutex
	statuses map[string]Status
}

// NewService creates a new generation orchestrator
func NewService(repo Repository, generator Generator, source SourceProvider, generatorVersion string) Service {
	return &service{
		repo:             repo,
		generator:        generator,
		source:           source,
		generatorVersion: generatorVersion,
		statuses:         make(map[string]Status),
	}
}

// EnsureArtifact returns the artifact for the key, generating it exactly once.
// Idempotency is enforced twice: the per-key lock collapses concurrent
// in-process callers, and the unique index catches races the lock cannot see
// (other processes, restarts mid-flight).
func (s *service) EnsureArtifact(ctx context.Context, key models.GenerationKey, params Params) (*models.GeneratedArtifact, bool, error) {
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.repo.GetByKey(ctx, key)
	if err == nil {
		return existing, false, nil
	}
	if err != ErrArtifactNotFound {
		return nil, false, err
	}

	job, err := s.source.GetByVideoID(ctx, key.SubjectID)
	if err != nil {
		return nil, false, fmt.Errorf("loading source for %s: %w", key, err)
	}
	if job.Status != models.TranscriptStatusCompleted || job.CanonicalText == "" {
		return nil, false, ErrSourceNotReady
	}

	s.setStatus(key, StatusInProgress)

	content, err := s.generate(ctx, key.Feature, job.CanonicalText, params)
	if err != nil {
		s.setStatus(key, StatusFailed)
		log.Printf("[ERROR] Generation failed for %s: %v", key, err)
		return nil, false, err
	}

	artifact := &models.GeneratedArtifact{
		OwnerID:          key.OwnerID,
		SubjectID:        key.SubjectID,
		FeatureKind:      key.Feature,
		SourceTextHash:   hashText(job.CanonicalText),
		GeneratorVersion: s.generatorVersion,
		Content:          content,
	}

	if err := s.repo.Create(ctx, artifact); err != nil {
		if err == ErrArtifactExists {
			// Lost the race to another process; the winner's artifact is
			// the canonical one
			s.clearStatus(key)
			winner, getErr := s.repo.GetByKey(ctx, key)
			if getErr != nil {
				return nil, false, getErr
			}
			return winner, false, nil
		}
		s.setStatus(key, StatusFailed)
		return nil, false, err
	}

	s.clearStatus(key)
	log.Printf("[DEBUG] Generated %s artifact for %s/%s", key.Feature, key.OwnerID, key.SubjectID)

	return artifact, true, nil
}

// GetArtifact retrieves a persisted artifact
func (s *service) GetArtifact(ctx context.Context, key models.GenerationKey) (*models.GeneratedArtifact, error) {
	return s.repo.GetByKey(ctx, key)
}

// Status reports the lifecycle state of a generation key. A persisted
// artifact always wins over any in-memory bookkeeping.
func (s *service) Status(ctx context.Context, key models.GenerationKey) (Status, error) {
	_, err := s.repo.GetByKey(ctx, key)
	if err == nil {
		return StatusReady, nil
	}
	if err != ErrArtifactNotFound {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.statuses[key.String()]; ok {
		return status, nil
	}
	return StatusNotStarted, nil
}

func (s *service) generate(ctx context.Context, feature models.FeatureKind, sourceText string, params Params) (models.ArtifactContent, error) {
	switch feature {
	case models.FeatureNotes:
		var notes models.NotesContent
		if err := s.generator.GenerateJSON(ctx, buildNotesPrompt(sourceText), &notes); err != nil {
			return nil, err
		}
		return marshalContent(notes)

	case models.FeatureQuizQuestions:
		count := params.QuestionCount
		if count <= 0 {
			count = DefaultQuestionCount
		}
		difficulty := params.Difficulty
		if difficulty == "" {
			difficulty = DefaultDifficulty
		}
		questions, err := s.generator.GenerateQuestions(ctx, buildQuizPrompt(sourceText, count, difficulty), count)
		if err != nil {
			return nil, err
		}
		return marshalContent(questions)

	case models.FeatureFeedback:
		var feedback models.FeedbackContent
		if err := s.generator.GenerateJSON(ctx, buildFeedbackPrompt(sourceText), &feedback); err != nil {
			return nil, err
		}
		return marshalContent(feedback)

	default:
		return nil, fmt.Errorf("unknown feature kind: %q", feature)
	}
}

func (s *service) lockFor(key models.GenerationKey) *sync.Mutex {
	actual, _ := s.keyLocks.LoadOrStore(key.String(), &sync.Mutex{})
	return actual.(*sync.Mutex)
}

func (s *service) setStatus(key models.GenerationKey, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[key.String()] = status
}

func (s *service) clearStatus(key models.GenerationKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.statuses, key.String())
}

func marshalContent(v interface{}) (models.ArtifactContent, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding artifact content: %w", err)
	}
	return models.ArtifactContent(data), nil
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
