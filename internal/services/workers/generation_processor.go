package workers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lectern-app/lectern-api/internal/models"
	"github.com/lectern-app/lectern-api/internal/services/genai"
	"github.com/lectern-app/lectern-api/internal/services/generation"
	"github.com/lectern-app/lectern-api/internal/services/jobs"
)

// GenerationProcessor processes artifact generation jobs
type GenerationProcessor struct {
	generationService generation.Service
	jobService        jobs.Service
}

// NewGenerationProcessor creates a new generation processor
func NewGenerationProcessor(generationService generation.Service, jobService jobs.Service) *GenerationProcessor {
	return &GenerationProcessor{
		generationService: generationService,
		jobService:        jobService,
	}
}

// CanProcess returns true for artifact generation jobs
func (p *GenerationProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeArtifactGeneration
}

// ProcessJob ensures the artifact for the job's generation key exists.
// EnsureArtifact is idempotent, so a retried job that already generated on
// a previous attempt just returns the persisted artifact.
func (p *GenerationProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	ownerID, ok := job.GetPayloadString("owner_id")
	if !ok || ownerID == "" {
		return models.NewSystemError("missing_payload", "generation job has no owner_id", "", nil)
	}
	subjectID, ok := job.GetPayloadString("subject_id")
	if !ok || subjectID == "" {
		return models.NewSystemError("missing_payload", "generation job has no subject_id", "", nil)
	}
	featureRaw, ok := job.GetPayloadString("feature_kind")
	if !ok {
		return models.NewSystemError("missing_payload", "generation job has no feature_kind", "", nil)
	}

	feature, err := models.ParseFeatureKind(featureRaw)
	if err != nil {
		return models.NewGenerationError("unknown_feature", err.Error(), "", err)
	}

	key := models.GenerationKey{OwnerID: ownerID, SubjectID: subjectID, Feature: feature}

	params := generation.Params{}
	if count, ok := job.GetPayloadInt("question_count"); ok {
		params.QuestionCount = count
	}
	if difficulty, ok := job.GetPayloadString("difficulty"); ok {
		params.Difficulty = difficulty
	}

	log.Printf("[DEBUG] Processing generation job %d for key %s", job.ID, key)

	artifact, created, err := p.generationService.EnsureArtifact(ctx, key, params)
	if err != nil {
		return p.classifyError(key, err)
	}

	result := models.JobResult{
		"artifact_id": artifact.ID,
		"created":     created,
	}

	if err := p.jobService.CompleteJob(ctx, job.ID, result); err != nil {
		return fmt.Errorf("completing generation job %d: %w", job.ID, err)
	}

	return nil
}

// classifyError maps generation failures onto job error classifications so
// the queue can decide between retry and permanent failure
func (p *GenerationProcessor) classifyError(key models.GenerationKey, err error) error {
	if errors.Is(err, generation.ErrSourceNotReady) {
		// Transcript may still be merging; worth a later retry
		return models.NewGenerationError("source_not_ready",
			fmt.Sprintf("source transcript for %s is not ready", key), err.Error(), err)
	}

	var exhausted *genai.ExhaustedRetriesError
	if errors.As(err, &exhausted) {
		return models.NewGenerationError("retries_exhausted",
			fmt.Sprintf("generation for %s exhausted %d attempts", key, exhausted.Attempts), err.Error(), err)
	}

	if kind := genai.KindOf(err); kind != "" {
		if !kind.Retryable() {
			// Model credentials, request shape, or content policy: the same
			// request will fail the same way, so fail the job permanently
			return models.NewNotFoundError(string(kind),
				fmt.Sprintf("generation for %s failed terminally", key), err.Error(), err)
		}
		return models.NewGenerationError(string(kind),
			fmt.Sprintf("generation for %s failed", key), err.Error(), err)
	}

	return models.NewSystemError("generation_failed",
		fmt.Sprintf("generation for %s failed", key), err.Error(), err)
}
