package transcripts

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lectern-app/lectern-api/internal/models"
)

type service struct {
	repo Repository
}

// NewService creates a new transcript service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// IngestChunk records a chunk result from a transcription worker. The job is
// created on first chunk arrival. Chunks that already reached a terminal
// status are immutable and cannot be replaced.
func (s *service) IngestChunk(ctx context.Context, videoID string, chunk models.Chunk) (*models.TranscriptJob, bool, error) {
	job, err := s.repo.GetByVideoID(ctx, videoID)
	if err != nil {
		if err != ErrJobNotFound {
			return nil, false, err
		}

		now := time.Now().UTC()
		job = &models.TranscriptJob{
			VideoID:             videoID,
			Chunks:              models.ChunkList{chunk},
			Status:              models.TranscriptStatusProcessing,
			ProcessingStartedAt: &now,
		}
		if err := s.repo.Create(ctx, job); err != nil {
			return nil, false, err
		}

		log.Printf("[DEBUG] Created transcript job for video %s (chunk %d)", videoID, chunk.Index)
		return job, job.ReadyToMerge(), nil
	}

	replaced := false
	for i := range job.Chunks {
		if job.Chunks[i].Index == chunk.Index {
			if job.Chunks[i].IsTerminal() {
				return nil, false, ErrChunkImmutable
			}
			job.Chunks[i] = chunk
			replaced = true
			break
		}
	}
	if !replaced {
		job.Chunks = append(job.Chunks, chunk)
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, false, err
	}

	ready := job.ReadyToMerge()
	log.Printf("[DEBUG] Ingested chunk %d for video %s (status %s, ready=%t)",
		chunk.Index, videoID, chunk.Status, ready)

	return job, ready, nil
}

// Merge reduces the job's chunks into the canonical transcript. The
// readiness predicate gates merging; a chunk set where every chunk failed
// is a terminal merge failure for the video. A degraded transcript (some
// chunks failed) still completes: a usable partial transcript is preferred
// over blocking the pipeline.
func (s *service) Merge(ctx context.Context, videoID string) (*models.TranscriptJob, error) {
	job, err := s.repo.GetByVideoID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	counts := job.CountChunks()
	if counts.Total == 0 {
		return nil, ErrNoChunks
	}

	if counts.Processing > 0 || counts.Pending > 0 {
		return nil, ErrNotReady
	}

	if counts.Completed == 0 {
		job.Status = models.TranscriptStatusFailed
		now := time.Now().UTC()
		job.ProcessingEndedAt = &now
		if updateErr := s.repo.Update(ctx, job); updateErr != nil {
			return nil, updateErr
		}
		log.Printf("[ERROR] Merge failed for video %s: all %d chunks failed", videoID, counts.Total)
		return nil, ErrAllChunksFailed
	}

	result := mergeChunks(job.Chunks)

	now := time.Now().UTC()
	job.CanonicalText = result.Text
	job.WordCount = result.WordCount
	job.Language = result.Language
	job.TotalDurationSeconds = result.TotalDurationSeconds
	job.Status = models.TranscriptStatusCompleted
	job.ProcessingEndedAt = &now

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("persisting merged transcript: %w", err)
	}

	log.Printf("[DEBUG] Merged transcript for video %s: %d/%d chunks, %d words, language %q",
		videoID, counts.Completed, counts.Total, job.WordCount, job.Language)

	return job, nil
}

// GetByVideoID retrieves a transcript job
func (s *service) GetByVideoID(ctx context.Context, videoID string) (*models.TranscriptJob, error) {
	return s.repo.GetByVideoID(ctx, videoID)
}
