package workers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lectern-app/lectern-api/internal/models"
	"github.com/lectern-app/lectern-api/internal/services/jobs"
	"github.com/lectern-app/lectern-api/internal/services/transcripts"
)

// MergeProcessor processes transcript merge jobs
type MergeProcessor struct {
	transcriptService transcripts.Service
	jobService        jobs.Service
}

// NewMergeProcessor creates a new merge processor
func NewMergeProcessor(transcriptService transcripts.Service, jobService jobs.Service) *MergeProcessor {
	return &MergeProcessor{
		transcriptService: transcriptService,
		jobService:        jobService,
	}
}

// CanProcess returns true for transcript merge jobs
func (p *MergeProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeTranscriptMerge
}

// ProcessJob merges the chunks of the job's video into the canonical
// transcript. A video whose chunks are still in flight is released back to
// the queue; a chunk set where every chunk failed is a permanent failure
// for the job.
func (p *MergeProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	videoID, ok := job.GetPayloadString("video_id")
	if !ok || videoID == "" {
		return models.NewSystemError("missing_payload", "merge job has no video_id", "", nil)
	}

	log.Printf("[DEBUG] Processing merge job %d for video %s", job.ID, videoID)

	merged, err := p.transcriptService.Merge(ctx, videoID)
	if err != nil {
		switch {
		case errors.Is(err, transcripts.ErrJobNotFound):
			return models.NewNotFoundError("transcript_not_found",
				fmt.Sprintf("no transcript job for video %s", videoID), err.Error(), err)
		case errors.Is(err, transcripts.ErrNotReady):
			// Chunks still in flight; retry on a later claim
			return models.NewMergeError("not_ready",
				fmt.Sprintf("video %s has chunks still processing", videoID), err.Error(), err)
		case errors.Is(err, transcripts.ErrAllChunksFailed), errors.Is(err, transcripts.ErrNoChunks):
			// No retry can conjure usable chunks out of an all-failed set
			return models.NewNotFoundError("nothing_to_merge",
				fmt.Sprintf("video %s produced no usable chunks", videoID), err.Error(), err)
		default:
			return models.NewSystemError("merge_failed",
				fmt.Sprintf("merging video %s", videoID), err.Error(), err)
		}
	}

	result := models.JobResult{
		"video_id":   merged.VideoID,
		"word_count": merged.WordCount,
		"language":   merged.Language,
		"status":     string(merged.Status),
	}

	if err := p.jobService.CompleteJob(ctx, job.ID, result); err != nil {
		return fmt.Errorf("completing merge job %d: %w", job.ID, err)
	}

	return nil
}
