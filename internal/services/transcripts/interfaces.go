package transcripts

import (
	"context"
	"errors"

	"github.com/lectern-app/lectern-api/internal/models"
)

// Service errors
var (
	ErrJobNotFound     = errors.New("transcript job not found")
	ErrNoChunks        = errors.New("transcript job has no chunks")
	ErrAllChunksFailed = errors.New("all chunks failed transcription")
	ErrNotReady        = errors.New("transcript job is not ready to merge")
	ErrChunkImmutable  = errors.New("chunk is already terminal and cannot be updated")
)

// Service defines the business logic interface for transcript operations
type Service interface {
	// IngestChunk records a chunk result from a transcription worker,
	// creating the job on first arrival. The returned flag reports whether
	// the job became ready to merge.
	IngestChunk(ctx context.Context, videoID string, chunk models.Chunk) (*models.TranscriptJob, bool, error)

	// Merge reduces a ready job's chunk list into the canonical transcript.
	// Safe to call repeatedly; merging is deterministic.
	Merge(ctx context.Context, videoID string) (*models.TranscriptJob, error)

	// GetByVideoID retrieves a transcript job
	GetByVideoID(ctx context.Context, videoID string) (*models.TranscriptJob, error)
}

// Repository defines the interface for transcript job persistence
type Repository interface {
	Create(ctx context.Context, job *models.TranscriptJob) error
	GetByVideoID(ctx context.Context, videoID string) (*models.TranscriptJob, error)
	Update(ctx context.Context, job *models.TranscriptJob) error
}
