package transcripts

import (
	"context"
	"errors"
	"fmt"

	"github.com/lectern-app/lectern-api/internal/models"
	"gorm.io/gorm"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new transcript job repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create creates a new transcript job
func (r *repository) Create(ctx context.Context, job *models.TranscriptJob) error {
	if job == nil {
		return errors.New("transcript job cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("creating transcript job: %w", err)
	}

	return nil
}

// GetByVideoID retrieves a transcript job by its video ID
func (r *repository) GetByVideoID(ctx context.Context, videoID string) (*models.TranscriptJob, error) {
	var job models.TranscriptJob

	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("getting transcript job: %w", err)
	}

	return &job, nil
}

// Update updates an existing transcript job
func (r *repository) Update(ctx context.Context, job *models.TranscriptJob) error {
	if job == nil {
		return errors.New("transcript job cannot be nil")
	}

	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		return fmt.Errorf("updating transcript job: %w", err)
	}

	return nil
}
