package progress

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

// NewRepository creates a new progress record repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create creates a new progress record
func (r *repository) Create(ctx context.Context, record *models.ProgressRecord) error {
	if record == nil {
		return errors.New("progress record cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("creating progress record: %w", err)
	}

	return nil
}

// GetByOwnerAndCollection retrieves the progress record for an owner and collection
func (r *repository) GetByOwnerAndCollection(ctx context.Context, ownerID, collectionID string) (*models.ProgressRecord, error) {
	var record models.ProgressRecord

	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND collection_id = ?", ownerID, collectionID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("getting progress record: %w", err)
	}

	return &record, nil
}

// Update updates an existing progress record
func (r *repository) Update(ctx context.Context, record *models.ProgressRecord) error {
	if record == nil {
		return errors.New("progress record cannot be nil")
	}

	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("updating progress record: %w", err)
	}

	return nil
}
