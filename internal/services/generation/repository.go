package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lectern-app/lectern-api/internal/models"
	"gorm.io/gorm"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new artifact repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create persists a new artifact. The composite unique index on the
// generation key turns a duplicate insert into ErrArtifactExists, which is
// how a lost creation race surfaces to the service layer.
func (r *repository) Create(ctx context.Context, artifact *models.GeneratedArtifact) error {
	if artifact == nil {
		return errors.New("artifact cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(artifact).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrArtifactExists
		}
		return fmt.Errorf("creating artifact: %w", err)
	}

	return nil
}

// GetByKey retrieves an artifact by its generation key
func (r *repository) GetByKey(ctx context.Context, key models.GenerationKey) (*models.GeneratedArtifact, error) {
	var artifact models.GeneratedArtifact

	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND subject_id = ? AND feature_kind = ?", key.OwnerID, key.SubjectID, key.Feature).
		First(&artifact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("getting artifact: %w", err)
	}

	return &artifact, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
