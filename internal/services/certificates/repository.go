package certificates

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

// NewRepository creates a new certificate repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create persists a new certificate. The composite unique index on
// (owner_id, collection_id) rejects a second certificate for the pair.
func (r *repository) Create(ctx context.Context, cert *models.Certificate) error {
	if cert == nil {
		return errors.New("certificate cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(cert).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrCertificateExists
		}
		return fmt.Errorf("creating certificate: %w", err)
	}

	return nil
}

// GetByOwnerAndCollection retrieves the certificate for an owner and collection
func (r *repository) GetByOwnerAndCollection(ctx context.Context, ownerID, collectionID string) (*models.Certificate, error) {
	var cert models.Certificate

	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND collection_id = ?", ownerID, collectionID).
		First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("getting certificate: %w", err)
	}

	return &cert, nil
}

// ListByOwner returns all certificates held by an owner, newest first
func (r *repository) ListByOwner(ctx context.Context, ownerID string) ([]models.Certificate, error) {
	var certs []models.Certificate

	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("issued_at DESC").
		Find(&certs).Error
	if err != nil {
		return nil, fmt.Errorf("listing certificates: %w", err)
	}

	return certs, nil
}
