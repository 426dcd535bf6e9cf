package certificates

import (
	"context"
	"errors"

	"github.com/lectern-app/lectern-api/internal/models"
)

// Service errors
var (
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrCertificateExists   = errors.New("certificate already exists for this collection")
)

// Service defines the business logic interface for certificate issuance.
// Issue is idempotent per (owner, collection) pair.
type Service interface {
	// Issue creates the certificate for the pair if none exists yet. The
	// second return reports whether this call issued it.
	Issue(ctx context.Context, ownerID, collectionID string) (*models.Certificate, bool, error)

	// Get retrieves the certificate for an owner and collection
	Get(ctx context.Context, ownerID, collectionID string) (*models.Certificate, error)

	// ListByOwner returns all certificates held by an owner
	ListByOwner(ctx context.Context, ownerID string) ([]models.Certificate, error)
}

// Repository defines the interface for certificate persistence
type Repository interface {
	// Create persists a new certificate. Returns ErrCertificateExists when
	// the (owner, collection) pair already holds one.
	Create(ctx context.Context, cert *models.Certificate) error
	GetByOwnerAndCollection(ctx context.Context, ownerID, collectionID string) (*models.Certificate, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Certificate, error)
}
