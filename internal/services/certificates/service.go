package certificates

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lectern-app/lectern-api/internal/models"
)

type service struct {
	repo Repository
}

// NewService creates a new certificate service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Issue creates the certificate for the pair if none exists yet. A second
// call, or a concurrent one, returns the already-issued certificate: the
// existence check handles the common path and the unique index catches the
// race it cannot.
func (s *service) Issue(ctx context.Context, ownerID, collectionID string) (*models.Certificate, bool, error) {
	existing, err := s.repo.GetByOwnerAndCollection(ctx, ownerID, collectionID)
	if err == nil {
		return existing, false, nil
	}
	if err != ErrCertificateNotFound {
		return nil, false, err
	}

	cert := &models.Certificate{
		OwnerID:      ownerID,
		CollectionID: collectionID,
		SerialNumber: newSerialNumber(),
		IssuedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, cert); err != nil {
		if err == ErrCertificateExists {
			winner, getErr := s.repo.GetByOwnerAndCollection(ctx, ownerID, collectionID)
			if getErr != nil {
				return nil, false, getErr
			}
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("issuing certificate: %w", err)
	}

	log.Printf("[DEBUG] Issued certificate %s to %s for collection %s", cert.SerialNumber, ownerID, collectionID)
	return cert, true, nil
}

// Get retrieves the certificate for an owner and collection
func (s *service) Get(ctx context.Context, ownerID, collectionID string) (*models.Certificate, error) {
	return s.repo.GetByOwnerAndCollection(ctx, ownerID, collectionID)
}

// ListByOwner returns all certificates held by an owner
func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]models.Certificate, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func newSerialNumber() string {
	return "CERT-" + strings.ToUpper(uuid.NewString())
}
