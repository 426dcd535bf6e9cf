package progress

import (
	"context"
	"errors"

	"github.com/lectern-app/lectern-api/internal/models"
)

// Service errors
var (
	ErrProgressNotFound = errors.New("progress record not found")
	ErrInvalidScore     = errors.New("score must be between 0 and 100")
)

// UpdateResult reports the outcome of a progress update. Certificate is set
// when the update crossed the completion edge; CertificateNewlyIssued tells
// whether this update minted it or a concurrent update won the race.
type UpdateResult struct {
	Record                 *models.ProgressRecord
	Certificate            *models.Certificate
	CertificateNewlyIssued bool
}

// Service defines the business logic interface for progress tracking.
// Completion of a collection is monotonic, and the false->true transition
// is the only event that triggers certificate issuance.
type Service interface {
	// EnsureRecord creates or extends the progress record so it covers the
	// given item IDs. Existing item progress is never reset.
	EnsureRecord(ctx context.Context, ownerID, collectionID string, itemIDs []string) (*models.ProgressRecord, error)

	// RecordAttempt appends a scored attempt to an item. A score at or above
	// the completion threshold marks the item completed.
	RecordAttempt(ctx context.Context, ownerID, collectionID, itemID string, score float64) (*UpdateResult, error)

	// CompleteItem marks a non-scored item (watched video, read material)
	// as completed.
	CompleteItem(ctx context.Context, ownerID, collectionID, itemID string) (*UpdateResult, error)

	// GetProgress retrieves the progress record for an owner and collection
	GetProgress(ctx context.Context, ownerID, collectionID string) (*models.ProgressRecord, error)
}

// Issuer is the slice of the certificate service the progress engine needs
type Issuer interface {
	Issue(ctx context.Context, ownerID, collectionID string) (*models.Certificate, bool, error)
}

// Repository defines the interface for progress record persistence
type Repository interface {
	Create(ctx context.Context, record *models.ProgressRecord) error
	GetByOwnerAndCollection(ctx context.Context, ownerID, collectionID string) (*models.ProgressRecord, error)
	Update(ctx context.Context, record *models.ProgressRecord) error
}
