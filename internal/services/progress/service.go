package progress

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lectern-app/lectern-api/internal/models"
)

// DefaultCompletionThreshold is the score (percent) at or above which a
// scored attempt completes its item
const DefaultCompletionThreshold = 70.0

type service struct {
	repo      Repository
	issuer    Issuer
	threshold float64
}

// NewService creates a new progress service. A non-positive threshold falls
// back to the default.
func NewService(repo Repository, issuer Issuer, threshold float64) Service {
	if threshold <= 0 {
		threshold = DefaultCompletionThreshold
	}
	return &service{repo: repo, issuer: issuer, threshold: threshold}
}

// EnsureRecord creates or extends the progress record so it covers the given
// item IDs. Items already tracked keep their attempts and completion state.
func (s *service) EnsureRecord(ctx context.Context, ownerID, collectionID string, itemIDs []string) (*models.ProgressRecord, error) {
	record, err := s.repo.GetByOwnerAndCollection(ctx, ownerID, collectionID)
	if err != nil {
		if err != ErrProgressNotFound {
			return nil, err
		}

		record = &models.ProgressRecord{
			OwnerID:      ownerID,
			CollectionID: collectionID,
		}
		for _, itemID := range itemIDs {
			record.Items = append(record.Items, models.ItemProgress{ItemID: itemID})
		}
		record.Recompute()

		if err := s.repo.Create(ctx, record); err != nil {
			return nil, err
		}
		return record, nil
	}

	added := false
	for _, itemID := range itemIDs {
		if record.Item(itemID) == nil {
			record.Items = append(record.Items, models.ItemProgress{ItemID: itemID})
			added = true
		}
	}
	if !added {
		return record, nil
	}

	record.Recompute()
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// RecordAttempt appends a scored attempt to an item. The item's best and
// average scores are refreshed, and a score at or above the threshold marks
// it completed. Item completion is monotonic: a later low score never undoes
// an earlier pass.
func (s *service) RecordAttempt(ctx context.Context, ownerID, collectionID, itemID string, score float64) (*UpdateResult, error) {
	if score < 0 || score > 100 {
		return nil, ErrInvalidScore
	}

	record, err := s.repo.GetByOwnerAndCollection(ctx, ownerID, collectionID)
	if err != nil {
		return nil, err
	}

	item := record.Item(itemID)
	if item == nil {
		record.Items = append(record.Items, models.ItemProgress{ItemID: itemID})
		item = record.Item(itemID)
	}

	item.Attempts = append(item.Attempts, models.Attempt{
		AttemptNumber: len(item.Attempts) + 1,
		Score:         score,
		Timestamp:     time.Now().UTC(),
	})

	var total float64
	best := 0.0
	for _, attempt := range item.Attempts {
		total += attempt.Score
		if attempt.Score > best {
			best = attempt.Score
		}
	}
	item.BestScore = best
	item.AverageScore = total / float64(len(item.Attempts))

	if score >= s.threshold {
		item.IsCompleted = true
	}

	return s.finalize(ctx, record)
}

// CompleteItem marks a non-scored item as completed
func (s *service) CompleteItem(ctx context.Context, ownerID, collectionID, itemID string) (*UpdateResult, error) {
	record, err := s.repo.GetByOwnerAndCollection(ctx, ownerID, collectionID)
	if err != nil {
		return nil, err
	}

	item := record.Item(itemID)
	if item == nil {
		record.Items = append(record.Items, models.ItemProgress{ItemID: itemID})
		item = record.Item(itemID)
	}
	item.IsCompleted = true

	return s.finalize(ctx, record)
}

// GetProgress retrieves the progress record for an owner and collection
func (s *service) GetProgress(ctx context.Context, ownerID, collectionID string) (*models.ProgressRecord, error) {
	return s.repo.GetByOwnerAndCollection(ctx, ownerID, collectionID)
}

// finalize recomputes the aggregates, persists the record, and issues the
// certificate when this update crossed the completion edge. Progress is
// persisted before issuance so a failed issue never loses attempt data; the
// issuer's own idempotency absorbs any retry.
func (s *service) finalize(ctx context.Context, record *models.ProgressRecord) (*UpdateResult, error) {
	crossedEdge := record.Recompute()

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	result := &UpdateResult{Record: record}
	if crossedEdge {
		cert, issued, err := s.issuer.Issue(ctx, record.OwnerID, record.CollectionID)
		if err != nil {
			return nil, fmt.Errorf("issuing completion certificate: %w", err)
		}
		result.Certificate = cert
		result.CertificateNewlyIssued = issued
		if issued {
			log.Printf("[DEBUG] Collection %s completed by %s, certificate %s issued",
				record.CollectionID, record.OwnerID, cert.SerialNumber)
		}
	}

	return result, nil
}
