package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Attempt is one scored try at a collection item
type Attempt struct {
	AttemptNumber int       `json:"attempt_number"`
	Score         float64   `json:"score"` // 0-100
	Timestamp     time.Time `json:"timestamp"`
}

// ItemProgress tracks all attempts at a single item within a collection
type ItemProgress struct {
	ItemID       string    `json:"item_id"`
	IsCompleted  bool      `json:"is_completed"`
	Attempts     []Attempt `json:"attempts"`
	BestScore    float64   `json:"best_score"`
	AverageScore float64   `json:"average_score"`
}

// ItemProgressList is the embedded item collection of a progress record
type ItemProgressList []ItemProgress

// Value implements driver.Valuer interface for ItemProgressList
func (l ItemProgressList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for ItemProgressList
func (l *ItemProgressList) Scan(value interface{}) error {
	if value == nil {
		*l = ItemProgressList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return errors.New("type assertion to []byte failed")
		}
	}

	return json.Unmarshal(bytes, l)
}

// ProgressRecord aggregates a user's progress through one collection
// (course or playlist). IsCompleted transitions false->true exactly once;
// that edge is the only trigger for certificate issuance.
type ProgressRecord struct {
	gorm.Model
	OwnerID        string           `json:"owner_id" gorm:"not null;uniqueIndex:idx_progress_owner_collection"`
	CollectionID   string           `json:"collection_id" gorm:"not null;uniqueIndex:idx_progress_owner_collection"`
	Items          ItemProgressList `json:"items" gorm:"type:json"`
	CompletedCount int              `json:"completed_count"`
	TotalCount     int              `json:"total_count"`
	OverallPercent float64          `json:"overall_percent"`
	IsCompleted    bool             `json:"is_completed" gorm:"default:false"`
	CompletedAt    *time.Time       `json:"completed_at"`
}

// Item returns a pointer into the item list for the given ID, or nil
func (p *ProgressRecord) Item(itemID string) *ItemProgress {
	for i := range p.Items {
		if p.Items[i].ItemID == itemID {
			return &p.Items[i]
		}
	}
	return nil
}

// Recompute refreshes the collection-level aggregates from the item list.
// It returns true when the record crossed the completion edge (false->true).
func (p *ProgressRecord) Recompute() bool {
	completed := 0
	for _, item := range p.Items {
		if item.IsCompleted {
			completed++
		}
	}

	p.CompletedCount = completed
	p.TotalCount = len(p.Items)
	if p.TotalCount > 0 {
		p.OverallPercent = float64(completed) / float64(p.TotalCount) * 100
	} else {
		p.OverallPercent = 0
	}

	// Completion is monotonic: once set it never reverts
	if !p.IsCompleted && p.CompletedCount == p.TotalCount && p.TotalCount > 0 {
		now := time.Now().UTC()
		p.IsCompleted = true
		p.CompletedAt = &now
		return true
	}
	return false
}

// TableName specifies the table name for GORM
func (ProgressRecord) TableName() string {
	return "progress_records"
}
