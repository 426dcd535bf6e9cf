package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// ChunkStatus represents the transcription state of a single chunk
type ChunkStatus string

const (
	ChunkStatusPending    ChunkStatus = "pending"
	ChunkStatusProcessing ChunkStatus = "processing"
	ChunkStatusCompleted  ChunkStatus = "completed"
	ChunkStatusFailed     ChunkStatus = "failed"
)

// ParseChunkStatus validates a chunk status supplied by a caller
func ParseChunkStatus(s string) (ChunkStatus, error) {
	switch ChunkStatus(s) {
	case ChunkStatusPending, ChunkStatusProcessing, ChunkStatusCompleted, ChunkStatusFailed:
		return ChunkStatus(s), nil
	default:
		return "", fmt.Errorf("unknown chunk status: %q", s)
	}
}

// Chunk is a time-sliced segment of a video transcript. Chunks are produced
// independently by transcription workers and may arrive out of order. Once a
// chunk reaches a terminal status it is immutable.
type Chunk struct {
	Index     int         `json:"index"`
	StartTime float64     `json:"start_time"` // Seconds from video start
	EndTime   float64     `json:"end_time"`
	Status    ChunkStatus `json:"status"`
	Text      *string     `json:"text,omitempty"`
	Language  *string     `json:"language,omitempty"`
}

// Duration returns the chunk's span in seconds
func (c Chunk) Duration() float64 {
	return c.EndTime - c.StartTime
}

// IsTerminal returns true once the chunk can no longer change
func (c Chunk) IsTerminal() bool {
	return c.Status == ChunkStatusCompleted || c.Status == ChunkStatusFailed
}

// ChunkList is the embedded chunk collection of a transcript job
type ChunkList []Chunk

// Value implements driver.Valuer interface for ChunkList
func (l ChunkList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for ChunkList
func (l *ChunkList) Scan(value interface{}) error {
	if value == nil {
		*l = ChunkList{}
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
