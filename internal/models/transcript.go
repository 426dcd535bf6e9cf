package models

import (
	"time"

	"gorm.io/gorm"
)

// TranscriptJobStatus represents the overall state of a video's transcript
type TranscriptJobStatus string

const (
	TranscriptStatusPending    TranscriptJobStatus = "pending"
	TranscriptStatusProcessing TranscriptJobStatus = "processing"
	TranscriptStatusCompleted  TranscriptJobStatus = "completed"
	TranscriptStatusFailed     TranscriptJobStatus = "failed"
)

// TranscriptJob tracks the transcription of one source video. Chunks are
// embedded and written by the external transcription workers; the merged
// fields (canonical text, language, word count) are owned by the merge
// engine. Jobs are never deleted so a transcript can always be regenerated.
type TranscriptJob struct {
	gorm.Model
	VideoID              string              `json:"video_id" gorm:"uniqueIndex;not null"`
	Chunks               ChunkList           `json:"chunks" gorm:"type:json"`
	Status               TranscriptJobStatus `json:"status" gorm:"default:'pending'"`
	CanonicalText        string              `json:"canonical_text" gorm:"type:text"`
	Language             string              `json:"language"`
	WordCount            int                 `json:"word_count"`
	TotalDurationSeconds float64             `json:"total_duration_seconds"`
	ProcessingStartedAt  *time.Time          `json:"processing_started_at"`
	ProcessingEndedAt    *time.Time          `json:"processing_ended_at"`
}

// ChunkCounts summarizes the chunk list by status
type ChunkCounts struct {
	Completed  int
	Failed     int
	Processing int
	Pending    int
	Total      int
}

// CountChunks tallies the chunk list by status
func (t *TranscriptJob) CountChunks() ChunkCounts {
	counts := ChunkCounts{Total: len(t.Chunks)}
	for _, chunk := range t.Chunks {
		switch chunk.Status {
		case ChunkStatusCompleted:
			counts.Completed++
		case ChunkStatusFailed:
			counts.Failed++
		case ChunkStatusProcessing:
			counts.Processing++
		default:
			counts.Pending++
		}
	}
	return counts
}

// ReadyToMerge reports whether the merge engine may run: at least one chunk
// completed, none still in flight, and every chunk accounted for.
func (t *TranscriptJob) ReadyToMerge() bool {
	counts := t.CountChunks()
	return counts.Completed > 0 &&
		counts.Processing == 0 &&
		counts.Pending == 0 &&
		counts.Completed+counts.Failed == counts.Total
}

// ChunkByIndex returns the chunk with the given index, if present
func (t *TranscriptJob) ChunkByIndex(index int) (Chunk, bool) {
	for _, chunk := range t.Chunks {
		if chunk.Index == index {
			return chunk, true
		}
	}
	return Chunk{}, false
}

// TableName specifies the table name for GORM
func (TranscriptJob) TableName() string {
	return "transcript_jobs"
}
