package types

// ChunkRequest is the webhook payload a transcription worker posts when a
// chunk finishes (or fails)
type ChunkRequest struct {
	Index     int     `json:"index" binding:"min=0"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Status    string  `json:"status" binding:"required"`
	Text      *string `json:"text,omitempty"`
	Format    string  `json:"format,omitempty"` // text (default), vtt, srt, or json
	Language  *string `json:"language,omitempty"`
}

// GenerateRequest tunes an artifact generation request
type GenerateRequest struct {
	QuestionCount int    `json:"question_count,omitempty"`
	Difficulty    string `json:"difficulty,omitempty"`
}

// EnrollRequest registers the items of a collection for progress tracking
type EnrollRequest struct {
	ItemIDs []string `json:"item_ids" binding:"required,min=1"`
}

// AttemptRequest records a scored attempt at a collection item
type AttemptRequest struct {
	Score float64 `json:"score" binding:"min=0,max=100"`
}
