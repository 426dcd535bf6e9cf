package types

import "github.com/lectern-app/lectern-api/internal/models"

// Status constants for API responses
const (
	StatusOK         = "ok"
	StatusError      = "error"
	StatusProcessing = "processing"
	StatusFailed     = "failed"
	StatusQueued     = "queued"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`  // One of the Status constants above
	Message string `json:"message"` // Human-readable message
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	BaseResponse
	Version  string                 `json:"version,omitempty"`
	Services map[string]interface{} `json:"services,omitempty"`
}

// ArtifactResponse for a single generated artifact
type ArtifactResponse struct {
	BaseResponse
	Artifact *models.GeneratedArtifact `json:"artifact,omitempty"`
}

// GenerationStatusResponse for async generation status polling
type GenerationStatusResponse struct {
	BaseResponse
	GenerationStatus string `json:"generation_status"`
	JobID            uint   `json:"job_id,omitempty"`
}

// TranscriptResponse for transcript job data
type TranscriptResponse struct {
	BaseResponse
	Transcript *models.TranscriptJob `json:"transcript,omitempty"`
}

// ChunkIngestResponse reports the outcome of a chunk webhook delivery
type ChunkIngestResponse struct {
	BaseResponse
	VideoID      string `json:"video_id"`
	ReadyToMerge bool   `json:"ready_to_merge"`
	MergeJobID   uint   `json:"merge_job_id,omitempty"`
}

// ProgressResponse for a collection progress record. CertificateNewlyIssued
// is true only on the request whose update issued the certificate.
type ProgressResponse struct {
	BaseResponse
	Progress               *models.ProgressRecord `json:"progress,omitempty"`
	Certificate            *models.Certificate    `json:"certificate,omitempty"`
	CertificateNewlyIssued bool                   `json:"certificate_newly_issued"`
}

// CertificatesResponse for certificate lists
type CertificatesResponse struct {
	BaseResponse
	Certificates []models.Certificate `json:"certificates"`
	Count        int                  `json:"count"`
}

// JobResponse for async job status
type JobResponse struct {
	BaseResponse
	JobID    uint        `json:"job_id"`
	Progress int         `json:"progress,omitempty"` // 0-100
	Result   interface{} `json:"result,omitempty"`
}
