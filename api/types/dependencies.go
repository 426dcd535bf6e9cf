package types

import (
	"github.com/lectern-app/lectern-api/internal/database"
	"github.com/lectern-app/lectern-api/internal/services/certificates"
	"github.com/lectern-app/lectern-api/internal/services/generation"
	"github.com/lectern-app/lectern-api/internal/services/jobs"
	"github.com/lectern-app/lectern-api/internal/services/progress"
	"github.com/lectern-app/lectern-api/internal/services/transcripts"
	"github.com/lectern-app/lectern-api/internal/services/workers"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB                 *database.DB
	TranscriptService  transcripts.Service
	GenerationService  generation.Service
	ProgressService    progress.Service
	CertificateService certificates.Service
	JobService         jobs.Service
	WorkerPool         *workers.WorkerPool
}
