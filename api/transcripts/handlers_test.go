package transcripts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lectern-app/lectern-api/api/types"
	"github.com/lectern-app/lectern-api/internal/models"
	"github.com/lectern-app/lectern-api/internal/services/jobs"
	"github.com/lectern-app/lectern-api/internal/services/transcripts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockTranscriptService is a mock implementation of transcripts.Service
type MockTranscriptService struct {
	mock.Mock
}

func (m *MockTranscriptService) IngestChunk(ctx context.Context, videoID string, chunk models.Chunk) (*models.TranscriptJob, bool, error) {
	args := m.Called(ctx, videoID, chunk)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.TranscriptJob), args.Bool(1), args.Error(2)
}

func (m *MockTranscriptService) Merge(ctx context.Context, videoID string) (*models.TranscriptJob, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TranscriptJob), args.Error(1)
}

func (m *MockTranscriptService) GetByVideoID(ctx context.Context, videoID string) (*models.TranscriptJob, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TranscriptJob), args.Error(1)
}

// MockJobService is a mock implementation of jobs.Service
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) EnqueueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, opts ...jobs.JobOption) (*models.Job, error) {
	args := m.Called(ctx, jobType, payload, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) EnqueueUniqueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, uniqueKey string, opts ...jobs.JobOption) (*models.Job, error) {
	args := m.Called(ctx, jobType, payload, uniqueKey, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) GetJob(ctx context.Context, jobID uint) (*models.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) GetJobStatus(ctx context.Context, jobID uint) (models.JobStatus, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(models.JobStatus), args.Error(1)
}

func (m *MockJobService) GetJobForMerge(ctx context.Context, videoID string) (*models.Job, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) GetJobForGeneration(ctx context.Context, generationKey string) (*models.Job, error) {
	args := m.Called(ctx, generationKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) ClaimNextJob(ctx context.Context, workerID string, jobTypes []models.JobType) (*models.Job, error) {
	args := m.Called(ctx, workerID, jobTypes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) UpdateProgress(ctx context.Context, jobID uint, progress int) error {
	return m.Called(ctx, jobID, progress).Error(0)
}

func (m *MockJobService) CompleteJob(ctx context.Context, jobID uint, result models.JobResult) error {
	return m.Called(ctx, jobID, result).Error(0)
}

func (m *MockJobService) FailJob(ctx context.Context, jobID uint, err error) error {
	return m.Called(ctx, jobID, err).Error(0)
}

func (m *MockJobService) FailJobWithDetails(ctx context.Context, jobID uint, errorType models.JobErrorType, errorCode, errorMsg, errorDetails string) error {
	return m.Called(ctx, jobID, errorType, errorCode, errorMsg, errorDetails).Error(0)
}

func (m *MockJobService) ReleaseJob(ctx context.Context, jobID uint) error {
	return m.Called(ctx, jobID).Error(0)
}

func (m *MockJobService) CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

func setupRouter(deps *types.Dependencies) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/api/v1/transcripts")
	RegisterRoutes(group, deps)
	return engine
}

func postChunk(t *testing.T, engine *gin.Engine, videoID string, body types.ChunkRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcripts/"+videoID+"/chunks", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func TestPostChunkRecordsWithoutMerge(t *testing.T) {
	transcriptService := new(MockTranscriptService)
	jobService := new(MockJobService)

	transcriptService.On("IngestChunk", mock.Anything, "video-1", mock.MatchedBy(func(c models.Chunk) bool {
		return c.Index == 0 && c.Status == models.ChunkStatusCompleted
	})).Return(&models.TranscriptJob{VideoID: "video-1"}, false, nil)

	engine := setupRouter(&types.Dependencies{
		TranscriptService: transcriptService,
		JobService:        jobService,
	})

	text := "Hello. "
	w := postChunk(t, engine, "video-1", types.ChunkRequest{
		Index:   0,
		EndTime: 60,
		Status:  "completed",
		Text:    &text,
	})

	assert.Equal(t, http.StatusAccepted, w.Code)

	var response types.ChunkIngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.ReadyToMerge)
	assert.Zero(t, response.MergeJobID)

	jobService.AssertNotCalled(t, "EnqueueUniqueJob", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostChunkEnqueuesMergeWhenReady(t *testing.T) {
	transcriptService := new(MockTranscriptService)
	jobService := new(MockJobService)

	transcriptService.On("IngestChunk", mock.Anything, "video-1", mock.Anything).
		Return(&models.TranscriptJob{VideoID: "video-1"}, true, nil)

	job := &models.Job{Model: gorm.Model{ID: 42}, Type: models.JobTypeTranscriptMerge}
	jobService.On("EnqueueUniqueJob", mock.Anything, models.JobTypeTranscriptMerge,
		models.JobPayload{"video_id": "video-1"}, "video_id", mock.Anything).Return(job, nil)

	engine := setupRouter(&types.Dependencies{
		TranscriptService: transcriptService,
		JobService:        jobService,
	})

	w := postChunk(t, engine, "video-1", types.ChunkRequest{
		Index:   1,
		EndTime: 60,
		Status:  "failed",
	})

	assert.Equal(t, http.StatusAccepted, w.Code)

	var response types.ChunkIngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.ReadyToMerge)
	assert.Equal(t, uint(42), response.MergeJobID)
	assert.Equal(t, types.StatusQueued, response.Status)

	jobService.AssertExpectations(t)
}

func TestPostChunkValidation(t *testing.T) {
	engine := setupRouter(&types.Dependencies{
		TranscriptService: new(MockTranscriptService),
		JobService:        new(MockJobService),
	})

	t.Run("unknown status", func(t *testing.T) {
		w := postChunk(t, engine, "video-1", types.ChunkRequest{Status: "exploded"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("end before start", func(t *testing.T) {
		w := postChunk(t, engine, "video-1", types.ChunkRequest{
			Status:    "completed",
			StartTime: 60,
			EndTime:   30,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPostChunkNormalizesCaptionPayload(t *testing.T) {
	transcriptService := new(MockTranscriptService)

	transcriptService.On("IngestChunk", mock.Anything, "video-1", mock.MatchedBy(func(c models.Chunk) bool {
		return c.Text != nil && *c.Text == "Welcome to the course."
	})).Return(&models.TranscriptJob{VideoID: "video-1"}, false, nil)

	engine := setupRouter(&types.Dependencies{
		TranscriptService: transcriptService,
		JobService:        new(MockJobService),
	})

	vtt := "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nWelcome to the course.\n"
	w := postChunk(t, engine, "video-1", types.ChunkRequest{
		Index:   0,
		EndTime: 2,
		Status:  "completed",
		Text:    &vtt,
		Format:  "vtt",
	})

	assert.Equal(t, http.StatusAccepted, w.Code)
	transcriptService.AssertExpectations(t)
}

func TestPostChunkRejectsUnknownFormat(t *testing.T) {
	engine := setupRouter(&types.Dependencies{
		TranscriptService: new(MockTranscriptService),
		JobService:        new(MockJobService),
	})

	text := "payload"
	w := postChunk(t, engine, "video-1", types.ChunkRequest{
		Status:  "completed",
		EndTime: 1,
		Text:    &text,
		Format:  "ass",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostChunkImmutableConflict(t *testing.T) {
	transcriptService := new(MockTranscriptService)
	transcriptService.On("IngestChunk", mock.Anything, "video-1", mock.Anything).
		Return(nil, false, transcripts.ErrChunkImmutable)

	engine := setupRouter(&types.Dependencies{
		TranscriptService: transcriptService,
		JobService:        new(MockJobService),
	})

	w := postChunk(t, engine, "video-1", types.ChunkRequest{Status: "completed", EndTime: 10})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetTranscript(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		transcriptService := new(MockTranscriptService)
		transcriptService.On("GetByVideoID", mock.Anything, "video-1").
			Return(&models.TranscriptJob{VideoID: "video-1", Status: models.TranscriptStatusCompleted, CanonicalText: "Hello."}, nil)

		engine := setupRouter(&types.Dependencies{TranscriptService: transcriptService})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transcripts/video-1", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response types.TranscriptResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.NotNil(t, response.Transcript)
		assert.Equal(t, "Hello.", response.Transcript.CanonicalText)
	})

	t.Run("not found", func(t *testing.T) {
		transcriptService := new(MockTranscriptService)
		transcriptService.On("GetByVideoID", mock.Anything, "missing").
			Return(nil, transcripts.ErrJobNotFound)

		engine := setupRouter(&types.Dependencies{TranscriptService: transcriptService})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transcripts/missing", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
