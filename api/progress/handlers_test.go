package progress

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
	"github.com/lectern-app/lectern-api/internal/services/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProgressService is a mock implementation of progress.Service
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) EnsureRecord(ctx context.Context, ownerID, collectionID string, itemIDs []string) (*models.ProgressRecord, error) {
	args := m.Called(ctx, ownerID, collectionID, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressRecord), args.Error(1)
}

func (m *MockProgressService) RecordAttempt(ctx context.Context, ownerID, collectionID, itemID string, score float64) (*progress.UpdateResult, error) {
	args := m.Called(ctx, ownerID, collectionID, itemID, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*progress.UpdateResult), args.Error(1)
}

func (m *MockProgressService) CompleteItem(ctx context.Context, ownerID, collectionID, itemID string) (*progress.UpdateResult, error) {
	args := m.Called(ctx, ownerID, collectionID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*progress.UpdateResult), args.Error(1)
}

func (m *MockProgressService) GetProgress(ctx context.Context, ownerID, collectionID string) (*models.ProgressRecord, error) {
	args := m.Called(ctx, ownerID, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressRecord), args.Error(1)
}

// MockCertificateService is a mock implementation of certificates.Service
type MockCertificateService struct {
	mock.Mock
}

func (m *MockCertificateService) Issue(ctx context.Context, ownerID, collectionID string) (*models.Certificate, bool, error) {
	args := m.Called(ctx, ownerID, collectionID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Certificate), args.Bool(1), args.Error(2)
}

func (m *MockCertificateService) Get(ctx context.Context, ownerID, collectionID string) (*models.Certificate, error) {
	args := m.Called(ctx, ownerID, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Certificate), args.Error(1)
}

func (m *MockCertificateService) ListByOwner(ctx context.Context, ownerID string) ([]models.Certificate, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Certificate), args.Error(1)
}

func setupRouter(deps *types.Dependencies, ownerID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	if ownerID != "" {
		engine.Use(func(c *gin.Context) {
			c.Set(types.OwnerIDKey, ownerID)
		})
	}
	group := engine.Group("/api/v1/progress")
	RegisterRoutes(group, deps)
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func TestGetProgress(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		progressService := new(MockProgressService)
		progressService.On("GetProgress", mock.Anything, "owner-1", "course-1").
			Return(nil, progress.ErrProgressNotFound)

		engine := setupRouter(&types.Dependencies{ProgressService: progressService}, "owner-1")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/progress/course-1", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("completed record carries certificate", func(t *testing.T) {
		progressService := new(MockProgressService)
		certificateService := new(MockCertificateService)

		record := &models.ProgressRecord{OwnerID: "owner-1", CollectionID: "course-1", IsCompleted: true}
		progressService.On("GetProgress", mock.Anything, "owner-1", "course-1").Return(record, nil)
		certificateService.On("Get", mock.Anything, "owner-1", "course-1").
			Return(&models.Certificate{OwnerID: "owner-1", CollectionID: "course-1", SerialNumber: "CERT-ABC"}, nil)

		engine := setupRouter(&types.Dependencies{
			ProgressService:    progressService,
			CertificateService: certificateService,
		}, "owner-1")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/progress/course-1", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response types.ProgressResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.NotNil(t, response.Certificate)
		assert.Equal(t, "CERT-ABC", response.Certificate.SerialNumber)
		assert.False(t, response.CertificateNewlyIssued)
	})

	t.Run("requires owner", func(t *testing.T) {
		engine := setupRouter(&types.Dependencies{ProgressService: new(MockProgressService)}, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/progress/course-1", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPostEnroll(t *testing.T) {
	progressService := new(MockProgressService)
	progressService.On("EnsureRecord", mock.Anything, "owner-1", "course-1", []string{"item-1", "item-2"}).
		Return(&models.ProgressRecord{OwnerID: "owner-1", CollectionID: "course-1"}, nil)

	engine := setupRouter(&types.Dependencies{ProgressService: progressService}, "owner-1")

	w := postJSON(t, engine, "/api/v1/progress/course-1/enroll",
		types.EnrollRequest{ItemIDs: []string{"item-1", "item-2"}})

	assert.Equal(t, http.StatusOK, w.Code)
	progressService.AssertExpectations(t)
}

func TestPostEnrollRejectsEmptyItems(t *testing.T) {
	engine := setupRouter(&types.Dependencies{ProgressService: new(MockProgressService)}, "owner-1")

	w := postJSON(t, engine, "/api/v1/progress/course-1/enroll", types.EnrollRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostAttempt(t *testing.T) {
	t.Run("records attempt", func(t *testing.T) {
		progressService := new(MockProgressService)
		progressService.On("RecordAttempt", mock.Anything, "owner-1", "course-1", "item-1", 85.0).
			Return(&progress.UpdateResult{Record: &models.ProgressRecord{OwnerID: "owner-1", CollectionID: "course-1"}}, nil)

		engine := setupRouter(&types.Dependencies{ProgressService: progressService}, "owner-1")

		w := postJSON(t, engine, "/api/v1/progress/course-1/items/item-1/attempts",
			types.AttemptRequest{Score: 85})

		assert.Equal(t, http.StatusOK, w.Code)
		progressService.AssertExpectations(t)
	})

	t.Run("invalid score", func(t *testing.T) {
		progressService := new(MockProgressService)
		progressService.On("RecordAttempt", mock.Anything, "owner-1", "course-1", "item-1", mock.Anything).
			Return(nil, progress.ErrInvalidScore)

		engine := setupRouter(&types.Dependencies{ProgressService: progressService}, "owner-1")

		w := postJSON(t, engine, "/api/v1/progress/course-1/items/item-1/attempts",
			types.AttemptRequest{Score: 50})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no progress record", func(t *testing.T) {
		progressService := new(MockProgressService)
		progressService.On("RecordAttempt", mock.Anything, "owner-1", "course-1", "item-1", mock.Anything).
			Return(nil, progress.ErrProgressNotFound)

		engine := setupRouter(&types.Dependencies{ProgressService: progressService}, "owner-1")

		w := postJSON(t, engine, "/api/v1/progress/course-1/items/item-1/attempts",
			types.AttemptRequest{Score: 50})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("completing attempt reports the newly issued certificate", func(t *testing.T) {
		progressService := new(MockProgressService)
		certificateService := new(MockCertificateService)

		record := &models.ProgressRecord{OwnerID: "owner-1", CollectionID: "course-1", IsCompleted: true}
		progressService.On("RecordAttempt", mock.Anything, "owner-1", "course-1", "item-1", 90.0).
			Return(&progress.UpdateResult{
				Record:                 record,
				Certificate:            &models.Certificate{OwnerID: "owner-1", CollectionID: "course-1", SerialNumber: "CERT-XYZ"},
				CertificateNewlyIssued: true,
			}, nil)

		engine := setupRouter(&types.Dependencies{
			ProgressService:    progressService,
			CertificateService: certificateService,
		}, "owner-1")

		w := postJSON(t, engine, "/api/v1/progress/course-1/items/item-1/attempts",
			types.AttemptRequest{Score: 90})

		assert.Equal(t, http.StatusOK, w.Code)

		var response types.ProgressResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.NotNil(t, response.Certificate)
		assert.Equal(t, "CERT-XYZ", response.Certificate.SerialNumber)
		assert.True(t, response.CertificateNewlyIssued)
		certificateService.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("attempt on an already-complete collection is not newly issued", func(t *testing.T) {
		progressService := new(MockProgressService)
		certificateService := new(MockCertificateService)

		record := &models.ProgressRecord{OwnerID: "owner-1", CollectionID: "course-1", IsCompleted: true}
		progressService.On("RecordAttempt", mock.Anything, "owner-1", "course-1", "item-1", 90.0).
			Return(&progress.UpdateResult{Record: record}, nil)
		certificateService.On("Get", mock.Anything, "owner-1", "course-1").
			Return(&models.Certificate{OwnerID: "owner-1", CollectionID: "course-1", SerialNumber: "CERT-XYZ"}, nil)

		engine := setupRouter(&types.Dependencies{
			ProgressService:    progressService,
			CertificateService: certificateService,
		}, "owner-1")

		w := postJSON(t, engine, "/api/v1/progress/course-1/items/item-1/attempts",
			types.AttemptRequest{Score: 90})

		assert.Equal(t, http.StatusOK, w.Code)

		var response types.ProgressResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.NotNil(t, response.Certificate)
		assert.False(t, response.CertificateNewlyIssued)
	})
}

func TestPostComplete(t *testing.T) {
	progressService := new(MockProgressService)
	certificateService := new(MockCertificateService)

	record := &models.ProgressRecord{OwnerID: "owner-1", CollectionID: "course-1", IsCompleted: false}
	progressService.On("CompleteItem", mock.Anything, "owner-1", "course-1", "item-1").
		Return(&progress.UpdateResult{Record: record}, nil)

	engine := setupRouter(&types.Dependencies{
		ProgressService:    progressService,
		CertificateService: certificateService,
	}, "owner-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/progress/course-1/items/item-1/complete", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	certificateService.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	progressService.AssertExpectations(t)
}
