package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockJobCleaner struct {
	mock.Mock
}

func (m *MockJobCleaner) CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

func TestCleanupRunsImmediatelyOnStart(t *testing.T) {
	cleaner := new(MockJobCleaner)
	cleaner.On("CleanupOldJobs", mock.Anything, 30).Return(int64(3), nil).Once()

	svc := NewService(cleaner, 30, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.Start(ctx)
	svc.Stop()

	cleaner.AssertExpectations(t)
}

func TestCleanupSurvivesErrors(t *testing.T) {
	cleaner := new(MockJobCleaner)
	cleaner.On("CleanupOldJobs", mock.Anything, 30).Return(int64(0), assert.AnError)

	svc := NewService(cleaner, 30, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.Start(ctx)
	svc.Stop()

	cleaner.AssertExpectations(t)
}

func TestNewServiceDefaultsInterval(t *testing.T) {
	svc := NewService(new(MockJobCleaner), 30, 0)
	assert.Equal(t, 6*time.Hour, svc.interval)
}
