// Package cleanup prunes finished jobs from the queue on a schedule.
package cleanup

import (
	"context"
	"log"
	"time"
)

// JobCleaner is the slice of the job service the cleanup loop needs
type JobCleaner interface {
	CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error)
}

// Service periodically deletes terminal jobs older than the retention window
type Service struct {
	jobService    JobCleaner
	retentionDays int
	interval      time.Duration
	cancel        context.CancelFunc
}

// NewService creates a new cleanup service
func NewService(jobService JobCleaner, retentionDays int, interval time.Duration) *Service {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &Service{
		jobService:    jobService,
		retentionDays: retentionDays,
		interval:      interval,
	}
}

// Start begins the cleanup loop
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	// Run initial cleanup, then on the ticker
	s.cleanup(ctx)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.cleanup(ctx)
			case <-ctx.Done():
				log.Println("[INFO] Job cleanup service stopped")
				return
			}
		}
	}()

	log.Printf("[INFO] Job cleanup service started (interval: %v, retention: %d days)", s.interval, s.retentionDays)
}

// Stop stops the cleanup loop
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Service) cleanup(ctx context.Context) {
	deleted, err := s.jobService.CleanupOldJobs(ctx, s.retentionDays)
	if err != nil {
		log.Printf("[ERROR] Job cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[INFO] Job cleanup removed %d old jobs", deleted)
	}
}
