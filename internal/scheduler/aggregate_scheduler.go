package scheduler

import (
	"github.com/dkim/aquamarket-backend/internal/app/service"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// AggregateScheduler runs the nightly sweep that recomputes availability,
// rating and review count for every fish from source rows. The sweep heals
// drift caused by out-of-band database writes.
type AggregateScheduler struct {
	cron        *cron.Cron
	fishService service.FishService
}

func NewAggregateScheduler(fishService service.FishService) *AggregateScheduler {
	return &AggregateScheduler{
		cron:        cron.New(),
		fishService: fishService,
	}
}

// Start schedules the sweep for 04:00 every day.
func (s *AggregateScheduler) Start() error {
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		logger.Info("Starting scheduled aggregate reconciliation", nil)

		count, err := s.fishService.ReconcileAggregates()
		if err != nil {
			logger.Error("Scheduled aggregate reconciliation failed", err, map[string]interface{}{
				"fish_swept": count,
			})
			return
		}

		logger.Info("Scheduled aggregate reconciliation completed", map[string]interface{}{
			"fish_swept": count,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for aggregate reconciliation", err)
		return err
	}

	s.cron.Start()
	logger.Info("Aggregate scheduler started successfully (daily at 4:00 AM)", nil)

	return nil
}

func (s *AggregateScheduler) Stop() {
	logger.Info("Stopping aggregate scheduler...", nil)
	s.cron.Stop()
	logger.Info("Aggregate scheduler stopped", nil)
}
