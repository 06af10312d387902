package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/talentbridge/talentbridge-backend/internal/logger"
	"github.com/talentbridge/talentbridge-backend/internal/repos"
	"github.com/talentbridge/talentbridge-backend/internal/types"
	"github.com/talentbridge/talentbridge-backend/internal/utils"
)

// Scheduler enqueues the recurring runs. It only decides WHEN work is due;
// the worker decides who executes it. HasPending keeps restarts and multiple
// instances from stacking duplicate runs of the same type.
type Scheduler struct {
	log       *logger.Logger
	repo      repos.JobRunRepo
	intervals map[string]time.Duration
	lastRun   map[string]time.Time
}

func NewScheduler(baseLog *logger.Logger, repo repos.JobRunRepo) *Scheduler {
	log := baseLog.With("component", "JobScheduler")
	return &Scheduler{
		log:  log,
		repo: repo,
		intervals: map[string]time.Duration{
			JobTypeInfluenceEngine: time.Duration(utils.GetEnvAsInt("INFLUENCE_RUN_INTERVAL_MINUTES", 15, log)) * time.Minute,
			JobTypeDealHealthBatch: time.Duration(utils.GetEnvAsInt("DEAL_HEALTH_RUN_INTERVAL_MINUTES", 60, log)) * time.Minute,
			JobTypeCareerPageCrawl: time.Duration(utils.GetEnvAsInt("CRAWL_RUN_INTERVAL_MINUTES", 360, log)) * time.Minute,
		},
		lastRun: map[string]time.Time{},
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
}

func (s *Scheduler) tick(ctx context.Context) {
	now := time.Now()
	for jobType, interval := range s.intervals {
		if interval <= 0 {
			continue
		}
		if last, ok := s.lastRun[jobType]; ok && now.Sub(last) < interval {
			continue
		}
		pending, err := s.repo.HasPending(ctx, nil, jobType)
		if err != nil {
			s.log.Warn("HasPending failed", "job_type", jobType, "error", err)
			continue
		}
		if pending {
			s.lastRun[jobType] = now
			continue
		}
		run := &types.JobRun{
			ID:      uuid.New(),
			JobType: jobType,
			Status:  types.JobRunQueued,
		}
		if _, cErr := s.repo.Create(ctx, nil, []*types.JobRun{run}); cErr != nil {
			s.log.Warn("Failed to enqueue run", "job_type", jobType, "error", cErr)
			continue
		}
		s.lastRun[jobType] = now
		s.log.Info("Enqueued run", "job_type", jobType, "job_id", run.ID)
	}
}
