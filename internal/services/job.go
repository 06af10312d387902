package services

import (
  "context"
  "fmt"
  "strings"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type JobService interface {
  CreateJob(ctx context.Context, job *types.Job) (*types.Job, error)
  GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error)
  ListJobs(ctx context.Context, status string, limit, offset int) ([]*types.Job, error)
  UpdateJob(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Job, error)
  CloseJob(ctx context.Context, id uuid.UUID) error
}

type jobService struct {
  db      *gorm.DB
  log     *logger.Logger
  jobRepo repos.JobRepo
}

func NewJobService(db *gorm.DB, log *logger.Logger, jobRepo repos.JobRepo) JobService {
  return &jobService{
    db:      db,
    log:     log.With("service", "JobService"),
    jobRepo: jobRepo,
  }
}

func (js *jobService) CreateJob(ctx context.Context, job *types.Job) (*types.Job, error) {
  job.Title = strings.TrimSpace(job.Title)
  if job.Title == "" {
    return nil, fmt.Errorf("title is required")
  }
  if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
    return nil, fmt.Errorf("salary_min must not exceed salary_max")
  }
  job.ID = uuid.New()
  if job.Status == "" {
    job.Status = "open"
  }
  if _, err := js.jobRepo.Create(ctx, nil, []*types.Job{job}); err != nil {
    return nil, fmt.Errorf("Failed to create job: %w", err)
  }
  return job, nil
}

func (js *jobService) GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error) {
  jobs, err := js.jobRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("Failed to load job: %w", err)
  }
  if len(jobs) == 0 {
    return nil, fmt.Errorf("Job not found")
  }
  return jobs[0], nil
}

func (js *jobService) ListJobs(ctx context.Context, status string, limit, offset int) ([]*types.Job, error) {
  return js.jobRepo.List(ctx, nil, status, limit, offset)
}

func (js *jobService) UpdateJob(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Job, error) {
  if len(updates) == 0 {
    return js.GetJob(ctx, id)
  }
  updates["updated_at"] = time.Now()
  if err := js.jobRepo.UpdateFields(ctx, nil, id, updates); err != nil {
    return nil, fmt.Errorf("Failed to update job: %w", err)
  }
  return js.GetJob(ctx, id)
}

func (js *jobService) CloseJob(ctx context.Context, id uuid.UUID) error {
  return js.jobRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
    "status":     "closed",
    "updated_at": time.Now(),
  })
}
