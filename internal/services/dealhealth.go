package services

import (
  "context"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/dealhealth"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type DealHealthService interface {
  RecomputeSubmission(ctx context.Context, submissionID uuid.UUID) (*types.DealHealth, error)
  // RecomputeAll refreshes the snapshot of every active submission and
  // returns how many were updated.
  RecomputeAll(ctx context.Context) (int, error)
  GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*types.DealHealth, error)
  ListByRisk(ctx context.Context, riskLevel string) ([]*types.DealHealth, error)
}

type dealHealthService struct {
  db             *gorm.DB
  log            *logger.Logger
  submissionRepo repos.SubmissionRepo
  behaviorRepo   repos.CandidateBehaviorRepo
  dealHealthRepo repos.DealHealthRepo
  notifier       Notifier
}

func NewDealHealthService(
  db *gorm.DB,
  log *logger.Logger,
  submissionRepo repos.SubmissionRepo,
  behaviorRepo repos.CandidateBehaviorRepo,
  dealHealthRepo repos.DealHealthRepo,
  notifier Notifier,
) DealHealthService {
  return &dealHealthService{
    db:             db,
    log:            log.With("service", "DealHealthService"),
    submissionRepo: submissionRepo,
    behaviorRepo:   behaviorRepo,
    dealHealthRepo: dealHealthRepo,
    notifier:       notifier,
  }
}

func (ds *dealHealthService) snapshotFor(submission *types.Submission, behavior *types.CandidateBehavior, now time.Time) *types.DealHealth {
  lastActivity := submission.SubmittedAt
  if behavior != nil && behavior.LastActivityAt != nil && behavior.LastActivityAt.After(lastActivity) {
    lastActivity = *behavior.LastActivityAt
  }
  snap := dealhealth.Compute(dealhealth.Input{
    Stage:          submission.Stage,
    StageEnteredAt: submission.StageEnteredAt,
    LastActivityAt: lastActivity,
  }, now)
  return &types.DealHealth{
    ID:                    uuid.New(),
    SubmissionID:          submission.ID,
    HealthScore:           snap.HealthScore,
    RiskLevel:             string(snap.RiskLevel),
    Bottleneck:            string(snap.Bottleneck),
    BottleneckDays:        snap.BottleneckDays,
    DaysSinceLastActivity: snap.DaysSinceLastActivity,
    ComputedAt:            now,
  }
}

func (ds *dealHealthService) RecomputeSubmission(ctx context.Context, submissionID uuid.UUID) (*types.DealHealth, error) {
  submissions, sErr := ds.submissionRepo.GetByIDs(ctx, nil, []uuid.UUID{submissionID})
  if sErr != nil {
    return nil, fmt.Errorf("Failed to load submission: %w", sErr)
  }
  if len(submissions) == 0 {
    return nil, fmt.Errorf("Submission not found")
  }
  behaviors, bErr := ds.behaviorRepo.GetBySubmissionIDs(ctx, nil, []uuid.UUID{submissionID})
  if bErr != nil {
    return nil, fmt.Errorf("Failed to load behavior: %w", bErr)
  }
  var behavior *types.CandidateBehavior
  if len(behaviors) > 0 {
    behavior = behaviors[0]
  }

  row := ds.snapshotFor(submissions[0], behavior, time.Now())
  if uErr := ds.dealHealthRepo.Upsert(ctx, nil, row); uErr != nil {
    return nil, fmt.Errorf("Failed to upsert deal health: %w", uErr)
  }
  ds.notifier.DealHealthUpdated(ctx, submissionID, map[string]any{
    "submission_id": submissionID,
    "health_score":  row.HealthScore,
    "risk_level":    row.RiskLevel,
  })
  return row, nil
}

func (ds *dealHealthService) RecomputeAll(ctx context.Context) (int, error) {
  submissions, sErr := ds.submissionRepo.ListActive(ctx, nil)
  if sErr != nil {
    return 0, fmt.Errorf("Failed to list active submissions: %w", sErr)
  }
  if len(submissions) == 0 {
    return 0, nil
  }

  ids := make([]uuid.UUID, 0, len(submissions))
  for _, s := range submissions {
    ids = append(ids, s.ID)
  }
  behaviors, bErr := ds.behaviorRepo.GetBySubmissionIDs(ctx, nil, ids)
  if bErr != nil {
    return 0, fmt.Errorf("Failed to load behaviors: %w", bErr)
  }
  behaviorBySubmission := make(map[uuid.UUID]*types.CandidateBehavior, len(behaviors))
  for _, b := range behaviors {
    behaviorBySubmission[b.SubmissionID] = b
  }

  now := time.Now()
  updated := 0
  for _, submission := range submissions {
    row := ds.snapshotFor(submission, behaviorBySubmission[submission.ID], now)
    if uErr := ds.dealHealthRepo.Upsert(ctx, nil, row); uErr != nil {
      ds.log.Warn("Failed to upsert deal health", "submission_id", submission.ID, "error", uErr)
      continue
    }
    updated++
  }
  ds.log.Info("Deal health recompute finished", "submissions", len(submissions), "updated", updated)
  return updated, nil
}

func (ds *dealHealthService) GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*types.DealHealth, error) {
  rows, err := ds.dealHealthRepo.GetBySubmissionIDs(ctx, nil, []uuid.UUID{submissionID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load deal health: %w", err)
  }
  if len(rows) == 0 {
    return nil, nil
  }
  return rows[0], nil
}

func (ds *dealHealthService) ListByRisk(ctx context.Context, riskLevel string) ([]*types.DealHealth, error) {
  return ds.dealHealthRepo.ListByRisk(ctx, nil, riskLevel)
}
