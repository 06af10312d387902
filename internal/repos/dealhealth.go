package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type DealHealthRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, snapshot *types.DealHealth) error
  GetBySubmissionIDs(ctx context.Context, tx *gorm.DB, submissionIDs []uuid.UUID) ([]*types.DealHealth, error)
  ListByRisk(ctx context.Context, tx *gorm.DB, riskLevel string) ([]*types.DealHealth, error)
}

type dealHealthRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDealHealthRepo(db *gorm.DB, baseLog *logger.Logger) DealHealthRepo {
  return &dealHealthRepo{db: db, log: baseLog.With("repo", "DealHealthRepo")}
}

func (r *dealHealthRepo) Upsert(ctx context.Context, tx *gorm.DB, snapshot *types.DealHealth) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "submission_id"}},
      DoUpdates: clause.AssignmentColumns([]string{
        "health_score", "risk_level", "bottleneck", "bottleneck_days",
        "days_since_last_activity", "computed_at", "updated_at",
      }),
    }).
    Create(snapshot).Error
}

func (r *dealHealthRepo) GetBySubmissionIDs(ctx context.Context, tx *gorm.DB, submissionIDs []uuid.UUID) ([]*types.DealHealth, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.DealHealth
  if len(submissionIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("submission_id IN ?", submissionIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *dealHealthRepo) ListByRisk(ctx context.Context, tx *gorm.DB, riskLevel string) ([]*types.DealHealth, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  q := transaction.WithContext(ctx).Order("health_score ASC")
  if riskLevel != "" {
    q = q.Where("risk_level = ?", riskLevel)
  }
  var results []*types.DealHealth
  if err := q.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
