package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type CandidateBehaviorRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, behavior *types.CandidateBehavior) error
  GetBySubmissionIDs(ctx context.Context, tx *gorm.DB, submissionIDs []uuid.UUID) ([]*types.CandidateBehavior, error)
  RecordEngagement(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, updates map[string]interface{}) error
}

type candidateBehaviorRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCandidateBehaviorRepo(db *gorm.DB, baseLog *logger.Logger) CandidateBehaviorRepo {
  return &candidateBehaviorRepo{db: db, log: baseLog.With("repo", "CandidateBehaviorRepo")}
}

func (r *candidateBehaviorRepo) Upsert(ctx context.Context, tx *gorm.DB, behavior *types.CandidateBehavior) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "submission_id"}},
      DoUpdates: clause.AssignmentColumns([]string{
        "confidence_score", "interview_readiness_score", "closing_probability",
        "hesitation_signals", "motivation_indicators", "updated_at",
      }),
    }).
    Create(behavior).Error
}

func (r *candidateBehaviorRepo) GetBySubmissionIDs(ctx context.Context, tx *gorm.DB, submissionIDs []uuid.UUID) ([]*types.CandidateBehavior, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.CandidateBehavior
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

func (r *candidateBehaviorRepo) RecordEngagement(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(updates) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.CandidateBehavior{}).
    Where("submission_id = ?", submissionID).
    Updates(updates).Error
}
