package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type SubmissionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, submissions []*types.Submission) ([]*types.Submission, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Submission, error)
  ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Submission, error)
  ListByStage(ctx context.Context, tx *gorm.DB, stage string, limit, offset int) ([]*types.Submission, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type submissionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
  return &submissionRepo{db: db, log: baseLog.With("repo", "SubmissionRepo")}
}

func (r *submissionRepo) Create(ctx context.Context, tx *gorm.DB, submissions []*types.Submission) ([]*types.Submission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(submissions) == 0 {
    return []*types.Submission{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&submissions).Error; err != nil {
    return nil, err
  }
  return submissions, nil
}

func (r *submissionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Submission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.Submission
  if len(ids) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// ListActive returns every submission still moving through the pipeline,
// with candidate and job preloaded for the scoring passes.
func (r *submissionRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Submission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.Submission
  if err := transaction.WithContext(ctx).
    Preload("Candidate").
    Preload("Job").
    Where("stage NOT IN ?", []string{types.StageHired, types.StageRejected}).
    Order("submitted_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *submissionRepo) ListByStage(ctx context.Context, tx *gorm.DB, stage string, limit, offset int) ([]*types.Submission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if limit <= 0 || limit > 200 {
    limit = 50
  }
  q := transaction.WithContext(ctx).Order("updated_at DESC").Limit(limit).Offset(offset)
  if stage != "" {
    q = q.Where("stage = ?", stage)
  }
  var results []*types.Submission
  if err := q.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *submissionRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(updates) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.Submission{}).
    Where("id = ?", id).
    Updates(updates).Error
}
