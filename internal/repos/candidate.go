package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type CandidateRepo interface {
  Create(ctx context.Context, tx *gorm.DB, candidates []*types.Candidate) ([]*types.Candidate, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Candidate, error)
  List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Candidate, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type candidateRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCandidateRepo(db *gorm.DB, baseLog *logger.Logger) CandidateRepo {
  return &candidateRepo{db: db, log: baseLog.With("repo", "CandidateRepo")}
}

func (r *candidateRepo) Create(ctx context.Context, tx *gorm.DB, candidates []*types.Candidate) ([]*types.Candidate, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(candidates) == 0 {
    return []*types.Candidate{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&candidates).Error; err != nil {
    return nil, err
  }
  return candidates, nil
}

func (r *candidateRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Candidate, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.Candidate
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

func (r *candidateRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Candidate, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if limit <= 0 || limit > 200 {
    limit = 50
  }
  var results []*types.Candidate
  if err := transaction.WithContext(ctx).
    Order("created_at DESC").
    Limit(limit).
    Offset(offset).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *candidateRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(updates) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.Candidate{}).
    Where("id = ?", id).
    Updates(updates).Error
}
