package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type CareerPageRepo interface {
  Create(ctx context.Context, tx *gorm.DB, pages []*types.CareerPage) ([]*types.CareerPage, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CareerPage, error)
  List(ctx context.Context, tx *gorm.DB) ([]*types.CareerPage, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type careerPageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCareerPageRepo(db *gorm.DB, baseLog *logger.Logger) CareerPageRepo {
  return &careerPageRepo{db: db, log: baseLog.With("repo", "CareerPageRepo")}
}

func (r *careerPageRepo) Create(ctx context.Context, tx *gorm.DB, pages []*types.CareerPage) ([]*types.CareerPage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(pages) == 0 {
    return []*types.CareerPage{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&pages).Error; err != nil {
    return nil, err
  }
  return pages, nil
}

func (r *careerPageRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CareerPage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.CareerPage
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

func (r *careerPageRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.CareerPage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.CareerPage
  if err := transaction.WithContext(ctx).
    Order("company_name ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *careerPageRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(updates) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.CareerPage{}).
    Where("id = ?", id).
    Updates(updates).Error
}
