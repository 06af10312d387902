package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type MatchingConfigRepo interface {
  GetActive(ctx context.Context, tx *gorm.DB) (*types.MatchingConfig, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MatchingConfig, error)
  // CreateActive deactivates the current active version and inserts cfg as
  // the new active one, in a single transaction.
  CreateActive(ctx context.Context, tx *gorm.DB, cfg *types.MatchingConfig) (*types.MatchingConfig, error)
  ListVersions(ctx context.Context, tx *gorm.DB, name string) ([]*types.MatchingConfig, error)
}

type matchingConfigRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMatchingConfigRepo(db *gorm.DB, baseLog *logger.Logger) MatchingConfigRepo {
  return &matchingConfigRepo{db: db, log: baseLog.With("repo", "MatchingConfigRepo")}
}

func (r *matchingConfigRepo) GetActive(ctx context.Context, tx *gorm.DB) (*types.MatchingConfig, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var cfg types.MatchingConfig
  err := transaction.WithContext(ctx).
    Where("is_active = ?", true).
    Limit(1).
    Find(&cfg).Error
  if err != nil {
    return nil, err
  }
  if cfg.ID == uuid.Nil {
    return nil, nil
  }
  return &cfg, nil
}

func (r *matchingConfigRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MatchingConfig, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.MatchingConfig
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

func (r *matchingConfigRepo) CreateActive(ctx context.Context, tx *gorm.DB, cfg *types.MatchingConfig) (*types.MatchingConfig, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
    var maxVersion int
    if err := txx.Model(&types.MatchingConfig{}).
      Select("COALESCE(MAX(version), 0)").
      Where("name = ?", cfg.Name).
      Scan(&maxVersion).Error; err != nil {
      return err
    }
    if err := txx.Model(&types.MatchingConfig{}).
      Where("is_active = ?", true).
      Update("is_active", false).Error; err != nil {
      return err
    }
    cfg.Version = maxVersion + 1
    cfg.IsActive = true
    return txx.Create(cfg).Error
  })
  if err != nil {
    return nil, err
  }
  return cfg, nil
}

func (r *matchingConfigRepo) ListVersions(ctx context.Context, tx *gorm.DB, name string) ([]*types.MatchingConfig, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  q := transaction.WithContext(ctx).Order("version DESC")
  if name != "" {
    q = q.Where("name = ?", name)
  }
  var results []*types.MatchingConfig
  if err := q.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
