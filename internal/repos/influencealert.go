package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type InfluenceAlertRepo interface {
  // InsertIfAbsent inserts the alert unless an undismissed alert of the same
  // (submission_id, alert_type) already exists. The partial unique index is
  // the dedup authority; no read-then-write check. Returns true if inserted.
  InsertIfAbsent(ctx context.Context, tx *gorm.DB, alert *types.InfluenceAlert) (bool, error)
  ListOpen(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.InfluenceAlert, error)
  CountOpen(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, alertType string) (int64, error)
  Dismiss(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
}

type influenceAlertRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewInfluenceAlertRepo(db *gorm.DB, baseLog *logger.Logger) InfluenceAlertRepo {
  return &influenceAlertRepo{db: db, log: baseLog.With("repo", "InfluenceAlertRepo")}
}

func (r *influenceAlertRepo) InsertIfAbsent(ctx context.Context, tx *gorm.DB, alert *types.InfluenceAlert) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  result := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:     []clause.Column{{Name: "submission_id"}, {Name: "alert_type"}},
      TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "dismissed_at IS NULL"}}},
      DoNothing:   true,
    }).
    Create(alert)
  if result.Error != nil {
    return false, result.Error
  }
  return result.RowsAffected == 1, nil
}

func (r *influenceAlertRepo) ListOpen(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.InfluenceAlert, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if limit <= 0 || limit > 200 {
    limit = 50
  }
  var results []*types.InfluenceAlert
  if err := transaction.WithContext(ctx).
    Where("dismissed_at IS NULL AND (expires_at IS NULL OR expires_at > ?)", time.Now()).
    Order("created_at DESC").
    Limit(limit).
    Offset(offset).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *influenceAlertRepo) CountOpen(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, alertType string) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.InfluenceAlert{}).
    Where("submission_id = ? AND alert_type = ? AND dismissed_at IS NULL", submissionID, alertType).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (r *influenceAlertRepo) Dismiss(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  result := transaction.WithContext(ctx).
    Model(&types.InfluenceAlert{}).
    Where("id = ? AND dismissed_at IS NULL", id).
    Update("dismissed_at", time.Now())
  if result.Error != nil {
    return false, result.Error
  }
  return result.RowsAffected == 1, nil
}
