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

type LeadRepo interface {
  // UpsertSeen records a crawled lead, bumping last_seen_at when the same
  // posting URL shows up again on the same page.
  UpsertSeen(ctx context.Context, tx *gorm.DB, leads []*types.Lead) error
  ListByCareerPage(ctx context.Context, tx *gorm.DB, careerPageID uuid.UUID) ([]*types.Lead, error)
  List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Lead, error)
}

type leadRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewLeadRepo(db *gorm.DB, baseLog *logger.Logger) LeadRepo {
  return &leadRepo{db: db, log: baseLog.With("repo", "LeadRepo")}
}

func (r *leadRepo) UpsertSeen(ctx context.Context, tx *gorm.DB, leads []*types.Lead) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(leads) == 0 {
    return nil
  }
  now := time.Now()
  for _, lead := range leads {
    lead.LastSeenAt = now
  }
  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "career_page_id"}, {Name: "url"}},
      DoUpdates: clause.AssignmentColumns([]string{"title", "location", "department", "last_seen_at", "updated_at"}),
    }).
    Create(&leads).Error
}

func (r *leadRepo) ListByCareerPage(ctx context.Context, tx *gorm.DB, careerPageID uuid.UUID) ([]*types.Lead, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if careerPageID == uuid.Nil {
    return nil, nil
  }
  var results []*types.Lead
  if err := transaction.WithContext(ctx).
    Where("career_page_id = ?", careerPageID).
    Order("last_seen_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *leadRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Lead, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if limit <= 0 || limit > 200 {
    limit = 50
  }
  var results []*types.Lead
  if err := transaction.WithContext(ctx).
    Order("last_seen_at DESC").
    Limit(limit).
    Offset(offset).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
