package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type CalendarConnectionRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, conn *types.CalendarConnection) error
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.CalendarConnection, error)
  DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type calendarConnectionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCalendarConnectionRepo(db *gorm.DB, baseLog *logger.Logger) CalendarConnectionRepo {
  return &calendarConnectionRepo{db: db, log: baseLog.With("repo", "CalendarConnectionRepo")}
}

func (r *calendarConnectionRepo) Upsert(ctx context.Context, tx *gorm.DB, conn *types.CalendarConnection) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "user_id"}},
      DoUpdates: clause.AssignmentColumns([]string{
        "access_token", "refresh_token", "token_expiry", "account_email", "updated_at",
      }),
    }).
    Create(conn).Error
}

func (r *calendarConnectionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.CalendarConnection, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if userID == uuid.Nil {
    return nil, nil
  }
  var conn types.CalendarConnection
  err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Limit(1).
    Find(&conn).Error
  if err != nil {
    return nil, err
  }
  if conn.ID == uuid.Nil {
    return nil, nil
  }
  return &conn, nil
}

func (r *calendarConnectionRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if userID == uuid.Nil {
    return nil
  }
  return transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Delete(&types.CalendarConnection{}).Error
}
