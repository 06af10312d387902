package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type InterviewRepo interface {
  Create(ctx context.Context, tx *gorm.DB, interviews []*types.Interview) ([]*types.Interview, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Interview, error)
  GetByResponseToken(ctx context.Context, tx *gorm.DB, token string) (*types.Interview, error)
  GetLatestBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*types.Interview, error)
  ListPendingBefore(ctx context.Context, tx *gorm.DB, before time.Time) ([]*types.Interview, error)
  // TransitionFromPending applies updates only while the interview is still
  // pending_response. Returns false if another request resolved it first.
  TransitionFromPending(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (bool, error)
}

type interviewRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewInterviewRepo(db *gorm.DB, baseLog *logger.Logger) InterviewRepo {
  return &interviewRepo{db: db, log: baseLog.With("repo", "InterviewRepo")}
}

func (r *interviewRepo) Create(ctx context.Context, tx *gorm.DB, interviews []*types.Interview) ([]*types.Interview, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(interviews) == 0 {
    return []*types.Interview{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&interviews).Error; err != nil {
    return nil, err
  }
  return interviews, nil
}

func (r *interviewRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Interview, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.Interview
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

func (r *interviewRepo) GetByResponseToken(ctx context.Context, tx *gorm.DB, token string) (*types.Interview, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if token == "" {
    return nil, nil
  }
  var interview types.Interview
  err := transaction.WithContext(ctx).
    Where("response_token = ?", token).
    Limit(1).
    Find(&interview).Error
  if err != nil {
    return nil, err
  }
  if interview.ID == uuid.Nil {
    return nil, nil
  }
  return &interview, nil
}

func (r *interviewRepo) GetLatestBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*types.Interview, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if submissionID == uuid.Nil {
    return nil, nil
  }
  var interview types.Interview
  err := transaction.WithContext(ctx).
    Where("submission_id = ?", submissionID).
    Order("round DESC").
    Limit(1).
    Find(&interview).Error
  if err != nil {
    return nil, err
  }
  if interview.ID == uuid.Nil {
    return nil, nil
  }
  return &interview, nil
}

func (r *interviewRepo) ListPendingBefore(ctx context.Context, tx *gorm.DB, before time.Time) ([]*types.Interview, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.Interview
  if err := transaction.WithContext(ctx).
    Where("status = ? AND created_at < ?", types.InterviewPendingResponse, before).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *interviewRepo) TransitionFromPending(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(updates) == 0 {
    return false, nil
  }
  result := transaction.WithContext(ctx).
    Model(&types.Interview{}).
    Where("id = ? AND status = ?", id, types.InterviewPendingResponse).
    Updates(updates)
  if result.Error != nil {
    return false, result.Error
  }
  return result.RowsAffected == 1, nil
}
