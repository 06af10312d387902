package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type ClientSummaryRepo interface {
  Create(ctx context.Context, tx *gorm.DB, summaries []*types.CandidateClientSummary) ([]*types.CandidateClientSummary, error)
  GetLatestByCandidate(ctx context.Context, tx *gorm.DB, candidateID uuid.UUID) (*types.CandidateClientSummary, error)
}

type clientSummaryRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewClientSummaryRepo(db *gorm.DB, baseLog *logger.Logger) ClientSummaryRepo {
  return &clientSummaryRepo{db: db, log: baseLog.With("repo", "ClientSummaryRepo")}
}

func (r *clientSummaryRepo) Create(ctx context.Context, tx *gorm.DB, summaries []*types.CandidateClientSummary) ([]*types.CandidateClientSummary, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(summaries) == 0 {
    return []*types.CandidateClientSummary{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&summaries).Error; err != nil {
    return nil, err
  }
  return summaries, nil
}

func (r *clientSummaryRepo) GetLatestByCandidate(ctx context.Context, tx *gorm.DB, candidateID uuid.UUID) (*types.CandidateClientSummary, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if candidateID == uuid.Nil {
    return nil, nil
  }
  var summary types.CandidateClientSummary
  err := transaction.WithContext(ctx).
    Where("candidate_id = ?", candidateID).
    Order("created_at DESC").
    Limit(1).
    Find(&summary).Error
  if err != nil {
    return nil, err
  }
  if summary.ID == uuid.Nil {
    return nil, nil
  }
  return &summary, nil
}
