package services

import (
  "context"
  "fmt"
  "strings"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type CandidateService interface {
  CreateCandidate(ctx context.Context, candidate *types.Candidate) (*types.Candidate, error)
  GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error)
  ListCandidates(ctx context.Context, limit, offset int) ([]*types.Candidate, error)
  UpdateCandidate(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Candidate, error)
  RecordConsent(ctx context.Context, id uuid.UUID) error
}

type candidateService struct {
  db            *gorm.DB
  log           *logger.Logger
  candidateRepo repos.CandidateRepo
  avatarService AvatarService
}

func NewCandidateService(
  db *gorm.DB,
  log *logger.Logger,
  candidateRepo repos.CandidateRepo,
  avatarService AvatarService,
) CandidateService {
  return &candidateService{
    db:            db,
    log:           log.With("service", "CandidateService"),
    candidateRepo: candidateRepo,
    avatarService: avatarService,
  }
}

func (cs *candidateService) CreateCandidate(ctx context.Context, candidate *types.Candidate) (*types.Candidate, error) {
  candidate.Email = strings.ToLower(strings.TrimSpace(candidate.Email))
  candidate.FirstName = strings.TrimSpace(candidate.FirstName)
  candidate.LastName = strings.TrimSpace(candidate.LastName)
  if candidate.Email == "" || candidate.FirstName == "" || candidate.LastName == "" {
    return nil, fmt.Errorf("email, first name and last name are required")
  }

  err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    candidate.ID = uuid.New()
    if cs.avatarService != nil {
      if aErr := cs.avatarService.CreateAndUploadCandidateAvatar(ctx, tx, candidate); aErr != nil {
        // Avatar rendering is presentation sugar; candidate intake must not
        // fail on it.
        cs.log.Warn("Failed to render candidate avatar", "error", aErr)
      }
    }
    if _, cErr := cs.candidateRepo.Create(ctx, tx, []*types.Candidate{candidate}); cErr != nil {
      return fmt.Errorf("Failed to create candidate: %w", cErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return candidate, nil
}

func (cs *candidateService) GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error) {
  candidates, err := cs.candidateRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("Failed to load candidate: %w", err)
  }
  if len(candidates) == 0 {
    return nil, fmt.Errorf("Candidate not found")
  }
  return candidates[0], nil
}

func (cs *candidateService) ListCandidates(ctx context.Context, limit, offset int) ([]*types.Candidate, error) {
  return cs.candidateRepo.List(ctx, nil, limit, offset)
}

func (cs *candidateService) UpdateCandidate(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Candidate, error) {
  if len(updates) == 0 {
    return cs.GetCandidate(ctx, id)
  }
  updates["updated_at"] = time.Now()
  if err := cs.candidateRepo.UpdateFields(ctx, nil, id, updates); err != nil {
    return nil, fmt.Errorf("Failed to update candidate: %w", err)
  }
  return cs.GetCandidate(ctx, id)
}

func (cs *candidateService) RecordConsent(ctx context.Context, id uuid.UUID) error {
  return cs.candidateRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
    "consent_given": true,
    "updated_at":    time.Now(),
  })
}
