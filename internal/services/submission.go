package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/matching"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type SubmissionService interface {
  // CreateSubmission scores the candidate against the job under the active
  // matching config and persists the submission with score and tier.
  CreateSubmission(ctx context.Context, candidateID, jobID uuid.UUID, consentGiven bool) (*types.Submission, *matching.Result, error)
  // PreviewMatch scores without persisting anything.
  PreviewMatch(ctx context.Context, candidateID, jobID uuid.UUID) (*matching.Result, error)
  GetSubmission(ctx context.Context, id uuid.UUID) (*types.Submission, error)
  ListSubmissions(ctx context.Context, stage string, limit, offset int) ([]*types.Submission, error)
  AdvanceStage(ctx context.Context, id uuid.UUID, toStage string) (*types.Submission, error)
  RecordConsent(ctx context.Context, id uuid.UUID) error
}

type submissionService struct {
  db             *gorm.DB
  log            *logger.Logger
  submissionRepo repos.SubmissionRepo
  candidateRepo  repos.CandidateRepo
  jobRepo        repos.JobRepo
  behaviorRepo   repos.CandidateBehaviorRepo
  configService  MatchingConfigService
  notifier       Notifier
}

func NewSubmissionService(
  db *gorm.DB,
  log *logger.Logger,
  submissionRepo repos.SubmissionRepo,
  candidateRepo repos.CandidateRepo,
  jobRepo repos.JobRepo,
  behaviorRepo repos.CandidateBehaviorRepo,
  configService MatchingConfigService,
  notifier Notifier,
) SubmissionService {
  return &submissionService{
    db:             db,
    log:            log.With("service", "SubmissionService"),
    submissionRepo: submissionRepo,
    candidateRepo:  candidateRepo,
    jobRepo:        jobRepo,
    behaviorRepo:   behaviorRepo,
    configService:  configService,
    notifier:       notifier,
  }
}

func (ss *submissionService) score(ctx context.Context, candidateID, jobID uuid.UUID) (*types.Candidate, *types.Job, *matching.Result, error) {
  candidates, cErr := ss.candidateRepo.GetByIDs(ctx, nil, []uuid.UUID{candidateID})
  if cErr != nil {
    return nil, nil, nil, fmt.Errorf("Failed to load candidate: %w", cErr)
  }
  if len(candidates) == 0 {
    return nil, nil, nil, fmt.Errorf("Candidate not found")
  }
  jobs, jErr := ss.jobRepo.GetByIDs(ctx, nil, []uuid.UUID{jobID})
  if jErr != nil {
    return nil, nil, nil, fmt.Errorf("Failed to load job: %w", jErr)
  }
  if len(jobs) == 0 {
    return nil, nil, nil, fmt.Errorf("Job not found")
  }
  cfg, _, cfgErr := ss.configService.ActiveConfig(ctx)
  if cfgErr != nil {
    return nil, nil, nil, cfgErr
  }
  result := matching.Evaluate(cfg, CandidateProfileFrom(candidates[0]), JobProfileFrom(jobs[0]), time.Now())
  return candidates[0], jobs[0], &result, nil
}

func (ss *submissionService) CreateSubmission(ctx context.Context, candidateID, jobID uuid.UUID, consentGiven bool) (*types.Submission, *matching.Result, error) {
  _, _, result, err := ss.score(ctx, candidateID, jobID)
  if err != nil {
    return nil, nil, err
  }

  now := time.Now()
  submission := &types.Submission{
    ID:             uuid.New(),
    CandidateID:    candidateID,
    JobID:          jobID,
    Stage:          types.StageSubmitted,
    Status:         "active",
    MatchScore:     &result.OverallScore,
    MatchPolicy:    string(result.Tier),
    ConsentGiven:   consentGiven,
    StageEnteredAt: now,
    SubmittedAt:    now,
  }

  err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, cErr := ss.submissionRepo.Create(ctx, tx, []*types.Submission{submission}); cErr != nil {
      return fmt.Errorf("Failed to create submission: %w", cErr)
    }
    // Seed the behavior row so engagement tracking starts at zero instead of
    // being absent.
    behavior := &types.CandidateBehavior{
      ID:           uuid.New(),
      SubmissionID: submission.ID,
    }
    if bErr := ss.behaviorRepo.Upsert(ctx, tx, behavior); bErr != nil {
      return fmt.Errorf("Failed to seed candidate behavior: %w", bErr)
    }
    return nil
  })
  if err != nil {
    return nil, nil, err
  }

  ss.notifier.SubmissionCreated(ctx, submission.ID, map[string]any{
    "submission_id": submission.ID,
    "match_score":   result.OverallScore,
    "tier":          result.Tier,
  })
  return submission, result, nil
}

func (ss *submissionService) PreviewMatch(ctx context.Context, candidateID, jobID uuid.UUID) (*matching.Result, error) {
  _, _, result, err := ss.score(ctx, candidateID, jobID)
  return result, err
}

func (ss *submissionService) GetSubmission(ctx context.Context, id uuid.UUID) (*types.Submission, error) {
  submissions, err := ss.submissionRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("Failed to load submission: %w", err)
  }
  if len(submissions) == 0 {
    return nil, fmt.Errorf("Submission not found")
  }
  return submissions[0], nil
}

func (ss *submissionService) ListSubmissions(ctx context.Context, stage string, limit, offset int) ([]*types.Submission, error) {
  return ss.submissionRepo.ListByStage(ctx, nil, stage, limit, offset)
}

// AdvanceStage moves a submission one pipeline step forward or backward, or
// to rejected from any non-terminal stage. stage_entered_at is reset so
// dwell-time heuristics measure the new stage.
func (ss *submissionService) AdvanceStage(ctx context.Context, id uuid.UUID, toStage string) (*types.Submission, error) {
  submission, err := ss.GetSubmission(ctx, id)
  if err != nil {
    return nil, err
  }
  if types.IsTerminalStage(submission.Stage) {
    return nil, fmt.Errorf("submission is already in terminal stage %q", submission.Stage)
  }
  if toStage != types.StageRejected {
    fromIdx := types.StageIndex(submission.Stage)
    toIdx := types.StageIndex(toStage)
    if toIdx == -1 {
      return nil, fmt.Errorf("unknown stage %q", toStage)
    }
    if toIdx != fromIdx+1 && toIdx != fromIdx-1 {
      return nil, fmt.Errorf("cannot move from %q to %q; stages move one step at a time", submission.Stage, toStage)
    }
  }

  now := time.Now()
  if uErr := ss.submissionRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
    "stage":            toStage,
    "stage_entered_at": now,
    "updated_at":       now,
  }); uErr != nil {
    return nil, fmt.Errorf("Failed to update submission stage: %w", uErr)
  }
  submission.Stage = toStage
  submission.StageEnteredAt = now

  ss.notifier.SubmissionStageChanged(ctx, submission.ID, map[string]any{
    "submission_id": submission.ID,
    "stage":         toStage,
  })
  return submission, nil
}

func (ss *submissionService) RecordConsent(ctx context.Context, id uuid.UUID) error {
  return ss.submissionRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
    "consent_given": true,
    "updated_at":    time.Now(),
  })
}

// CandidateProfileFrom maps a candidate row onto the scoring profile. JSON
// list columns decode to nil on absence, which the engine treats as unknown.
func CandidateProfileFrom(c *types.Candidate) matching.CandidateProfile {
  return matching.CandidateProfile{
    Skills:          decodeStringList(c.Skills),
    ExperienceYears: c.ExperienceYears,
    Industries:      decodeStringList(c.Industries),
    ExpectedSalary:  c.ExpectedSalary,
    CommuteMinutes:  c.CommuteMinutes,
    AvailableFrom:   c.AvailableFrom,
    HasWorkPermit:   c.HasWorkPermit,
    Languages:       decodeStringList(c.Languages),
    Licenses:        decodeStringList(c.Licenses),
    WillingOnsite:   c.WillingOnsite,
  }
}

func JobProfileFrom(j *types.Job) matching.JobProfile {
  return matching.JobProfile{
    MustHaveSkills:     decodeStringList(j.MustHaveSkills),
    NiceToHaveSkills:   decodeStringList(j.NiceToHaveSkills),
    Industries:         decodeStringList(j.Industries),
    MinExperienceYears: j.MinExperienceYears,
    SalaryMin:          j.SalaryMin,
    SalaryMax:          j.SalaryMax,
    MaxCommuteMinutes:  j.MaxCommuteMinutes,
    RemotePolicy:       j.RemotePolicy,
    StartBy:            j.StartBy,
    RequiresWorkPermit: j.RequiresWorkPermit,
    RequiredLanguages:  decodeStringList(j.RequiredLanguages),
    RequiredLicenses:   decodeStringList(j.RequiredLicenses),
    RequiresOnsite:     j.RequiresOnsite,
  }
}

func decodeStringList(raw datatypes.JSON) []string {
  if len(raw) == 0 {
    return nil
  }
  var out []string
  if err := json.Unmarshal(raw, &out); err != nil {
    return nil
  }
  return out
}

func encodeStringList(items []string) datatypes.JSON {
  if items == nil {
    items = []string{}
  }
  raw, err := json.Marshal(items)
  if err != nil {
    return datatypes.JSON("[]")
  }
  return datatypes.JSON(raw)
}
