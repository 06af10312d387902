package services

import (
  "context"
  "testing"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

func seedCandidate(t *testing.T, db *gorm.DB) uuid.UUID {
  t.Helper()
  salary := 55000.0
  candidate := &types.Candidate{
    ID:              uuid.New(),
    FirstName:       "Maya",
    LastName:        "Richter",
    Email:           "maya.richter@example.com",
    Skills:          encodeStringList([]string{"Go", "Postgres", "Kubernetes"}),
    ExperienceYears: 8,
    Industries:      encodeStringList([]string{"fintech"}),
    ExpectedSalary:  &salary,
    HasWorkPermit:   true,
    Languages:       encodeStringList([]string{"english"}),
    WillingOnsite:   true,
  }
  if err := db.Create(candidate).Error; err != nil {
    t.Fatalf("failed to seed candidate: %v", err)
  }
  return candidate.ID
}

func seedJob(t *testing.T, db *gorm.DB) uuid.UUID {
  t.Helper()
  budget := 60000.0
  job := &types.Job{
    ID:                 uuid.New(),
    Title:              "Backend Engineer",
    ClientName:         "Acme Bank",
    MustHaveSkills:     encodeStringList([]string{"go", "postgres"}),
    NiceToHaveSkills:   encodeStringList([]string{"kubernetes"}),
    Industries:         encodeStringList([]string{"fintech"}),
    MinExperienceYears: 5,
    SalaryMax:          &budget,
    RemotePolicy:       "remote",
    RequiredLanguages:  encodeStringList([]string{"english"}),
    Status:             "open",
  }
  if err := db.Create(job).Error; err != nil {
    t.Fatalf("failed to seed job: %v", err)
  }
  return job.ID
}

func newSubmissionService(t *testing.T, db *gorm.DB, notifier Notifier) SubmissionService {
  t.Helper()
  log := serviceTestLogger(t)
  configService := NewMatchingConfigService(db, log, repos.NewMatchingConfigRepo(db, log))
  return NewSubmissionService(
    db, log,
    repos.NewSubmissionRepo(db, log),
    repos.NewCandidateRepo(db, log),
    repos.NewJobRepo(db, log),
    repos.NewCandidateBehaviorRepo(db, log),
    configService,
    notifier,
  )
}

func TestCreateSubmission_PersistsScoreAndSeedsBehavior(t *testing.T) {
  ctx := context.Background()
  db := openServiceTestDB(t)
  notifier := &recordingNotifier{}
  service := newSubmissionService(t, db, notifier)

  candidateID := seedCandidate(t, db)
  jobID := seedJob(t, db)

  submission, result, err := service.CreateSubmission(ctx, candidateID, jobID, true)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if submission.MatchScore == nil || *submission.MatchScore != result.OverallScore {
    t.Fatalf("stored score must match the result, got %v vs %v", submission.MatchScore, result.OverallScore)
  }
  if submission.MatchPolicy != string(result.Tier) {
    t.Fatalf("stored tier must match the result, got %q vs %q", submission.MatchPolicy, result.Tier)
  }
  if submission.Stage != types.StageSubmitted {
    t.Fatalf("new submission must start in submitted, got %q", submission.Stage)
  }

  log := serviceTestLogger(t)
  behaviors, bErr := repos.NewCandidateBehaviorRepo(db, log).GetBySubmissionIDs(ctx, nil, []uuid.UUID{submission.ID})
  if bErr != nil || len(behaviors) != 1 {
    t.Fatalf("expected seeded behavior row, got %d (%v)", len(behaviors), bErr)
  }
  if behaviors[0].EmailsSent != 0 {
    t.Fatalf("behavior row must start at zero, got %d", behaviors[0].EmailsSent)
  }
  if !notifier.has("submission_created") {
    t.Fatalf("expected submission_created event, got %v", notifier.events)
  }
}

func TestPreviewMatch_PersistsNothing(t *testing.T) {
  ctx := context.Background()
  db := openServiceTestDB(t)
  service := newSubmissionService(t, db, &recordingNotifier{})

  candidateID := seedCandidate(t, db)
  jobID := seedJob(t, db)

  result, err := service.PreviewMatch(ctx, candidateID, jobID)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if result.OverallScore <= 0 {
    t.Fatalf("expected a scored preview, got %v", result.OverallScore)
  }

  var count int64
  if err := db.Model(&types.Submission{}).Count(&count).Error; err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if count != 0 {
    t.Fatalf("preview must not persist a submission, found %d", count)
  }
}

func TestAdvanceStage_OneStepAtATime(t *testing.T) {
  ctx := context.Background()
  db := openServiceTestDB(t)
  notifier := &recordingNotifier{}
  service := newSubmissionService(t, db, notifier)

  submission, _, err := service.CreateSubmission(ctx, seedCandidate(t, db), seedJob(t, db), true)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  if _, err := service.AdvanceStage(ctx, submission.ID, types.StageOffer); err == nil {
    t.Fatalf("skipping stages must fail")
  }

  advanced, err := service.AdvanceStage(ctx, submission.ID, types.StageInterview1)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if advanced.Stage != types.StageInterview1 {
    t.Fatalf("want stage=%q got %q", types.StageInterview1, advanced.Stage)
  }
  if !notifier.has("submission_stage_changed") {
    t.Fatalf("expected submission_stage_changed event, got %v", notifier.events)
  }

  // One step backward is a legal correction.
  back, err := service.AdvanceStage(ctx, submission.ID, types.StageSubmitted)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if back.Stage != types.StageSubmitted {
    t.Fatalf("want stage=%q got %q", types.StageSubmitted, back.Stage)
  }
}

func TestAdvanceStage_RejectedFromAnyStageButNotBack(t *testing.T) {
  ctx := context.Background()
  db := openServiceTestDB(t)
  service := newSubmissionService(t, db, &recordingNotifier{})

  submission, _, err := service.CreateSubmission(ctx, seedCandidate(t, db), seedJob(t, db), true)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  rejected, err := service.AdvanceStage(ctx, submission.ID, types.StageRejected)
  if err != nil {
    t.Fatalf("rejecting a fresh submission must work: %v", err)
  }
  if rejected.Stage != types.StageRejected {
    t.Fatalf("want stage=rejected got %q", rejected.Stage)
  }

  if _, err := service.AdvanceStage(ctx, submission.ID, types.StageInterview1); err == nil {
    t.Fatalf("a terminal submission must not advance")
  }
}

func TestRecordConsent_FlipsFlag(t *testing.T) {
  ctx := context.Background()
  db := openServiceTestDB(t)
  service := newSubmissionService(t, db, &recordingNotifier{})

  submission, _, err := service.CreateSubmission(ctx, seedCandidate(t, db), seedJob(t, db), false)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if submission.ConsentGiven {
    t.Fatalf("submission must start without consent")
  }

  if err := service.RecordConsent(ctx, submission.ID); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  reloaded, err := service.GetSubmission(ctx, submission.ID)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if !reloaded.ConsentGiven {
    t.Fatalf("expected consent_given after recording consent")
  }
}
