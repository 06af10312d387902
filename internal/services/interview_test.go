package services

import (
  "context"
  "errors"
  "testing"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/scheduling"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

func newInterviewService(t *testing.T, db *gorm.DB, notifier Notifier) InterviewService {
  t.Helper()
  log := serviceTestLogger(t)
  return NewInterviewService(
    db, log,
    repos.NewInterviewRepo(db, log),
    repos.NewSubmissionRepo(db, log),
    repos.NewCandidateRepo(db, log),
    repos.NewCandidateBehaviorRepo(db, log),
    nil, // no mail client; the invitation link still exists in the row
    notifier,
  )
}

func seedSubmission(t *testing.T, db *gorm.DB, stage string) uuid.UUID {
  t.Helper()
  now := time.Now()
  submission := &types.Submission{
    ID:             uuid.New(),
    CandidateID:    seedCandidate(t, db),
    JobID:          seedJob(t, db),
    Stage:          stage,
    Status:         "active",
    ConsentGiven:   true,
    StageEnteredAt: now,
    SubmittedAt:    now,
  }
  if err := db.Create(submission).Error; err != nil {
    t.Fatalf("failed to seed submission: %v", err)
  }
  behavior := &types.CandidateBehavior{ID: uuid.New(), SubmissionID: submission.ID}
  if err := db.Create(behavior).Error; err != nil {
    t.Fatalf("failed to seed behavior: %v", err)
  }
  return submission.ID
}

func futureSlots(n int) []time.Time {
  base := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
  slots := make([]time.Time, 0, n)
  for i := 0; i < n; i++ {
    slots = append(slots, base.Add(time.Duration(i)*24*time.Hour))
  }
  return slots
}

func TestSendInvitation_CreatesPendingRoundAndCountsMail(t *testing.T) {
  ctx := context.Background()
  db := openServiceTestDB(t)
  notifier := &recordingNotifier{}
  service := newInterviewService(t, db, notifier)
  submissionID := seedSubmission(t, db, types.StageSubmitted)

  interview, err := service.SendInvitation(ctx, submissionID, futureSlots(2), 45, "video")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if interview.Status != types.InterviewPendingResponse {
    t.Fatalf("want status=pending_response got %q", interview.Status)
  }
  if interview.Round != 1 {
    t.Fatalf("want round=1 got %d", interview.Round)
  }
  if interview.ResponseToken == "" {
    t.Fatalf("invitation must carry a response token")
  }

  log := serviceTestLogger(t)
  behaviors, bErr := repos.NewCandidateBehaviorRepo(db, log).GetBySubmissionIDs(ctx, nil, []uuid.UUID{submissionID})
  if bErr != nil || len(behaviors) != 1 {
    t.Fatalf("failed to load behavior: %v", bErr)
  }
  if behaviors[0].EmailsSent != 1 {
    t.Fatalf("invitation must count as outreach, got emails_sent=%d", behaviors[0].EmailsSent)
  }

  // A second invitation while the first is unanswered is a mistake.
  if _, err := service.SendInvitation(ctx, submissionID, futureSlots(2), 45, "video"); err == nil {
    t.Fatalf("expected error while a round is pending")
  }
}

func TestAccept_SchedulesAndAdvancesSubmission(t *testing.T) {
  ctx := context.Background()
  db := openServiceTestDB(t)
  notifier := &recordingNotifier{}
  service := newInterviewService(t, db, notifier)
  submissionID := seedSubmission(t, db, types.StageSubmitted)

  slots := futureSlots(3)
  interview, err := service.SendInvitation(ctx, submissionID, slots, 60, "video")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  accepted, err := service.Accept(ctx, interview.ResponseToken, 1)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if accepted.Status != types.InterviewScheduled {
    t.Fatalf("want status=scheduled got %q", accepted.Status)
  }
  if accepted.ScheduledAt == nil || !accepted.ScheduledAt.Equal(slots[1]) {
    t.Fatalf("want scheduled_at=%v got %v", slots[1], accepted.ScheduledAt)
  }
  if accepted.ConsumedAt == nil {
    t.Fatalf("accept must consume the token")
  }

  var submission types.Submission
  if err := db.First(&submission, "id = ?", submissionID).Error; err != nil {
    t.Fatalf("failed to reload submission: %v", err)
  }
  if submission.Stage != types.StageInterview1 {
    t.Fatalf("accept of round 1 must move the submission to interview_1, got %q", submission.Stage)
  }
  if !notifier.has("interview_responded") {
    t.Fatalf("expected interview_responded event, got %v", notifier.events)
  }

  // The token is spent; replaying the accept is rejected.
  if _, err := service.Accept(ctx, interview.ResponseToken, 0); !errors.Is(err, scheduling.ErrAlreadyHandled) {
    t.Fatalf("want ErrAlreadyHandled got %v", err)
  }
}

func TestCounter_RecordsSlotsAndSpendsToken(t *testing.T) {
  ctx := context.Background()
  db := openServiceTestDB(t)
  service := newInterviewService(t, db, &recordingNotifier{})
  submissionID := seedSubmission(t, db, types.StageSubmitted)

  interview, err := service.SendInvitation(ctx, submissionID, futureSlots(2), 60, "video")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  countered, err := service.Counter(ctx, interview.ResponseToken, futureSlots(2), "  Mornings only please  ")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if countered.Status != types.InterviewCounterProposed {
    t.Fatalf("want status=counter_proposed got %q", countered.Status)
  }
  if countered.CounterMessage != "Mornings only please" {
    t.Fatalf("counter message must be trimmed, got %q", countered.CounterMessage)
  }
  if len(countered.CounterSlots) == 0 {
    t.Fatalf("counter slots must be recorded")
  }

  if _, err := service.Decline(ctx, interview.ResponseToken, "changed my mind"); !errors.Is(err, scheduling.ErrAlreadyHandled) {
    t.Fatalf("want ErrAlreadyHandled after counter, got %v", err)
  }

  // The round is over; the recruiter may now send a fresh invitation.
  next, err := service.SendInvitation(ctx, submissionID, futureSlots(1), 60, "video")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if next.Round != 2 {
    t.Fatalf("want round=2 got %d", next.Round)
  }
}

func TestDecline_RecordsReason(t *testing.T) {
  ctx := context.Background()
  db := openServiceTestDB(t)
  service := newInterviewService(t, db, &recordingNotifier{})
  submissionID := seedSubmission(t, db, types.StageSubmitted)

  interview, err := service.SendInvitation(ctx, submissionID, futureSlots(1), 60, "onsite")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  declined, err := service.Decline(ctx, interview.ResponseToken, "accepted another offer")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if declined.Status != types.InterviewDeclined {
    t.Fatalf("want status=declined got %q", declined.Status)
  }
  if declined.DeclineReason != "accepted another offer" {
    t.Fatalf("want reason recorded, got %q", declined.DeclineReason)
  }
}

func TestGetByToken_UnknownTokenIsTyped(t *testing.T) {
  ctx := context.Background()
  db := openServiceTestDB(t)
  service := newInterviewService(t, db, &recordingNotifier{})

  if _, err := service.GetByToken(ctx, "nope"); !errors.Is(err, ErrUnknownToken) {
    t.Fatalf("want ErrUnknownToken got %v", err)
  }
}

func TestSendInvitation_RejectsTerminalSubmission(t *testing.T) {
  ctx := context.Background()
  db := openServiceTestDB(t)
  service := newInterviewService(t, db, &recordingNotifier{})
  submissionID := seedSubmission(t, db, types.StageRejected)

  if _, err := service.SendInvitation(ctx, submissionID, futureSlots(1), 60, "video"); err == nil {
    t.Fatalf("expected error for terminal submission")
  }
}
