package repos

import (
  "context"
  "testing"
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

func pendingInterview(submissionID uuid.UUID, round int, token string) *types.Interview {
  return &types.Interview{
    ID:              uuid.New(),
    SubmissionID:    submissionID,
    Round:           round,
    ProposedSlots:   datatypes.JSON([]byte(`[{"start_at":"2026-03-05T10:00:00Z","status":"proposed"}]`)),
    DurationMinutes: 60,
    MeetingFormat:   "video",
    Status:          types.InterviewPendingResponse,
    ResponseToken:   token,
  }
}

func TestInterviewRepo_TransitionFromPendingIsOneShot(t *testing.T) {
  ctx := context.Background()
  repo := NewInterviewRepo(openTestDB(t), testLogger(t))

  interview := pendingInterview(uuid.New(), 1, "tok-one-shot")
  if _, err := repo.Create(ctx, nil, []*types.Interview{interview}); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  now := time.Now()
  updates := map[string]interface{}{
    "status":       types.InterviewScheduled,
    "scheduled_at": now,
    "consumed_at":  now,
    "updated_at":   now,
  }
  applied, err := repo.TransitionFromPending(ctx, nil, interview.ID, updates)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if !applied {
    t.Fatalf("first transition must apply")
  }

  // A second responder racing on the same token loses.
  applied, err = repo.TransitionFromPending(ctx, nil, interview.ID, map[string]interface{}{
    "status":     types.InterviewDeclined,
    "updated_at": time.Now(),
  })
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if applied {
    t.Fatalf("transition after resolution must not apply")
  }

  loaded, err := repo.GetByIDs(ctx, nil, []uuid.UUID{interview.ID})
  if err != nil || len(loaded) != 1 {
    t.Fatalf("failed to reload interview: %v", err)
  }
  if loaded[0].Status != types.InterviewScheduled {
    t.Fatalf("want status=%q got %q", types.InterviewScheduled, loaded[0].Status)
  }
  if loaded[0].ConsumedAt == nil {
    t.Fatalf("expected consumed_at to be set")
  }
}

func TestInterviewRepo_GetByResponseToken(t *testing.T) {
  ctx := context.Background()
  repo := NewInterviewRepo(openTestDB(t), testLogger(t))

  interview := pendingInterview(uuid.New(), 1, "tok-lookup")
  if _, err := repo.Create(ctx, nil, []*types.Interview{interview}); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  found, err := repo.GetByResponseToken(ctx, nil, "tok-lookup")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if found == nil || found.ID != interview.ID {
    t.Fatalf("expected interview by token, got %+v", found)
  }

  missing, err := repo.GetByResponseToken(ctx, nil, "tok-nope")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if missing != nil {
    t.Fatalf("unknown token must return nil, got %+v", missing)
  }
}

func TestInterviewRepo_GetLatestBySubmissionPicksHighestRound(t *testing.T) {
  ctx := context.Background()
  repo := NewInterviewRepo(openTestDB(t), testLogger(t))
  submissionID := uuid.New()

  first := pendingInterview(submissionID, 1, "tok-r1")
  second := pendingInterview(submissionID, 2, "tok-r2")
  if _, err := repo.Create(ctx, nil, []*types.Interview{first, second}); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  latest, err := repo.GetLatestBySubmission(ctx, nil, submissionID)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if latest == nil || latest.Round != 2 {
    t.Fatalf("expected round 2, got %+v", latest)
  }
}
