package repos

import (
  "context"
  "testing"
  "time"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

func openAlert(submissionID uuid.UUID, alertType string) *types.InfluenceAlert {
  return &types.InfluenceAlert{
    ID:           uuid.New(),
    SubmissionID: submissionID,
    AlertType:    alertType,
    Priority:     "high",
    Title:        "Candidate consent still pending",
    Message:      "Consent has been pending for 30 hours.",
  }
}

func TestInfluenceAlertRepo_InsertIfAbsentDedupes(t *testing.T) {
  ctx := context.Background()
  repo := NewInfluenceAlertRepo(openTestDB(t), testLogger(t))
  submissionID := uuid.New()

  inserted, err := repo.InsertIfAbsent(ctx, nil, openAlert(submissionID, "consent_pending"))
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if !inserted {
    t.Fatalf("first insert must succeed")
  }

  inserted, err = repo.InsertIfAbsent(ctx, nil, openAlert(submissionID, "consent_pending"))
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if inserted {
    t.Fatalf("duplicate open alert must be dropped")
  }

  // A different alert type on the same submission is not a duplicate.
  inserted, err = repo.InsertIfAbsent(ctx, nil, openAlert(submissionID, "salary_gap"))
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if !inserted {
    t.Fatalf("different alert type must insert")
  }
}

func TestInfluenceAlertRepo_DismissReopensTheSlot(t *testing.T) {
  ctx := context.Background()
  repo := NewInfluenceAlertRepo(openTestDB(t), testLogger(t))
  submissionID := uuid.New()

  first := openAlert(submissionID, "engagement_stalled")
  if _, err := repo.InsertIfAbsent(ctx, nil, first); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  dismissed, err := repo.Dismiss(ctx, nil, first.ID)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if !dismissed {
    t.Fatalf("expected dismiss to hit the open alert")
  }

  // Dismissing again is a no-op.
  dismissed, err = repo.Dismiss(ctx, nil, first.ID)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if dismissed {
    t.Fatalf("second dismiss must report false")
  }

  // With the old alert dismissed the same type may fire again.
  inserted, err := repo.InsertIfAbsent(ctx, nil, openAlert(submissionID, "engagement_stalled"))
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if !inserted {
    t.Fatalf("insert after dismiss must succeed")
  }
}

func TestInfluenceAlertRepo_ListOpenSkipsDismissedAndExpired(t *testing.T) {
  ctx := context.Background()
  repo := NewInfluenceAlertRepo(openTestDB(t), testLogger(t))

  live := openAlert(uuid.New(), "consent_pending")
  if _, err := repo.InsertIfAbsent(ctx, nil, live); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  gone := openAlert(uuid.New(), "consent_pending")
  if _, err := repo.InsertIfAbsent(ctx, nil, gone); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if _, err := repo.Dismiss(ctx, nil, gone.ID); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  past := time.Now().Add(-time.Hour)
  expired := openAlert(uuid.New(), "interview_unconfirmed")
  expired.ExpiresAt = &past
  if _, err := repo.InsertIfAbsent(ctx, nil, expired); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  alerts, err := repo.ListOpen(ctx, nil, 50, 0)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if len(alerts) != 1 || alerts[0].ID != live.ID {
    t.Fatalf("expected only the live alert, got %d", len(alerts))
  }
}
