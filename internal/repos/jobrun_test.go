package repos

import (
  "context"
  "testing"
  "time"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

func TestJobRunRepo_HasPendingCoversQueuedAndRunning(t *testing.T) {
  ctx := context.Background()
  repo := NewJobRunRepo(openTestDB(t), testLogger(t))

  run := &types.JobRun{ID: uuid.New(), JobType: "influence_engine", Status: types.JobRunQueued}
  if _, err := repo.Create(ctx, nil, []*types.JobRun{run}); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  pending, err := repo.HasPending(ctx, nil, "influence_engine")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if !pending {
    t.Fatalf("queued run must count as pending")
  }

  if err := repo.UpdateFields(ctx, nil, run.ID, map[string]interface{}{"status": types.JobRunRunning}); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  pending, err = repo.HasPending(ctx, nil, "influence_engine")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if !pending {
    t.Fatalf("running run must count as pending")
  }

  now := time.Now()
  if err := repo.UpdateFields(ctx, nil, run.ID, map[string]interface{}{
    "status":      types.JobRunSucceeded,
    "finished_at": now,
  }); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  pending, err = repo.HasPending(ctx, nil, "influence_engine")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if pending {
    t.Fatalf("finished run must not count as pending")
  }
}

func TestJobRunRepo_HasPendingIsScopedByJobType(t *testing.T) {
  ctx := context.Background()
  repo := NewJobRunRepo(openTestDB(t), testLogger(t))

  run := &types.JobRun{ID: uuid.New(), JobType: "deal_health_batch", Status: types.JobRunQueued}
  if _, err := repo.Create(ctx, nil, []*types.JobRun{run}); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  pending, err := repo.HasPending(ctx, nil, "career_page_crawl")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if pending {
    t.Fatalf("other job types must not block scheduling")
  }
}

func TestJobRunRepo_UpdateFieldsRecordsFailure(t *testing.T) {
  ctx := context.Background()
  repo := NewJobRunRepo(openTestDB(t), testLogger(t))

  run := &types.JobRun{ID: uuid.New(), JobType: "client_summary", Status: types.JobRunRunning, Attempts: 1}
  if _, err := repo.Create(ctx, nil, []*types.JobRun{run}); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  now := time.Now()
  if err := repo.UpdateFields(ctx, nil, run.ID, map[string]interface{}{
    "status":        types.JobRunFailed,
    "last_error":    "submission not found",
    "last_error_at": now,
    "locked_at":     nil,
    "finished_at":   now,
  }); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  loaded, err := repo.GetByIDs(ctx, nil, []uuid.UUID{run.ID})
  if err != nil || len(loaded) != 1 {
    t.Fatalf("failed to reload run: %v", err)
  }
  if loaded[0].Status != types.JobRunFailed {
    t.Fatalf("want status=failed got %q", loaded[0].Status)
  }
  if loaded[0].LastError != "submission not found" {
    t.Fatalf("want last_error recorded, got %q", loaded[0].LastError)
  }
  if loaded[0].LockedAt != nil {
    t.Fatalf("expected lock released, got %v", loaded[0].LockedAt)
  }
}

func TestJobRunRepo_HeartbeatTouchesRun(t *testing.T) {
  ctx := context.Background()
  repo := NewJobRunRepo(openTestDB(t), testLogger(t))

  run := &types.JobRun{ID: uuid.New(), JobType: "career_page_crawl", Status: types.JobRunRunning}
  if _, err := repo.Create(ctx, nil, []*types.JobRun{run}); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  if err := repo.Heartbeat(ctx, nil, run.ID); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  loaded, err := repo.GetByIDs(ctx, nil, []uuid.UUID{run.ID})
  if err != nil || len(loaded) != 1 {
    t.Fatalf("failed to reload run: %v", err)
  }
  if loaded[0].HeartbeatAt == nil {
    t.Fatalf("expected heartbeat_at to be set")
  }
}
