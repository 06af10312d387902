package services

import (
  "context"
  "encoding/json"
  "testing"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "github.com/talentbridge/talentbridge-backend/internal/matching"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

func newMatchingConfigService(t *testing.T) MatchingConfigService {
  t.Helper()
  db := openServiceTestDB(t)
  log := serviceTestLogger(t)
  return NewMatchingConfigService(db, log, repos.NewMatchingConfigRepo(db, log))
}

func TestActiveConfig_BootstrapsFirstVersion(t *testing.T) {
  ctx := context.Background()
  service := newMatchingConfigService(t)

  cfg, row, err := service.ActiveConfig(ctx)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if row == nil || row.Version != 1 || !row.IsActive {
    t.Fatalf("expected seeded active v1, got %+v", row)
  }
  if cfg.Weights.Fit != matching.DefaultConfig().Weights.Fit {
    t.Fatalf("seed must be the built-in default, got %+v", cfg.Weights)
  }

  // A second read reuses the seeded row instead of seeding again.
  _, again, err := service.ActiveConfig(ctx)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if again.ID != row.ID {
    t.Fatalf("expected the same active row, got %v vs %v", again.ID, row.ID)
  }
}

func TestUpdateActiveConfig_BumpsVersionAndKeepsHistory(t *testing.T) {
  ctx := context.Background()
  service := newMatchingConfigService(t)

  if _, _, err := service.ActiveConfig(ctx); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  cfg := matching.DefaultConfig()
  cfg.Gates.Salary.Warn = 12
  updated, err := service.UpdateActiveConfig(ctx, cfg)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if updated.Version != 2 || !updated.IsActive {
    t.Fatalf("expected active v2, got %+v", updated)
  }

  active, row, err := service.ActiveConfig(ctx)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if row.Version != 2 {
    t.Fatalf("expected v2 active, got v%d", row.Version)
  }
  if active.Gates.Salary.Warn != 12 {
    t.Fatalf("expected updated threshold, got %v", active.Gates.Salary.Warn)
  }

  versions, err := service.ListVersions(ctx, "")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if len(versions) != 2 {
    t.Fatalf("expected both versions retained, got %d", len(versions))
  }
  if versions[0].Version != 2 || versions[1].Version != 1 {
    t.Fatalf("expected newest-first ordering, got %d then %d", versions[0].Version, versions[1].Version)
  }
  if versions[1].IsActive {
    t.Fatalf("superseded version must be inactive")
  }
}

func TestNormalizeActiveConfig_RepairsDriftedWeights(t *testing.T) {
  ctx := context.Background()
  db := openServiceTestDB(t)
  log := serviceTestLogger(t)
  configRepo := repos.NewMatchingConfigRepo(db, log)
  service := NewMatchingConfigService(db, log, configRepo)

  // A drifted config written around the service, as an older deployment
  // could have left behind.
  drifted := matching.DefaultConfig()
  drifted.Weights = matching.Weights{Fit: 3, Constraints: 2}
  raw, _ := json.Marshal(drifted)
  if _, err := configRepo.CreateActive(ctx, nil, &types.MatchingConfig{
    ID:     uuid.New(),
    Name:   "default",
    Config: datatypes.JSON(raw),
  }); err != nil {
    t.Fatalf("failed to seed drifted config: %v", err)
  }

  if _, _, err := service.ActiveConfig(ctx); err == nil {
    t.Fatalf("drifted active config must refuse to score")
  }

  repaired, err := service.NormalizeActiveConfig(ctx)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if repaired.Version != 2 {
    t.Fatalf("expected repaired v2, got v%d", repaired.Version)
  }

  cfg, _, err := service.ActiveConfig(ctx)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if cfg.Weights.Fit != 0.6 {
    t.Fatalf("want fit=0.6 after normalization, got %v", cfg.Weights.Fit)
  }
}

func TestUpdateActiveConfig_RejectsInvalidConfig(t *testing.T) {
  ctx := context.Background()
  service := newMatchingConfigService(t)

  cfg := matching.DefaultConfig()
  cfg.Weights.Fit = 0.9 // weights no longer sum to 1
  if _, err := service.UpdateActiveConfig(ctx, cfg); err == nil {
    t.Fatalf("expected validation error")
  }
}
