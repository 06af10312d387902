package services

import (
  "context"
  "encoding/json"
  "fmt"
  "os"
  "strings"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/matching"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/requestdata"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

const defaultConfigName = "default"

type MatchingConfigService interface {
  // ActiveConfig returns the parsed active scoring config, bootstrapping the
  // first version when the table is empty.
  ActiveConfig(ctx context.Context) (matching.Config, *types.MatchingConfig, error)
  UpdateActiveConfig(ctx context.Context, cfg matching.Config) (*types.MatchingConfig, error)
  // NormalizeActiveConfig repairs a drifted active config by renormalizing
  // its weight groups and activating the result as a new version.
  NormalizeActiveConfig(ctx context.Context) (*types.MatchingConfig, error)
  ListVersions(ctx context.Context, name string) ([]*types.MatchingConfig, error)
}

type matchingConfigService struct {
  db         *gorm.DB
  log        *logger.Logger
  configRepo repos.MatchingConfigRepo
}

func NewMatchingConfigService(
  db *gorm.DB,
  log *logger.Logger,
  configRepo repos.MatchingConfigRepo,
) MatchingConfigService {
  return &matchingConfigService{
    db:         db,
    log:        log.With("service", "MatchingConfigService"),
    configRepo: configRepo,
  }
}

func (ms *matchingConfigService) ActiveConfig(ctx context.Context) (matching.Config, *types.MatchingConfig, error) {
  row, err := ms.configRepo.GetActive(ctx, nil)
  if err != nil {
    return matching.Config{}, nil, fmt.Errorf("Failed to load active matching config: %w", err)
  }
  if row == nil {
    return ms.bootstrap(ctx)
  }
  cfg, pErr := matching.ParseConfig(row.Config)
  if pErr != nil {
    // A stored config failing validation means someone wrote around the
    // service. Refuse to score on it.
    return matching.Config{}, nil, fmt.Errorf("Active matching config v%d is invalid: %w", row.Version, pErr)
  }
  return cfg, row, nil
}

// bootstrap seeds version 1 from MATCHING_CONFIG_SEED (YAML) or the built-in
// default when the env var is unset.
func (ms *matchingConfigService) bootstrap(ctx context.Context) (matching.Config, *types.MatchingConfig, error) {
  cfg := matching.DefaultConfig()
  if seedPath := strings.TrimSpace(os.Getenv("MATCHING_CONFIG_SEED")); seedPath != "" {
    loaded, err := matching.LoadConfigFile(seedPath)
    if err != nil {
      return matching.Config{}, nil, err
    }
    cfg = loaded
  }
  ms.log.Info("No active matching config found, seeding initial version")
  row, err := ms.persist(ctx, cfg, nil)
  if err != nil {
    return matching.Config{}, nil, err
  }
  return cfg, row, nil
}

func (ms *matchingConfigService) UpdateActiveConfig(ctx context.Context, cfg matching.Config) (*types.MatchingConfig, error) {
  validated, err := matching.NewConfig(cfg)
  if err != nil {
    return nil, err
  }
  var createdBy *uuid.UUID
  if rd := requestdata.GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil {
    id := rd.UserID
    createdBy = &id
  }
  return ms.persist(ctx, validated, createdBy)
}

func (ms *matchingConfigService) NormalizeActiveConfig(ctx context.Context) (*types.MatchingConfig, error) {
  row, err := ms.configRepo.GetActive(ctx, nil)
  if err != nil {
    return nil, fmt.Errorf("Failed to load active matching config: %w", err)
  }
  if row == nil {
    _, seeded, bErr := ms.bootstrap(ctx)
    return seeded, bErr
  }
  // Decode without validation: the whole point is repairing a stored config
  // that no longer validates.
  var cfg matching.Config
  if uErr := json.Unmarshal(row.Config, &cfg); uErr != nil {
    return nil, fmt.Errorf("Failed to decode active matching config: %w", uErr)
  }
  repaired, vErr := matching.NewConfig(cfg.Normalize())
  if vErr != nil {
    return nil, fmt.Errorf("Config v%d cannot be repaired by normalization: %w", row.Version, vErr)
  }
  var createdBy *uuid.UUID
  if rd := requestdata.GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil {
    id := rd.UserID
    createdBy = &id
  }
  return ms.persist(ctx, repaired, createdBy)
}

func (ms *matchingConfigService) persist(ctx context.Context, cfg matching.Config, createdBy *uuid.UUID) (*types.MatchingConfig, error) {
  raw, err := json.Marshal(cfg)
  if err != nil {
    return nil, fmt.Errorf("Failed to encode matching config: %w", err)
  }
  row := &types.MatchingConfig{
    ID:          uuid.New(),
    Name:        defaultConfigName,
    Config:      datatypes.JSON(raw),
    CreatedByID: createdBy,
  }
  created, cErr := ms.configRepo.CreateActive(ctx, nil, row)
  if cErr != nil {
    return nil, fmt.Errorf("Failed to persist matching config: %w", cErr)
  }
  ms.log.Info("Activated matching config", "version", created.Version)
  return created, nil
}

func (ms *matchingConfigService) ListVersions(ctx context.Context, name string) ([]*types.MatchingConfig, error) {
  if name == "" {
    name = defaultConfigName
  }
  return ms.configRepo.ListVersions(ctx, nil, name)
}
