package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/types"
  "github.com/talentbridge/talentbridge-backend/internal/utils"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
)

type PostgresService struct {
  db *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "talentbridge", log)
  log.Debug("Environment variables loaded")

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    log.Error("Failed to enable uuid-ossp extension", "error", err)
    return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
  }
  log.Info("uuid-ossp extension enabled")

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  err := s.db.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.Candidate{},
    &types.Job{},
    &types.Submission{},
    &types.Interview{},
    &types.MatchingConfig{},
    &types.DealHealth{},
    &types.CandidateBehavior{},
    &types.InfluenceAlert{},
    &types.CandidateClientSummary{},
    &types.CalendarConnection{},
    &types.CareerPage{},
    &types.Lead{},
    &types.JobRun{},
  )
  if err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }

  // Alert dedup is enforced here, not by application-level existence checks:
  // at most one undismissed alert per (submission, alert_type).
  if err := s.db.Exec(`
    CREATE UNIQUE INDEX IF NOT EXISTS uniq_influence_alert_open
    ON "influence_alert" ("submission_id", "alert_type")
    WHERE "dismissed_at" IS NULL
  `).Error; err != nil {
    return fmt.Errorf("Failed to create uniq_influence_alert_open index: %w", err)
  }

  // Only one active matching config at a time.
  if err := s.db.Exec(`
    CREATE UNIQUE INDEX IF NOT EXISTS uniq_matching_config_active
    ON "matching_config" ("is_active")
    WHERE "is_active"
  `).Error; err != nil {
    return fmt.Errorf("Failed to create uniq_matching_config_active index: %w", err)
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
