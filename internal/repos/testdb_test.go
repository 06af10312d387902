package repos

import (
  "testing"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
)

// Repo tests run on in-memory sqlite. The Postgres defaults (now(),
// uuid_generate_v4()) do not exist there, so tables are created with raw DDL
// and tests set IDs and timestamps themselves.
var testTables = []string{
  `CREATE TABLE influence_alert (
    id TEXT PRIMARY KEY,
    submission_id TEXT NOT NULL,
    alert_type TEXT NOT NULL,
    priority TEXT NOT NULL,
    title TEXT NOT NULL,
    message TEXT NOT NULL,
    recommended_action TEXT,
    expires_at DATETIME,
    dismissed_at DATETIME,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
  )`,
  `CREATE UNIQUE INDEX uniq_influence_alert_open
    ON influence_alert (submission_id, alert_type)
    WHERE dismissed_at IS NULL`,
  `CREATE TABLE interview (
    id TEXT PRIMARY KEY,
    submission_id TEXT NOT NULL,
    round INTEGER NOT NULL DEFAULT 1,
    proposed_slots TEXT NOT NULL,
    duration_minutes INTEGER NOT NULL DEFAULT 60,
    meeting_format TEXT NOT NULL DEFAULT 'video',
    status TEXT NOT NULL DEFAULT 'pending_response',
    scheduled_at DATETIME,
    response_token TEXT NOT NULL UNIQUE,
    consumed_at DATETIME,
    counter_slots TEXT,
    counter_message TEXT,
    decline_reason TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
  )`,
  `CREATE TABLE job_run (
    id TEXT PRIMARY KEY,
    job_type TEXT NOT NULL,
    entity_type TEXT,
    entity_id TEXT,
    status TEXT NOT NULL DEFAULT 'queued',
    attempts INTEGER NOT NULL DEFAULT 0,
    payload TEXT,
    result TEXT,
    last_error TEXT,
    last_error_at DATETIME,
    locked_at DATETIME,
    heartbeat_at DATETIME,
    finished_at DATETIME,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
  )`,
}

func openTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
    Logger: gormlogger.Default.LogMode(gormlogger.Silent),
  })
  if err != nil {
    t.Fatalf("failed to open sqlite: %v", err)
  }
  for _, ddl := range testTables {
    if err := db.Exec(ddl).Error; err != nil {
      t.Fatalf("failed to create test schema: %v", err)
    }
  }
  return db
}

func testLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("production")
  if err != nil {
    t.Fatalf("failed to init logger: %v", err)
  }
  return log
}
