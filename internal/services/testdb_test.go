package services

import (
  "context"
  "sync"
  "testing"
  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
)

// Service tests run against in-memory sqlite with real repos underneath, so
// the transactional paths are exercised for real. Postgres column defaults
// are unavailable there; the schema is created with raw DDL and the services
// set IDs themselves.
var serviceTestTables = []string{
  `CREATE TABLE candidate (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    phone TEXT,
    city TEXT,
    skills TEXT,
    experience_years REAL NOT NULL DEFAULT 0,
    industries TEXT,
    expected_salary REAL,
    commute_minutes REAL,
    available_from DATETIME,
    remote_preference TEXT,
    has_work_permit INTEGER NOT NULL DEFAULT 0,
    languages TEXT,
    licenses TEXT,
    willing_onsite INTEGER NOT NULL DEFAULT 0,
    consent_given INTEGER NOT NULL DEFAULT 0,
    avatar_bucket_key TEXT,
    avatar_url TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
  )`,
  `CREATE TABLE job (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    client_name TEXT,
    city TEXT,
    must_have_skills TEXT,
    nice_to_have_skills TEXT,
    industries TEXT,
    min_experience_years REAL NOT NULL DEFAULT 0,
    salary_min REAL,
    salary_max REAL,
    max_commute_minutes REAL,
    remote_policy TEXT,
    start_by DATETIME,
    requires_work_permit INTEGER NOT NULL DEFAULT 0,
    required_languages TEXT,
    required_licenses TEXT,
    requires_onsite INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'open',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
  )`,
  `CREATE TABLE submission (
    id TEXT PRIMARY KEY,
    candidate_id TEXT NOT NULL,
    job_id TEXT NOT NULL,
    stage TEXT NOT NULL DEFAULT 'submitted',
    status TEXT NOT NULL DEFAULT 'active',
    match_score REAL,
    match_policy TEXT,
    consent_given INTEGER NOT NULL DEFAULT 0,
    stage_entered_at DATETIME NOT NULL,
    submitted_at DATETIME NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (candidate_id, job_id)
  )`,
  `CREATE TABLE candidate_behavior (
    id TEXT PRIMARY KEY,
    submission_id TEXT NOT NULL UNIQUE,
    emails_sent INTEGER NOT NULL DEFAULT 0,
    emails_opened INTEGER NOT NULL DEFAULT 0,
    links_clicked INTEGER NOT NULL DEFAULT 0,
    last_activity_at DATETIME,
    confidence_score REAL NOT NULL DEFAULT 0,
    interview_readiness_score REAL NOT NULL DEFAULT 0,
    closing_probability REAL NOT NULL DEFAULT 0,
    hesitation_signals TEXT,
    motivation_indicators TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
  )`,
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
  `CREATE TABLE matching_config (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    version INTEGER NOT NULL DEFAULT 1,
    is_active INTEGER NOT NULL DEFAULT 0,
    config TEXT NOT NULL,
    created_by_id TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
  )`,
}

func openServiceTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
    Logger: gormlogger.Default.LogMode(gormlogger.Silent),
  })
  if err != nil {
    t.Fatalf("failed to open sqlite: %v", err)
  }
  for _, ddl := range serviceTestTables {
    if err := db.Exec(ddl).Error; err != nil {
      t.Fatalf("failed to create test schema: %v", err)
    }
  }
  return db
}

func serviceTestLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("production")
  if err != nil {
    t.Fatalf("failed to init logger: %v", err)
  }
  return log
}

// recordingNotifier captures published event names instead of touching redis.
type recordingNotifier struct {
  mu     sync.Mutex
  events []string
}

func (n *recordingNotifier) record(event string) {
  n.mu.Lock()
  defer n.mu.Unlock()
  n.events = append(n.events, event)
}

func (n *recordingNotifier) has(event string) bool {
  n.mu.Lock()
  defer n.mu.Unlock()
  for _, e := range n.events {
    if e == event {
      return true
    }
  }
  return false
}

func (n *recordingNotifier) SubmissionCreated(ctx context.Context, submissionID uuid.UUID, data any) {
  n.record("submission_created")
}
func (n *recordingNotifier) SubmissionStageChanged(ctx context.Context, submissionID uuid.UUID, data any) {
  n.record("submission_stage_changed")
}
func (n *recordingNotifier) InterviewScheduled(ctx context.Context, submissionID uuid.UUID, data any) {
  n.record("interview_scheduled")
}
func (n *recordingNotifier) InterviewResponded(ctx context.Context, submissionID uuid.UUID, data any) {
  n.record("interview_responded")
}
func (n *recordingNotifier) InfluenceAlertCreated(ctx context.Context, submissionID uuid.UUID, data any) {
  n.record("influence_alert_created")
}
func (n *recordingNotifier) DealHealthUpdated(ctx context.Context, submissionID uuid.UUID, data any) {
  n.record("deal_health_updated")
}
func (n *recordingNotifier) SummaryGenerated(ctx context.Context, submissionID uuid.UUID, data any) {
  n.record("summary_generated")
}
func (n *recordingNotifier) LeadDiscovered(ctx context.Context, data any) {
  n.record("lead_discovered")
}
func (n *recordingNotifier) UserAvatarUpdated(ctx context.Context, userID uuid.UUID, data any) {
  n.record("user_avatar_updated")
}
