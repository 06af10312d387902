package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

const (
  JobRunQueued    = "queued"
  JobRunRunning   = "running"
  JobRunSucceeded = "succeeded"
  JobRunFailed    = "failed"
)

type JobRun struct {
  ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  JobType     string          `gorm:"not null;index;column:job_type" json:"job_type"`
  EntityType  string          `gorm:"column:entity_type" json:"entity_type"`
  EntityID    *uuid.UUID      `gorm:"type:uuid;column:entity_id" json:"entity_id,omitempty"`
  Status      string          `gorm:"not null;default:queued;index;column:status" json:"status"`
  Attempts    int             `gorm:"not null;default:0;column:attempts" json:"attempts"`
  Payload     datatypes.JSON  `gorm:"type:jsonb;column:payload" json:"payload,omitempty"`
  Result      datatypes.JSON  `gorm:"type:jsonb;column:result" json:"result,omitempty"`
  LastError   string          `gorm:"column:last_error" json:"last_error,omitempty"`
  LastErrorAt *time.Time      `gorm:"column:last_error_at" json:"last_error_at,omitempty"`
  LockedAt    *time.Time      `gorm:"column:locked_at" json:"locked_at,omitempty"`
  HeartbeatAt *time.Time      `gorm:"column:heartbeat_at" json:"heartbeat_at,omitempty"`
  FinishedAt  *time.Time      `gorm:"column:finished_at" json:"finished_at,omitempty"`
  CreatedAt   time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt   time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (JobRun) TableName() string {
  return "job_run"
}
