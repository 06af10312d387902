package types

import (
  "time"
  "github.com/google/uuid"
)

// One undismissed alert per (submission, alert_type). Enforced by a partial
// unique index added in db.PostgresService.AutoMigrateAll, so concurrent
// influence runs cannot insert duplicates.
type InfluenceAlert struct {
  ID                uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  SubmissionID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"submission_id"`
  Submission        *Submission `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubmissionID;references:ID" json:"submission,omitempty"`
  AlertType         string      `gorm:"not null;index;column:alert_type" json:"alert_type"`
  Priority          string      `gorm:"not null;column:priority" json:"priority"`
  Title             string      `gorm:"not null;column:title" json:"title"`
  Message           string      `gorm:"not null;column:message" json:"message"`
  RecommendedAction string      `gorm:"column:recommended_action" json:"recommended_action"`
  ExpiresAt         *time.Time  `gorm:"column:expires_at" json:"expires_at,omitempty"`
  DismissedAt       *time.Time  `gorm:"column:dismissed_at" json:"dismissed_at,omitempty"`
  CreatedAt         time.Time   `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt         time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (InfluenceAlert) TableName() string {
  return "influence_alert"
}
