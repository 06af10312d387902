package types

import (
  "time"
  "github.com/google/uuid"
)

type DealHealth struct {
  ID                    uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  SubmissionID          uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"submission_id"`
  Submission            *Submission `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubmissionID;references:ID" json:"submission,omitempty"`
  HealthScore           float64     `gorm:"not null;column:health_score" json:"health_score"`
  RiskLevel             string      `gorm:"not null;index;column:risk_level" json:"risk_level"`
  Bottleneck            string      `gorm:"not null;column:bottleneck" json:"bottleneck"`
  BottleneckDays        float64     `gorm:"not null;column:bottleneck_days" json:"bottleneck_days"`
  DaysSinceLastActivity float64     `gorm:"not null;column:days_since_last_activity" json:"days_since_last_activity"`
  ComputedAt            time.Time   `gorm:"not null;default:now();column:computed_at" json:"computed_at"`
  CreatedAt             time.Time   `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt             time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (DealHealth) TableName() string {
  return "deal_health"
}
