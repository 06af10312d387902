package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

const (
  InterviewPendingResponse = "pending_response"
  InterviewScheduled       = "scheduled"
  InterviewDeclined        = "declined"
  InterviewCounterProposed = "counter_proposed"
)

type Interview struct {
  ID              uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  SubmissionID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"submission_id"`
  Submission      *Submission     `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubmissionID;references:ID" json:"submission,omitempty"`
  Round           int             `gorm:"not null;default:1;column:round" json:"round"`
  ProposedSlots   datatypes.JSON  `gorm:"type:jsonb;not null;column:proposed_slots" json:"proposed_slots"`
  DurationMinutes int             `gorm:"not null;default:60;column:duration_minutes" json:"duration_minutes"`
  MeetingFormat   string          `gorm:"not null;default:video;column:meeting_format" json:"meeting_format"`
  Status          string          `gorm:"not null;default:pending_response;index;column:status" json:"status"`
  ScheduledAt     *time.Time      `gorm:"column:scheduled_at" json:"scheduled_at,omitempty"`
  ResponseToken   string          `gorm:"not null;uniqueIndex;column:response_token" json:"-"`
  ConsumedAt      *time.Time      `gorm:"column:consumed_at" json:"consumed_at,omitempty"`
  CounterSlots    datatypes.JSON  `gorm:"type:jsonb;column:counter_slots" json:"counter_slots,omitempty"`
  CounterMessage  string          `gorm:"column:counter_message" json:"counter_message,omitempty"`
  DeclineReason   string          `gorm:"column:decline_reason" json:"decline_reason,omitempty"`
  CreatedAt       time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt       time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Interview) TableName() string {
  return "interview"
}
