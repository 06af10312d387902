package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type CandidateBehavior struct {
  ID                      uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  SubmissionID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"submission_id"`
  Submission              *Submission     `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubmissionID;references:ID" json:"submission,omitempty"`
  EmailsSent              int             `gorm:"not null;default:0;column:emails_sent" json:"emails_sent"`
  EmailsOpened            int             `gorm:"not null;default:0;column:emails_opened" json:"emails_opened"`
  LinksClicked            int             `gorm:"not null;default:0;column:links_clicked" json:"links_clicked"`
  LastActivityAt          *time.Time      `gorm:"column:last_activity_at" json:"last_activity_at,omitempty"`
  ConfidenceScore         float64         `gorm:"not null;default:0;column:confidence_score" json:"confidence_score"`
  InterviewReadinessScore float64         `gorm:"not null;default:0;column:interview_readiness_score" json:"interview_readiness_score"`
  ClosingProbability      float64         `gorm:"not null;default:0;column:closing_probability" json:"closing_probability"`
  HesitationSignals       datatypes.JSON  `gorm:"type:jsonb;column:hesitation_signals" json:"hesitation_signals"`
  MotivationIndicators    datatypes.JSON  `gorm:"type:jsonb;column:motivation_indicators" json:"motivation_indicators"`
  CreatedAt               time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt               time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (CandidateBehavior) TableName() string {
  return "candidate_behavior"
}
