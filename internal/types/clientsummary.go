package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type CandidateClientSummary struct {
  ID            uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  CandidateID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"candidate_id"`
  Candidate     *Candidate      `gorm:"constraint:OnDelete:CASCADE;foreignKey:CandidateID;references:ID" json:"candidate,omitempty"`
  SubmissionID  *uuid.UUID      `gorm:"type:uuid;index" json:"submission_id,omitempty"`
  Submission    *Submission     `gorm:"constraint:OnDelete:SET NULL;foreignKey:SubmissionID;references:ID" json:"submission,omitempty"`
  Summary       string          `gorm:"not null;column:summary" json:"summary"`
  Strengths     datatypes.JSON  `gorm:"type:jsonb;column:strengths" json:"strengths"`
  Seniority     string          `gorm:"column:seniority" json:"seniority"`
  FitAssessment string          `gorm:"column:fit_assessment" json:"fit_assessment"`
  Model         string          `gorm:"column:model" json:"model"`
  CreatedAt     time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt     time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (CandidateClientSummary) TableName() string {
  return "candidate_client_summary"
}
