package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  StageSubmitted  = "submitted"
  StageInterview1 = "interview_1"
  StageInterview2 = "interview_2"
  StageOffer      = "offer"
  StageHired      = "hired"
  StageRejected   = "rejected"
)

// PipelineStages is the forward order of the non-terminal pipeline.
var PipelineStages = []string{StageSubmitted, StageInterview1, StageInterview2, StageOffer, StageHired}

func IsTerminalStage(stage string) bool {
  return stage == StageHired || stage == StageRejected
}

func StageIndex(stage string) int {
  for i, s := range PipelineStages {
    if s == stage {
      return i
    }
  }
  return -1
}

type Submission struct {
  ID             uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  CandidateID    uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:uniq_submission_candidate_job" json:"candidate_id"`
  Candidate      *Candidate  `gorm:"constraint:OnDelete:CASCADE;foreignKey:CandidateID;references:ID" json:"candidate,omitempty"`
  JobID          uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:uniq_submission_candidate_job" json:"job_id"`
  Job            *Job        `gorm:"constraint:OnDelete:CASCADE;foreignKey:JobID;references:ID" json:"job,omitempty"`
  Stage          string      `gorm:"not null;default:submitted;index;column:stage" json:"stage"`
  Status         string      `gorm:"not null;default:active;column:status" json:"status"`
  MatchScore     *float64    `gorm:"column:match_score" json:"match_score,omitempty"`
  MatchPolicy    string      `gorm:"column:match_policy" json:"match_policy"`
  ConsentGiven   bool        `gorm:"column:consent_given" json:"consent_given"`
  StageEnteredAt time.Time   `gorm:"not null;default:now();column:stage_entered_at" json:"stage_entered_at"`
  SubmittedAt    time.Time   `gorm:"not null;default:now();column:submitted_at" json:"submitted_at"`
  CreatedAt      time.Time   `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt      time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Submission) TableName() string {
  return "submission"
}
