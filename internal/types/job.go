package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type Job struct {
  ID                  uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Title               string          `gorm:"not null;column:title" json:"title"`
  ClientName          string          `gorm:"column:client_name" json:"client_name"`
  City                string          `gorm:"column:city" json:"city"`
  MustHaveSkills      datatypes.JSON  `gorm:"type:jsonb;column:must_have_skills" json:"must_have_skills"`
  NiceToHaveSkills    datatypes.JSON  `gorm:"type:jsonb;column:nice_to_have_skills" json:"nice_to_have_skills"`
  Industries          datatypes.JSON  `gorm:"type:jsonb;column:industries" json:"industries"`
  MinExperienceYears  float64         `gorm:"column:min_experience_years" json:"min_experience_years"`
  SalaryMin           *float64        `gorm:"column:salary_min" json:"salary_min,omitempty"`
  SalaryMax           *float64        `gorm:"column:salary_max" json:"salary_max,omitempty"`
  MaxCommuteMinutes   *float64        `gorm:"column:max_commute_minutes" json:"max_commute_minutes,omitempty"`
  RemotePolicy        string          `gorm:"column:remote_policy" json:"remote_policy"`
  StartBy             *time.Time      `gorm:"column:start_by" json:"start_by,omitempty"`
  RequiresWorkPermit  bool            `gorm:"column:requires_work_permit" json:"requires_work_permit"`
  RequiredLanguages   datatypes.JSON  `gorm:"type:jsonb;column:required_languages" json:"required_languages"`
  RequiredLicenses    datatypes.JSON  `gorm:"type:jsonb;column:required_licenses" json:"required_licenses"`
  RequiresOnsite      bool            `gorm:"column:requires_onsite" json:"requires_onsite"`
  Status              string          `gorm:"not null;default:open;column:status" json:"status"`
  CreatedAt           time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt           time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Job) TableName() string {
  return "job"
}
