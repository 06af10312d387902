package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type Candidate struct {
  ID                 uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  FirstName          string          `gorm:"not null;column:first_name" json:"first_name"`
  LastName           string          `gorm:"not null;column:last_name" json:"last_name"`
  Email              string          `gorm:"uniqueIndex;not null;column:email" json:"email"`
  Phone              string          `gorm:"column:phone" json:"phone"`
  City               string          `gorm:"column:city" json:"city"`
  Skills             datatypes.JSON  `gorm:"type:jsonb;column:skills" json:"skills"`
  ExperienceYears    float64         `gorm:"column:experience_years" json:"experience_years"`
  Industries         datatypes.JSON  `gorm:"type:jsonb;column:industries" json:"industries"`
  ExpectedSalary     *float64        `gorm:"column:expected_salary" json:"expected_salary,omitempty"`
  CommuteMinutes     *float64        `gorm:"column:commute_minutes" json:"commute_minutes,omitempty"`
  AvailableFrom      *time.Time      `gorm:"column:available_from" json:"available_from,omitempty"`
  RemotePreference   string          `gorm:"column:remote_preference" json:"remote_preference"`
  HasWorkPermit      bool            `gorm:"column:has_work_permit" json:"has_work_permit"`
  Languages          datatypes.JSON  `gorm:"type:jsonb;column:languages" json:"languages"`
  Licenses           datatypes.JSON  `gorm:"type:jsonb;column:licenses" json:"licenses"`
  WillingOnsite      bool            `gorm:"column:willing_onsite" json:"willing_onsite"`
  ConsentGiven       bool            `gorm:"column:consent_given" json:"consent_given"`
  AvatarBucketKey    string          `gorm:"column:avatar_bucket_key" json:"avatar_bucket_key"`
  AvatarURL          string          `gorm:"column:avatar_url" json:"avatar_url"`
  CreatedAt          time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt          time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Candidate) TableName() string {
  return "candidate"
}
