package types

import (
  "time"
  "github.com/google/uuid"
)

type Lead struct {
  ID           uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  CareerPageID uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:uniq_lead_page_url" json:"career_page_id"`
  CareerPage   *CareerPage `gorm:"constraint:OnDelete:CASCADE;foreignKey:CareerPageID;references:ID" json:"career_page,omitempty"`
  Title        string      `gorm:"not null;column:title" json:"title"`
  URL          string      `gorm:"not null;uniqueIndex:uniq_lead_page_url;column:url" json:"url"`
  Location     string      `gorm:"column:location" json:"location"`
  Department   string      `gorm:"column:department" json:"department"`
  FirstSeenAt  time.Time   `gorm:"not null;default:now();column:first_seen_at" json:"first_seen_at"`
  LastSeenAt   time.Time   `gorm:"not null;default:now();column:last_seen_at" json:"last_seen_at"`
  CreatedAt    time.Time   `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt    time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Lead) TableName() string {
  return "lead"
}
