package types

import (
  "time"
  "github.com/google/uuid"
)

type CareerPage struct {
  ID            uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  CompanyName   string      `gorm:"not null;column:company_name" json:"company_name"`
  URL           string      `gorm:"not null;uniqueIndex;column:url" json:"url"`
  LastCrawledAt *time.Time  `gorm:"column:last_crawled_at" json:"last_crawled_at,omitempty"`
  LastStatus    string      `gorm:"column:last_status" json:"last_status"`
  LastError     string      `gorm:"column:last_error" json:"last_error"`
  CreatedAt     time.Time   `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt     time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (CareerPage) TableName() string {
  return "career_page"
}
