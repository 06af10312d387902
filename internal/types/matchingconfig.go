package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// MatchingConfig rows are append-only: a new active version supersedes the
// previous one, old versions are kept for audit.
type MatchingConfig struct {
  ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Name        string          `gorm:"not null;column:name" json:"name"`
  Version     int             `gorm:"not null;default:1;column:version" json:"version"`
  IsActive    bool            `gorm:"not null;default:false;index;column:is_active" json:"is_active"`
  Config      datatypes.JSON  `gorm:"type:jsonb;not null;column:config" json:"config"`
  CreatedByID *uuid.UUID      `gorm:"type:uuid;column:created_by_id" json:"created_by_id,omitempty"`
  CreatedBy   *User           `gorm:"constraint:OnDelete:SET NULL;foreignKey:CreatedByID;references:ID" json:"created_by,omitempty"`
  CreatedAt   time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt   time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (MatchingConfig) TableName() string {
  return "matching_config"
}
