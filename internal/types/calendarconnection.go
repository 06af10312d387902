package types

import (
  "time"
  "github.com/google/uuid"
)

type CalendarConnection struct {
  ID            uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID        uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
  User          *User       `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Provider      string      `gorm:"not null;default:microsoft;column:provider" json:"provider"`
  AccessToken   string      `gorm:"not null;column:access_token" json:"-"`
  RefreshToken  string      `gorm:"not null;column:refresh_token" json:"-"`
  TokenExpiry   time.Time   `gorm:"not null;column:token_expiry" json:"token_expiry"`
  AccountEmail  string      `gorm:"column:account_email" json:"account_email"`
  CreatedAt     time.Time   `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt     time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (CalendarConnection) TableName() string {
  return "calendar_connection"
}
