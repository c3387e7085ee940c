package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

// User represents the canonical identity entity. Password hash is empty for
// accounts created through Google sign-in only.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null;default:''"`
	Role         enums.UserRole `gorm:"column:role;type:user_role;not null"`
	DisplayName  string         `gorm:"column:display_name;not null"`
	GoogleSub    *string        `gorm:"column:google_sub;uniqueIndex"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
