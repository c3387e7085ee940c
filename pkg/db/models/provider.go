package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/flo-kian-baban/connex-backend/pkg/types"
)

// Provider is the business-side profile, one per owning user. Google Business
// Profile linkage fields stay nil until the connect flow completes.
type Provider struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	BusinessName       string         `gorm:"column:business_name;not null"`
	Description        *string        `gorm:"column:description"`
	Website            *string        `gorm:"column:website"`
	LogoURL            *string        `gorm:"column:logo_url"`
	ServiceAreas       pq.StringArray `gorm:"column:service_areas;type:text[]"`
	Social             *types.Social  `gorm:"column:social;type:social_t"`
	GoogleAccountID    *string        `gorm:"column:google_account_id"`
	GoogleAccessToken  *string        `gorm:"column:google_access_token"`
	GoogleRefreshToken *string        `gorm:"column:google_refresh_token"`
	GoogleTokenExpiry  *time.Time     `gorm:"column:google_token_expiry"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// GoogleConnected reports whether a Business Profile account is linked.
func (p Provider) GoogleConnected() bool {
	return p.GoogleAccountID != nil && *p.GoogleAccountID != ""
}
