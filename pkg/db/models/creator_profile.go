package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

// CreatorProfile is the creator-side profile, one per owning user. Status
// stays draft until the required fields are filled; only active profiles may
// apply to offers.
type CreatorProfile struct {
	ID           uuid.UUID                  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID                  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	DisplayName  string                     `gorm:"column:display_name;not null"`
	Bio          *string                    `gorm:"column:bio"`
	Niches       pq.StringArray             `gorm:"column:niches;type:text[]"`
	Platforms    pq.StringArray             `gorm:"column:platforms;type:text[]"`
	AudienceSize int                        `gorm:"column:audience_size;not null;default:0"`
	PortfolioURL *string                    `gorm:"column:portfolio_url"`
	AvatarURL    *string                    `gorm:"column:avatar_url"`
	Status       enums.CreatorProfileStatus `gorm:"column:status;type:creator_profile_status;not null;default:'draft'"`
	CreatedAt    time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
