package creators

import (
	"time"

	"github.com/google/uuid"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

// CreatorDTO is the transport shape for a creator profile.
type CreatorDTO struct {
	ID            uuid.UUID                  `json:"id"`
	UserID        uuid.UUID                  `json:"user_id"`
	DisplayName   string                     `json:"display_name"`
	Bio           *string                    `json:"bio,omitempty"`
	Niches        []string                   `json:"niches"`
	Platforms     []string                   `json:"platforms"`
	AudienceSize  int                        `json:"audience_size"`
	PortfolioURL  *string                    `json:"portfolio_url,omitempty"`
	AvatarURL     *string                    `json:"avatar_url,omitempty"`
	Status        enums.CreatorProfileStatus `json:"status"`
	MissingFields []string                   `json:"missing_fields,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// CreateCreatorDTO holds the data required to persist a creator profile row.
type CreateCreatorDTO struct {
	UserID      uuid.UUID
	DisplayName string
}

// UpdateCreatorRequest carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type UpdateCreatorRequest struct {
	DisplayName  *string  `json:"display_name,omitempty" validate:"omitempty,min=1,max=120"`
	Bio          *string  `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Niches       []string `json:"niches,omitempty" validate:"omitempty,dive,min=1"`
	Platforms    []string `json:"platforms,omitempty" validate:"omitempty,dive,min=1"`
	AudienceSize *int     `json:"audience_size,omitempty" validate:"omitempty,min=0"`
	PortfolioURL *string  `json:"portfolio_url,omitempty" validate:"omitempty,url"`
	AvatarURL    *string  `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

func FromModel(c *models.CreatorProfile) *CreatorDTO {
	if c == nil {
		return nil
	}
	niches := append([]string(nil), c.Niches...)
	if niches == nil {
		niches = []string{}
	}
	platforms := append([]string(nil), c.Platforms...)
	if platforms == nil {
		platforms = []string{}
	}
	return &CreatorDTO{
		ID:            c.ID,
		UserID:        c.UserID,
		DisplayName:   c.DisplayName,
		Bio:           c.Bio,
		Niches:        niches,
		Platforms:     platforms,
		AudienceSize:  c.AudienceSize,
		PortfolioURL:  c.PortfolioURL,
		AvatarURL:     c.AvatarURL,
		Status:        c.Status,
		MissingFields: MissingFields(c),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// MissingFields lists the profile fields still required before the profile can
// go active. Empty result means the profile is complete.
func MissingFields(c *models.CreatorProfile) []string {
	var missing []string
	if c.DisplayName == "" {
		missing = append(missing, "display_name")
	}
	if c.Bio == nil || *c.Bio == "" {
		missing = append(missing, "bio")
	}
	if len(c.Platforms) == 0 {
		missing = append(missing, "platforms")
	}
	if c.AudienceSize <= 0 {
		missing = append(missing, "audience_size")
	}
	return missing
}
