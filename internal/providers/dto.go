package providers

import (
	"time"

	"github.com/google/uuid"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/types"
)

// ProviderDTO is the transport shape for a provider profile. Google tokens
// never leave the service layer.
type ProviderDTO struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	BusinessName    string        `json:"business_name"`
	Description     *string       `json:"description,omitempty"`
	Website         *string       `json:"website,omitempty"`
	LogoURL         *string       `json:"logo_url,omitempty"`
	ServiceAreas    []string      `json:"service_areas"`
	Social          *types.Social `json:"social,omitempty"`
	GoogleConnected bool          `json:"google_connected"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// CreateProviderDTO holds the data required to persist a provider row.
type CreateProviderDTO struct {
	UserID       uuid.UUID
	BusinessName string
	Description  *string
	Website      *string
	ServiceAreas []string
}

// UpdateProviderRequest carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type UpdateProviderRequest struct {
	BusinessName *string       `json:"business_name,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string       `json:"description,omitempty" validate:"omitempty,max=2000"`
	Website      *string       `json:"website,omitempty" validate:"omitempty,url"`
	LogoURL      *string       `json:"logo_url,omitempty" validate:"omitempty,url"`
	ServiceAreas []string      `json:"service_areas,omitempty" validate:"omitempty,dive,min=1"`
	Social       *types.Social `json:"social,omitempty"`
}

// GoogleLinkDTO captures the outcome of the connect flow.
type GoogleLinkDTO struct {
	AccountID    string
	AccessToken  string
	RefreshToken string
	TokenExpiry  *time.Time
}

func FromModel(p *models.Provider) *ProviderDTO {
	if p == nil {
		return nil
	}
	areas := append([]string(nil), p.ServiceAreas...)
	if areas == nil {
		areas = []string{}
	}
	return &ProviderDTO{
		ID:              p.ID,
		UserID:          p.UserID,
		BusinessName:    p.BusinessName,
		Description:     p.Description,
		Website:         p.Website,
		LogoURL:         p.LogoURL,
		ServiceAreas:    areas,
		Social:          p.Social,
		GoogleConnected: p.GoogleConnected(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
