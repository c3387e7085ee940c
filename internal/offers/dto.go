package offers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	"github.com/flo-kian-baban/connex-backend/pkg/types"
)

// OfferDTO is the transport shape for a single offer.
type OfferDTO struct {
	ID              uuid.UUID          `json:"id"`
	ProviderID      uuid.UUID          `json:"provider_id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Category        string             `json:"category"`
	ServiceArea     string             `json:"service_area"`
	ExchangeType    enums.ExchangeType `json:"exchange_type"`
	DiscountPercent *decimal.Decimal   `json:"discount_percent,omitempty"`
	Deliverables    types.Deliverables `json:"deliverables"`
	Status          enums.OfferStatus  `json:"status"`
	PublishedAt     *time.Time         `json:"published_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// OfferSummary is the marketplace projection joined with provider identity.
type OfferSummary struct {
	ID              uuid.UUID          `json:"id"`
	ProviderID      uuid.UUID          `json:"provider_id"`
	BusinessName    string             `json:"business_name"`
	ProviderLogoURL *string            `json:"provider_logo_url,omitempty"`
	Title           string             `json:"title"`
	Category        string             `json:"category"`
	ServiceArea     string             `json:"service_area"`
	ExchangeType    enums.ExchangeType `json:"exchange_type"`
	DiscountPercent *decimal.Decimal   `json:"discount_percent,omitempty"`
	PublishedAt     *time.Time         `json:"published_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// OfferListResult wraps a marketplace page with its next cursor.
type OfferListResult struct {
	Items      []OfferSummary `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// CreateOfferInput carries the fields accepted when creating a draft offer.
type CreateOfferInput struct {
	Title           string             `json:"title" validate:"required,min=3,max=200"`
	Description     string             `json:"description" validate:"max=5000"`
	Category        string             `json:"category" validate:"required"`
	ServiceArea     string             `json:"service_area" validate:"required"`
	ExchangeType    enums.ExchangeType `json:"exchange_type" validate:"required"`
	DiscountPercent *decimal.Decimal   `json:"discount_percent,omitempty"`
	Deliverables    types.Deliverables `json:"deliverables" validate:"required,min=1,dive"`
}

// UpdateOfferInput carries partial updates for a draft or published offer.
type UpdateOfferInput struct {
	Title           *string             `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description     *string             `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category        *string             `json:"category,omitempty" validate:"omitempty,min=1"`
	ServiceArea     *string             `json:"service_area,omitempty" validate:"omitempty,min=1"`
	ExchangeType    *enums.ExchangeType `json:"exchange_type,omitempty"`
	DiscountPercent *decimal.Decimal    `json:"discount_percent,omitempty"`
	Deliverables    types.Deliverables  `json:"deliverables,omitempty" validate:"omitempty,min=1,dive"`
}

func FromModel(o *models.Offer) *OfferDTO {
	if o == nil {
		return nil
	}
	deliverables := o.Deliverables
	if deliverables == nil {
		deliverables = types.Deliverables{}
	}
	return &OfferDTO{
		ID:              o.ID,
		ProviderID:      o.ProviderID,
		Title:           o.Title,
		Description:     o.Description,
		Category:        o.Category,
		ServiceArea:     o.ServiceArea,
		ExchangeType:    o.ExchangeType,
		DiscountPercent: o.DiscountPercent,
		Deliverables:    deliverables,
		Status:          o.Status,
		PublishedAt:     o.PublishedAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
