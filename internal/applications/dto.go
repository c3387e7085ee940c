package applications

import (
	"time"

	"github.com/google/uuid"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

// ApplicationDTO is the transport shape for a single application.
type ApplicationDTO struct {
	ID          uuid.UUID               `json:"id"`
	OfferID     *uuid.UUID              `json:"offer_id,omitempty"`
	CreatorID   uuid.UUID               `json:"creator_id"`
	ProviderID  uuid.UUID               `json:"provider_id"`
	InitiatedBy enums.UserRole          `json:"initiated_by"`
	Message     string                  `json:"message"`
	Status      enums.ApplicationStatus `json:"status"`
	DecidedAt   *time.Time              `json:"decided_at,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// ApplicationListItem enriches an application with counterpart identity for
// list views. OfferTitle is nil for direct requests.
type ApplicationListItem struct {
	ApplicationDTO
	OfferTitle   *string `json:"offer_title,omitempty"`
	BusinessName string  `json:"business_name,omitempty"`
	CreatorName  string  `json:"creator_name,omitempty"`
}

// ApplyInput carries a creator's application to a published offer.
type ApplyInput struct {
	OfferID uuid.UUID `json:"offer_id" validate:"required"`
	Message string    `json:"message" validate:"max=2000"`
}

// DirectRequestInput carries a provider's collaboration request to a creator.
type DirectRequestInput struct {
	CreatorUserID uuid.UUID `json:"creator_user_id" validate:"required"`
	Message       string    `json:"message" validate:"max=2000"`
}

// DecisionInput carries the provider's accept/reject call.
type DecisionInput struct {
	Status enums.ApplicationStatus `json:"status" validate:"required"`
}

func FromModel(a *models.Application) *ApplicationDTO {
	if a == nil {
		return nil
	}
	return &ApplicationDTO{
		ID:          a.ID,
		OfferID:     a.OfferID,
		CreatorID:   a.CreatorID,
		ProviderID:  a.ProviderID,
		InitiatedBy: a.InitiatedBy,
		Message:     a.Message,
		Status:      a.Status,
		DecidedAt:   a.DecidedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
