package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

// Application links a creator to a provider's offer. OfferID is nil for
// direct requests initiated by a provider toward a creator. CreatorID and
// ProviderID are the participating users' IDs.
type Application struct {
	ID          uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OfferID     *uuid.UUID              `gorm:"column:offer_id;type:uuid;index;uniqueIndex:applications_offer_creator_key"`
	CreatorID   uuid.UUID               `gorm:"column:creator_id;type:uuid;not null;index;uniqueIndex:applications_offer_creator_key"`
	ProviderID  uuid.UUID               `gorm:"column:provider_id;type:uuid;not null;index"`
	InitiatedBy enums.UserRole          `gorm:"column:initiated_by;type:user_role;not null"`
	Message     string                  `gorm:"column:message;not null;default:''"`
	Status      enums.ApplicationStatus `gorm:"column:status;type:application_status;not null;default:'pending'"`
	DecidedAt   *time.Time              `gorm:"column:decided_at"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
