package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite links a creator to a saved offer.
type Favorite struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID uuid.UUID `gorm:"column:creator_id;type:uuid;not null;index:favorites_creator_id_idx;uniqueIndex:favorites_creator_offer_key"`
	OfferID   uuid.UUID `gorm:"column:offer_id;type:uuid;not null;index:favorites_offer_id_idx;uniqueIndex:favorites_creator_offer_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
