package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	"github.com/flo-kian-baban/connex-backend/pkg/types"
)

// Offer is a provider-published collaboration listing. Deliverables holds the
// requested content items as a jsonb list of {type, count} entries.
type Offer struct {
	ID              uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProviderID      uuid.UUID          `gorm:"column:provider_id;type:uuid;not null;index"`
	Title           string             `gorm:"column:title;not null"`
	Description     string             `gorm:"column:description;not null;default:''"`
	Category        string             `gorm:"column:category;not null;index"`
	ServiceArea     string             `gorm:"column:service_area;not null;index"`
	ExchangeType    enums.ExchangeType `gorm:"column:exchange_type;type:exchange_type;not null"`
	DiscountPercent *decimal.Decimal   `gorm:"column:discount_percent;type:numeric(5,2)"`
	Deliverables    types.Deliverables `gorm:"column:deliverables;type:jsonb;serializer:json"`
	Status          enums.OfferStatus  `gorm:"column:status;type:offer_status;not null;default:'draft'"`
	PublishedAt     *time.Time         `gorm:"column:published_at"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
