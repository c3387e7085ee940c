package offers

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	"github.com/flo-kian-baban/connex-backend/pkg/pagination"
)

// Repository encapsulates offer persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an offers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the offer and returns the persisted model.
func (r *Repository) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

// FindByID loads an offer by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.WithContext(ctx).First(&offer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// Save persists the full offer row.
func (r *Repository) Save(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if err := r.db.WithContext(ctx).Save(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

// Delete removes the offer row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Offer{}, "id = ?", id).Error
}

// ListByProvider returns every offer owned by a provider, newest first.
func (r *Repository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Offer, error) {
	var rows []models.Offer
	if err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type offerSummaryRecord struct {
	ID              uuid.UUID           `gorm:"column:id"`
	ProviderID      uuid.UUID           `gorm:"column:provider_id"`
	BusinessName    string              `gorm:"column:business_name"`
	ProviderLogoURL sql.NullString      `gorm:"column:provider_logo_url"`
	Title           string              `gorm:"column:title"`
	Category        string              `gorm:"column:category"`
	ServiceArea     string              `gorm:"column:service_area"`
	ExchangeType    enums.ExchangeType  `gorm:"column:exchange_type"`
	DiscountPercent decimal.NullDecimal `gorm:"column:discount_percent"`
	PublishedAt     *time.Time          `gorm:"column:published_at"`
	CreatedAt       time.Time           `gorm:"column:created_at"`
}

// ListPublished returns a cursor-paginated page of published offers joined
// with provider identity, filtered by exact-match criteria.
func (r *Repository) ListPublished(ctx context.Context, input ListOffersInput) (*OfferListResult, error) {
	normalizedLimit := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Table("offers o").
		Select(strings.Join([]string{
			"o.id",
			"o.provider_id",
			"p.business_name",
			"p.logo_url AS provider_logo_url",
			"o.title",
			"o.category",
			"o.service_area",
			"o.exchange_type",
			"o.discount_percent",
			"o.published_at",
			"o.created_at",
		}, ", ")).
		Joins("JOIN providers p ON p.id = o.provider_id").
		Where("o.status = ?", enums.OfferStatusPublished)

	filter := input.Filters
	if filter.Category != nil {
		qb = qb.Where("o.category = ?", *filter.Category)
	}
	if filter.ServiceArea != nil {
		qb = qb.Where("o.service_area = ?", *filter.ServiceArea)
	}
	if filter.ExchangeType != nil {
		qb = qb.Where("o.exchange_type = ?", *filter.ExchangeType)
	}

	if cursor != nil {
		qb = qb.Where("(o.created_at < ?) OR (o.created_at = ? AND o.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("o.created_at DESC").Order("o.id DESC").Limit(limitWithBuffer)

	var records []offerSummaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	items := make([]OfferSummary, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, record.toSummary())
	}

	return &OfferListResult{Items: items, NextCursor: nextCursor}, nil
}

func (r offerSummaryRecord) toSummary() OfferSummary {
	summary := OfferSummary{
		ID:           r.ID,
		ProviderID:   r.ProviderID,
		BusinessName: r.BusinessName,
		Title:        r.Title,
		Category:     r.Category,
		ServiceArea:  r.ServiceArea,
		ExchangeType: r.ExchangeType,
		PublishedAt:  r.PublishedAt,
		CreatedAt:    r.CreatedAt,
	}
	if r.ProviderLogoURL.Valid {
		logo := r.ProviderLogoURL.String
		summary.ProviderLogoURL = &logo
	}
	if r.DiscountPercent.Valid {
		value := r.DiscountPercent.Decimal
		summary.DiscountPercent = &value
	}
	return summary
}
