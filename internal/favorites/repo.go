package favorites

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	offers "github.com/flo-kian-baban/connex-backend/internal/offers"
	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	"github.com/flo-kian-baban/connex-backend/pkg/pagination"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a favorite and ignores duplicates.
func (r *Repository) Add(ctx context.Context, creatorID, offerID uuid.UUID) error {
	if creatorID == uuid.Nil || offerID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO favorites (creator_id, offer_id) VALUES (?, ?) ON CONFLICT (creator_id, offer_id) DO NOTHING`, creatorID, offerID).
		Error
}

// Remove deletes the creator-offer favorite if it exists.
func (r *Repository) Remove(ctx context.Context, creatorID, offerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("creator_id = ? AND offer_id = ?", creatorID, offerID).
		Delete(&models.Favorite{}).
		Error
}

type favoriteOfferRecord struct {
	FavoriteID        uuid.UUID           `gorm:"column:favorite_id"`
	FavoriteCreatedAt time.Time           `gorm:"column:favorite_created_at"`
	ID                uuid.UUID           `gorm:"column:offer_id"`
	ProviderID        uuid.UUID           `gorm:"column:provider_id"`
	BusinessName      string              `gorm:"column:business_name"`
	ProviderLogoURL   sql.NullString      `gorm:"column:provider_logo_url"`
	Title             string              `gorm:"column:title"`
	Category          string              `gorm:"column:category"`
	ServiceArea       string              `gorm:"column:service_area"`
	ExchangeType      enums.ExchangeType  `gorm:"column:exchange_type"`
	DiscountPercent   decimal.NullDecimal `gorm:"column:discount_percent"`
	PublishedAt       *time.Time          `gorm:"column:published_at"`
	CreatedAt         time.Time           `gorm:"column:offer_created_at"`
}

// ListItems returns a cursor-paginated list of favorited offers for a creator,
// newest favorite first. Offers that have been unpublished since the favorite
// was saved are skipped.
func (r *Repository) ListItems(ctx context.Context, creatorID uuid.UUID, cursor string, limit int) (FavoritesPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return FavoritesPageDTO{}, err
	}

	selectColumns := []string{
		"f.id AS favorite_id",
		"f.created_at AS favorite_created_at",
		"o.id AS offer_id",
		"o.provider_id",
		"p.business_name",
		"p.logo_url AS provider_logo_url",
		"o.title",
		"o.category",
		"o.service_area",
		"o.exchange_type",
		"o.discount_percent",
		"o.published_at",
		"o.created_at AS offer_created_at",
	}

	qb := r.db.WithContext(ctx).
		Table("favorites f").
		Select(strings.Join(selectColumns, ", ")).
		Joins("JOIN offers o ON o.id = f.offer_id").
		Joins("JOIN providers p ON p.id = o.provider_id").
		Where("f.creator_id = ?", creatorID).
		Where("o.status = ?", enums.OfferStatusPublished)

	if decodedCursor != nil {
		qb = qb.Where("(f.created_at < ?) OR (f.created_at = ? AND f.id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	qb = qb.Order("f.created_at DESC").Order("f.id DESC").Limit(limitWithBuffer)

	var records []favoriteOfferRecord
	if err := qb.Scan(&records).Error; err != nil {
		return FavoritesPageDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.FavoriteCreatedAt,
			ID:        last.FavoriteID,
		})
	}

	items := make([]FavoriteItemDTO, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, record.toDTO())
	}

	return FavoritesPageDTO{Items: items, NextCursor: nextCursor}, nil
}

// ListOfferIDs returns only the offer IDs a creator has favorited.
func (r *Repository) ListOfferIDs(ctx context.Context, creatorID uuid.UUID, cursor string, limit int) (FavoriteIDsDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return FavoriteIDsDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Select("id AS favorite_id", "created_at AS favorite_created_at", "offer_id").
		Where("creator_id = ?", creatorID)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)

	type idRecord struct {
		FavoriteID        uuid.UUID
		FavoriteCreatedAt time.Time
		OfferID           uuid.UUID
	}

	var records []idRecord
	if err := query.Scan(&records).Error; err != nil {
		return FavoriteIDsDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.FavoriteCreatedAt,
			ID:        last.FavoriteID,
		})
	}

	ids := make([]uuid.UUID, 0, len(resultRows))
	for _, record := range resultRows {
		ids = append(ids, record.OfferID)
	}

	return FavoriteIDsDTO{OfferIDs: ids, NextCursor: nextCursor}, nil
}

func (r favoriteOfferRecord) toDTO() FavoriteItemDTO {
	summary := offers.OfferSummary{
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
	return FavoriteItemDTO{Offer: summary, FavoritedAt: r.FavoriteCreatedAt}
}
