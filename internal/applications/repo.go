package applications

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

// Repository encapsulates application persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an applications repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTx inserts the application inside the provided transaction.
func (r *Repository) CreateTx(tx *gorm.DB, app *models.Application) error {
	return tx.Create(app).Error
}

// SaveTx persists the full application row inside the provided transaction.
func (r *Repository) SaveTx(tx *gorm.DB, app *models.Application) error {
	return tx.Save(app).Error
}

// FindByID loads an application by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// ExistsForOfferAndCreator reports whether the creator already applied to the offer.
func (r *Repository) ExistsForOfferAndCreator(ctx context.Context, offerID, creatorUserID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("offer_id = ? AND creator_id = ?", offerID, creatorUserID).
		Count(&count).Error
	return count > 0, err
}

// HasPendingDirectRequest reports whether an undecided direct request already
// links the provider and creator.
func (r *Repository) HasPendingDirectRequest(ctx context.Context, providerUserID, creatorUserID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("offer_id IS NULL AND provider_id = ? AND creator_id = ? AND status = ?",
			providerUserID, creatorUserID, enums.ApplicationStatusPending).
		Count(&count).Error
	return count > 0, err
}

type applicationListRecord struct {
	ID           uuid.UUID               `gorm:"column:id"`
	OfferID      *uuid.UUID              `gorm:"column:offer_id"`
	CreatorID    uuid.UUID               `gorm:"column:creator_id"`
	ProviderID   uuid.UUID               `gorm:"column:provider_id"`
	InitiatedBy  enums.UserRole          `gorm:"column:initiated_by"`
	Message      string                  `gorm:"column:message"`
	Status       enums.ApplicationStatus `gorm:"column:status"`
	DecidedAt    *time.Time              `gorm:"column:decided_at"`
	CreatedAt    time.Time               `gorm:"column:created_at"`
	UpdatedAt    time.Time               `gorm:"column:updated_at"`
	OfferTitle   sql.NullString          `gorm:"column:offer_title"`
	BusinessName sql.NullString          `gorm:"column:business_name"`
	CreatorName  sql.NullString          `gorm:"column:creator_name"`
}

// ListByCreator returns the creator's applications with offer and provider
// identity attached, newest first.
func (r *Repository) ListByCreator(ctx context.Context, creatorUserID uuid.UUID) ([]ApplicationListItem, error) {
	var records []applicationListRecord
	err := r.db.WithContext(ctx).
		Table("applications a").
		Select(listColumns()).
		Joins("LEFT JOIN offers o ON o.id = a.offer_id").
		Joins("LEFT JOIN providers p ON p.user_id = a.provider_id").
		Joins("LEFT JOIN creator_profiles cp ON cp.user_id = a.creator_id").
		Where("a.creator_id = ?", creatorUserID).
		Order("a.created_at DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return toListItems(records), nil
}

// ListByProvider returns the provider's inbound applications and outbound
// direct requests, newest first.
func (r *Repository) ListByProvider(ctx context.Context, providerUserID uuid.UUID) ([]ApplicationListItem, error) {
	var records []applicationListRecord
	err := r.db.WithContext(ctx).
		Table("applications a").
		Select(listColumns()).
		Joins("LEFT JOIN offers o ON o.id = a.offer_id").
		Joins("LEFT JOIN providers p ON p.user_id = a.provider_id").
		Joins("LEFT JOIN creator_profiles cp ON cp.user_id = a.creator_id").
		Where("a.provider_id = ?", providerUserID).
		Order("a.created_at DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return toListItems(records), nil
}

func listColumns() string {
	return strings.Join([]string{
		"a.id",
		"a.offer_id",
		"a.creator_id",
		"a.provider_id",
		"a.initiated_by",
		"a.message",
		"a.status",
		"a.decided_at",
		"a.created_at",
		"a.updated_at",
		"o.title AS offer_title",
		"p.business_name",
		"cp.display_name AS creator_name",
	}, ", ")
}

func toListItems(records []applicationListRecord) []ApplicationListItem {
	items := make([]ApplicationListItem, 0, len(records))
	for _, record := range records {
		item := ApplicationListItem{
			ApplicationDTO: ApplicationDTO{
				ID:          record.ID,
				OfferID:     record.OfferID,
				CreatorID:   record.CreatorID,
				ProviderID:  record.ProviderID,
				InitiatedBy: record.InitiatedBy,
				Message:     record.Message,
				Status:      record.Status,
				DecidedAt:   record.DecidedAt,
				CreatedAt:   record.CreatedAt,
				UpdatedAt:   record.UpdatedAt,
			},
			BusinessName: record.BusinessName.String,
			CreatorName:  record.CreatorName.String,
		}
		if record.OfferTitle.Valid {
			title := record.OfferTitle.String
			item.OfferTitle = &title
		}
		items = append(items, item)
	}
	return items
}
