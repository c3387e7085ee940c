package deliverables

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
)

// Repository encapsulates deliverable metadata persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a deliverables repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTx inserts the metadata row inside the provided transaction.
func (r *Repository) CreateTx(tx *gorm.DB, media *models.DeliverableMedia) error {
	return tx.Create(media).Error
}

// FindByID loads a deliverable row by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DeliverableMedia, error) {
	var media models.DeliverableMedia
	if err := r.db.WithContext(ctx).First(&media, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

// ListByApplication returns the application's deliverables, newest first.
func (r *Repository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.DeliverableMedia, error) {
	var rows []models.DeliverableMedia
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
