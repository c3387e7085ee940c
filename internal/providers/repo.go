package providers

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
)

// Repository encapsulates provider persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a providers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a provider row and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateProviderDTO) (*models.Provider, error) {
	provider := &models.Provider{
		UserID:       dto.UserID,
		BusinessName: dto.BusinessName,
		Description:  dto.Description,
		Website:      dto.Website,
		ServiceAreas: pq.StringArray(dto.ServiceAreas),
	}
	if err := r.db.WithContext(ctx).Create(provider).Error; err != nil {
		return nil, err
	}
	return provider, nil
}

// FindByID loads a provider by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	var provider models.Provider
	if err := r.db.WithContext(ctx).First(&provider, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

// FindByUserID loads the provider owned by the given user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Provider, error) {
	var provider models.Provider
	if err := r.db.WithContext(ctx).First(&provider, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

// Update applies the supplied column map to the provider row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SaveGoogleLink persists the Business Profile linkage onto the provider row.
func (r *Repository) SaveGoogleLink(ctx context.Context, id uuid.UUID, link GoogleLinkDTO) error {
	updates := map[string]any{
		"google_account_id":    link.AccountID,
		"google_access_token":  link.AccessToken,
		"google_refresh_token": link.RefreshToken,
		"google_token_expiry":  link.TokenExpiry,
	}
	return r.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", id).
		Updates(updates).Error
}
