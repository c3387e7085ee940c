package creators

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
)

// Repository encapsulates creator profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a creators repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a creator profile row and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateCreatorDTO) (*models.CreatorProfile, error) {
	profile := &models.CreatorProfile{
		UserID:      dto.UserID,
		DisplayName: dto.DisplayName,
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByID loads a creator profile by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CreatorProfile, error) {
	var profile models.CreatorProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUserID loads the creator profile owned by the given user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error) {
	var profile models.CreatorProfile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update applies the supplied column map to the profile row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.CreatorProfile{}).
		Where("id = ?", id).
		Updates(updates).Error
}
