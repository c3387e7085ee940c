package creators

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
)

// Service exposes business rules for creator profile management.
type Service interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*CreatorDTO, error)
	UpdateByUserID(ctx context.Context, userID uuid.UUID, req UpdateCreatorRequest) (*CreatorDTO, error)
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.CreatorProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// ServiceParams groups dependencies for the creator service.
type ServiceParams struct {
	Repo repository
}

type service struct {
	repo repository
}

// NewService builds a creator service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// GetByUserID returns the caller's creator profile.
func (s *service) GetByUserID(ctx context.Context, userID uuid.UUID) (*CreatorDTO, error) {
	profile, err := s.loadByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(profile), nil
}

// UpdateByUserID applies partial updates and recomputes the profile status.
// A profile flips to active once every required field is filled; it drops back
// to draft if an update empties one of them.
func (s *service) UpdateByUserID(ctx context.Context, userID uuid.UUID, req UpdateCreatorRequest) (*CreatorDTO, error) {
	profile, err := s.loadByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name cannot be empty")
		}
		updates["display_name"] = name
		profile.DisplayName = name
	}
	if req.Bio != nil {
		updates["bio"] = req.Bio
		profile.Bio = req.Bio
	}
	if req.Niches != nil {
		updates["niches"] = pq.StringArray(req.Niches)
		profile.Niches = pq.StringArray(req.Niches)
	}
	if req.Platforms != nil {
		updates["platforms"] = pq.StringArray(req.Platforms)
		profile.Platforms = pq.StringArray(req.Platforms)
	}
	if req.AudienceSize != nil {
		if *req.AudienceSize < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "audience size cannot be negative")
		}
		updates["audience_size"] = *req.AudienceSize
		profile.AudienceSize = *req.AudienceSize
	}
	if req.PortfolioURL != nil {
		updates["portfolio_url"] = req.PortfolioURL
		profile.PortfolioURL = req.PortfolioURL
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = req.AvatarURL
		profile.AvatarURL = req.AvatarURL
	}

	nextStatus := enums.CreatorProfileStatusDraft
	if len(MissingFields(profile)) == 0 {
		nextStatus = enums.CreatorProfileStatusActive
	}
	if nextStatus != profile.Status {
		updates["status"] = nextStatus
	}

	if err := s.repo.Update(ctx, profile.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update creator profile")
	}

	refreshed, err := s.repo.FindByID(ctx, profile.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload creator profile")
	}
	return FromModel(refreshed), nil
}

func (s *service) loadByUser(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "creator profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load creator profile")
	}
	return profile, nil
}
