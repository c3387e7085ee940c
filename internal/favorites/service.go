package favorites

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
)

type repository interface {
	Add(ctx context.Context, creatorID, offerID uuid.UUID) error
	Remove(ctx context.Context, creatorID, offerID uuid.UUID) error
	ListItems(ctx context.Context, creatorID uuid.UUID, cursor string, limit int) (FavoritesPageDTO, error)
	ListOfferIDs(ctx context.Context, creatorID uuid.UUID, cursor string, limit int) (FavoriteIDsDTO, error)
}

type offerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo   repository
	Offers offerLoader
}

// Service exposes the creator's saved-offer operations.
type Service interface {
	Add(ctx context.Context, creatorID, offerID uuid.UUID) error
	Remove(ctx context.Context, creatorID, offerID uuid.UUID) error
	List(ctx context.Context, creatorID uuid.UUID, cursor string, limit int) (FavoritesPageDTO, error)
	ListIDs(ctx context.Context, creatorID uuid.UUID, cursor string, limit int) (FavoriteIDsDTO, error)
}

type service struct {
	repo   repository
	offers offerLoader
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "favorites repo required")
	}
	if params.Offers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "offer loader required")
	}
	return &service{repo: params.Repo, offers: params.Offers}, nil
}

// Add saves a published offer for the creator. Saving the same offer twice is
// a no-op.
func (s *service) Add(ctx context.Context, creatorID, offerID uuid.UUID) error {
	if creatorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "creator id is required")
	}
	if offerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}

	offer, err := s.offers.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "offer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}
	if offer.Status != enums.OfferStatusPublished {
		return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}

	if err := s.repo.Add(ctx, creatorID, offerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save favorite")
	}
	return nil
}

// Remove drops the favorite regardless of prior state.
func (s *service) Remove(ctx context.Context, creatorID, offerID uuid.UUID) error {
	if creatorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "creator id is required")
	}
	if offerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}
	if err := s.repo.Remove(ctx, creatorID, offerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return nil
}

// List returns the creator's saved offers with provider identity, newest
// favorite first.
func (s *service) List(ctx context.Context, creatorID uuid.UUID, cursor string, limit int) (FavoritesPageDTO, error) {
	if creatorID == uuid.Nil {
		return FavoritesPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "creator id is required")
	}
	page, err := s.repo.ListItems(ctx, creatorID, cursor, limit)
	if err != nil {
		return FavoritesPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	return page, nil
}

// ListIDs returns only the favorited offer IDs.
func (s *service) ListIDs(ctx context.Context, creatorID uuid.UUID, cursor string, limit int) (FavoriteIDsDTO, error) {
	if creatorID == uuid.Nil {
		return FavoriteIDsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "creator id is required")
	}
	ids, err := s.repo.ListOfferIDs(ctx, creatorID, cursor, limit)
	if err != nil {
		return FavoriteIDsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorite ids")
	}
	return ids, nil
}
