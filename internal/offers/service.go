package offers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
)

// Service exposes business rules for offer management and marketplace browsing.
type Service interface {
	Create(ctx context.Context, providerUserID uuid.UUID, input CreateOfferInput) (*OfferDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*OfferDTO, error)
	Update(ctx context.Context, providerUserID, offerID uuid.UUID, input UpdateOfferInput) (*OfferDTO, error)
	Delete(ctx context.Context, providerUserID, offerID uuid.UUID) error
	Publish(ctx context.Context, providerUserID, offerID uuid.UUID) (*OfferDTO, error)
	ListMine(ctx context.Context, providerUserID uuid.UUID) ([]OfferDTO, error)
	ListMarketplace(ctx context.Context, input ListOffersInput) (*OfferListResult, error)
}

type repository interface {
	Create(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	Save(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Offer, error)
	ListPublished(ctx context.Context, input ListOffersInput) (*OfferListResult, error)
}

type providerLoader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Provider, error)
}

// ServiceParams groups dependencies for the offers service.
type ServiceParams struct {
	Repo      repository
	Providers providerLoader
}

type service struct {
	repo      repository
	providers providerLoader
}

// NewService builds an offers service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer repo is required")
	}
	if params.Providers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider loader is required")
	}
	return &service{repo: params.Repo, providers: params.Providers}, nil
}

// Create inserts a draft offer owned by the caller's provider.
func (s *service) Create(ctx context.Context, providerUserID uuid.UUID, input CreateOfferInput) (*OfferDTO, error) {
	provider, err := s.loadProvider(ctx, providerUserID)
	if err != nil {
		return nil, err
	}

	if err := validateExchange(input.ExchangeType, input.DiscountPercent); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if len(input.Deliverables) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one deliverable is required")
	}
	for _, item := range input.Deliverables {
		if strings.TrimSpace(item.Type) == "" || item.Count <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "deliverables need a type and positive count")
		}
	}

	offer := &models.Offer{
		ProviderID:      provider.ID,
		Title:           title,
		Description:     strings.TrimSpace(input.Description),
		Category:        strings.TrimSpace(input.Category),
		ServiceArea:     strings.TrimSpace(input.ServiceArea),
		ExchangeType:    input.ExchangeType,
		DiscountPercent: input.DiscountPercent,
		Deliverables:    input.Deliverables,
		Status:          enums.OfferStatusDraft,
	}

	created, err := s.repo.Create(ctx, offer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create offer")
	}
	return FromModel(created), nil
}

// GetByID returns a single offer. Draft offers are only visible through
// ListMine, so this path requires published status is not enforced here;
// controllers guard ownership for drafts.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*OfferDTO, error) {
	offer, err := s.loadOffer(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(offer), nil
}

// Update applies partial changes to an offer owned by the caller.
func (s *service) Update(ctx context.Context, providerUserID, offerID uuid.UUID, input UpdateOfferInput) (*OfferDTO, error) {
	offer, err := s.loadOwnedOffer(ctx, providerUserID, offerID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		offer.Title = title
	}
	if input.Description != nil {
		offer.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		offer.Category = strings.TrimSpace(*input.Category)
	}
	if input.ServiceArea != nil {
		offer.ServiceArea = strings.TrimSpace(*input.ServiceArea)
	}
	if input.ExchangeType != nil {
		offer.ExchangeType = *input.ExchangeType
	}
	if input.DiscountPercent != nil {
		offer.DiscountPercent = input.DiscountPercent
	}
	if input.Deliverables != nil {
		if len(input.Deliverables) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one deliverable is required")
		}
		offer.Deliverables = input.Deliverables
	}

	if err := validateExchange(offer.ExchangeType, offer.DiscountPercent); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, offer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update offer")
	}
	return FromModel(saved), nil
}

// Delete removes an offer owned by the caller.
func (s *service) Delete(ctx context.Context, providerUserID, offerID uuid.UUID) error {
	offer, err := s.loadOwnedOffer(ctx, providerUserID, offerID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, offer.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete offer")
	}
	return nil
}

// Publish flips a draft offer to published. Publishing an already-published
// offer is a state conflict.
func (s *service) Publish(ctx context.Context, providerUserID, offerID uuid.UUID) (*OfferDTO, error) {
	offer, err := s.loadOwnedOffer(ctx, providerUserID, offerID)
	if err != nil {
		return nil, err
	}
	if offer.Status == enums.OfferStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "offer is already published")
	}
	if err := validateExchange(offer.ExchangeType, offer.DiscountPercent); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	offer.Status = enums.OfferStatusPublished
	offer.PublishedAt = &now

	saved, err := s.repo.Save(ctx, offer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "publish offer")
	}
	return FromModel(saved), nil
}

// ListMine returns all of the caller's offers regardless of status.
func (s *service) ListMine(ctx context.Context, providerUserID uuid.UUID) ([]OfferDTO, error) {
	provider, err := s.loadProvider(ctx, providerUserID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByProvider(ctx, provider.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offers")
	}
	items := make([]OfferDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return items, nil
}

// ListMarketplace returns published offers only.
func (s *service) ListMarketplace(ctx context.Context, input ListOffersInput) (*OfferListResult, error) {
	result, err := s.repo.ListPublished(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list marketplace offers")
	}
	return result, nil
}

func (s *service) loadProvider(ctx context.Context, userID uuid.UUID) (*models.Provider, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	provider, err := s.providers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "provider profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load provider")
	}
	return provider, nil
}

func (s *service) loadOffer(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}
	return offer, nil
}

func (s *service) loadOwnedOffer(ctx context.Context, providerUserID, offerID uuid.UUID) (*models.Offer, error) {
	provider, err := s.loadProvider(ctx, providerUserID)
	if err != nil {
		return nil, err
	}
	offer, err := s.loadOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.ProviderID != provider.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "offer belongs to another provider")
	}
	return offer, nil
}

func validateExchange(exchangeType enums.ExchangeType, discount *decimal.Decimal) error {
	if !exchangeType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid exchange type")
	}
	if exchangeType == enums.ExchangeTypeDiscount {
		if discount == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount percent is required for discount offers")
		}
		if discount.LessThanOrEqual(decimal.Zero) || discount.GreaterThan(decimal.NewFromInt(100)) {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
		}
		return nil
	}
	if discount != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percent only applies to discount offers")
	}
	return nil
}
