package providers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/googleoauth"
)

// Service exposes business rules for provider profile management.
type Service interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*ProviderDTO, error)
	UpdateByUserID(ctx context.Context, userID uuid.UUID, req UpdateProviderRequest) (*ProviderDTO, error)
	GoogleConnectURL(state string) (string, error)
	ConnectGoogle(ctx context.Context, userID uuid.UUID, code string) (*ProviderDTO, error)
}

type repository interface {
	Create(ctx context.Context, dto CreateProviderDTO) (*models.Provider, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Provider, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	SaveGoogleLink(ctx context.Context, id uuid.UUID, link GoogleLinkDTO) error
}

type googleConnector interface {
	ConnectURL(state string) string
	ExchangeConnect(ctx context.Context, code string) (*oauth2.Token, error)
	FetchPrimaryBusinessAccount(ctx context.Context, token *oauth2.Token) (*googleoauth.BusinessAccount, error)
}

// ServiceParams groups dependencies for the provider service.
type ServiceParams struct {
	Repo   repository
	Google googleConnector
}

type service struct {
	repo   repository
	google googleConnector
}

// NewService builds a provider service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider repo is required")
	}
	return &service{repo: params.Repo, google: params.Google}, nil
}

// GetByUserID returns the caller's provider profile.
func (s *service) GetByUserID(ctx context.Context, userID uuid.UUID) (*ProviderDTO, error) {
	provider, err := s.loadByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(provider), nil
}

// UpdateByUserID applies partial profile updates and returns the fresh row.
func (s *service) UpdateByUserID(ctx context.Context, userID uuid.UUID, req UpdateProviderRequest) (*ProviderDTO, error) {
	provider, err := s.loadByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.BusinessName != nil {
		name := strings.TrimSpace(*req.BusinessName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name cannot be empty")
		}
		updates["business_name"] = name
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}
	if req.Website != nil {
		updates["website"] = req.Website
	}
	if req.LogoURL != nil {
		updates["logo_url"] = req.LogoURL
	}
	if req.ServiceAreas != nil {
		updates["service_areas"] = pq.StringArray(req.ServiceAreas)
	}
	if req.Social != nil {
		updates["social"] = req.Social
	}

	if err := s.repo.Update(ctx, provider.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update provider")
	}

	refreshed, err := s.repo.FindByID(ctx, provider.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload provider")
	}
	return FromModel(refreshed), nil
}

// GoogleConnectURL returns the consent URL that grants the Business Profile
// scope the connect flow needs.
func (s *service) GoogleConnectURL(state string) (string, error) {
	if s.google == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "google integration is not configured")
	}
	if strings.TrimSpace(state) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "state is required")
	}
	return s.google.ConnectURL(state), nil
}

// ConnectGoogle exchanges the authorization code, resolves the caller's
// Business Profile account, and persists the linkage.
func (s *service) ConnectGoogle(ctx context.Context, userID uuid.UUID, code string) (*ProviderDTO, error) {
	if s.google == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google integration is not configured")
	}
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authorization code is required")
	}

	provider, err := s.loadByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := s.google.ExchangeConnect(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "exchange google code")
	}

	account, err := s.google.FetchPrimaryBusinessAccount(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch business profile account")
	}

	link := GoogleLinkDTO{
		AccountID:    account.Name,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		link.TokenExpiry = &expiry
	}

	if err := s.repo.SaveGoogleLink(ctx, provider.ID, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist google link")
	}

	refreshed, err := s.repo.FindByID(ctx, provider.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload provider")
	}
	return FromModel(refreshed), nil
}

func (s *service) loadByUser(ctx context.Context, userID uuid.UUID) (*models.Provider, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	provider, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "provider profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load provider")
	}
	return provider, nil
}
