package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/internal/creators"
	dbpkg "github.com/flo-kian-baban/connex-backend/pkg/db"
	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox/payloads"
)

// Service exposes the application workflow: creators applying to offers,
// providers sending direct requests, and providers deciding applications.
type Service interface {
	ApplyToOffer(ctx context.Context, creatorUserID uuid.UUID, input ApplyInput) (*ApplicationDTO, error)
	CreateDirectRequest(ctx context.Context, providerUserID uuid.UUID, input DirectRequestInput) (*ApplicationDTO, error)
	Decide(ctx context.Context, providerUserID, applicationID uuid.UUID, status enums.ApplicationStatus) (*ApplicationDTO, error)
	GetForUser(ctx context.Context, userID, applicationID uuid.UUID) (*ApplicationDTO, error)
	ListForCreator(ctx context.Context, creatorUserID uuid.UUID) ([]ApplicationListItem, error)
	ListForProvider(ctx context.Context, providerUserID uuid.UUID) ([]ApplicationListItem, error)
}

type repository interface {
	CreateTx(tx *gorm.DB, app *models.Application) error
	SaveTx(tx *gorm.DB, app *models.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ExistsForOfferAndCreator(ctx context.Context, offerID, creatorUserID uuid.UUID) (bool, error)
	HasPendingDirectRequest(ctx context.Context, providerUserID, creatorUserID uuid.UUID) (bool, error)
	ListByCreator(ctx context.Context, creatorUserID uuid.UUID) ([]ApplicationListItem, error)
	ListByProvider(ctx context.Context, providerUserID uuid.UUID) ([]ApplicationListItem, error)
}

type offerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
}

type providerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Provider, error)
}

type creatorLoader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error)
}

type conversationWriter interface {
	CreateTx(tx *gorm.DB, conv *models.Conversation) error
	FindByParticipantsTx(tx *gorm.DB, userA, userB uuid.UUID) (*models.Conversation, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the applications service.
type ServiceParams struct {
	DB            txRunner
	Repo          repository
	Offers        offerLoader
	Providers     providerLoader
	Creators      creatorLoader
	Conversations conversationWriter
	Outbox        eventEmitter
}

type service struct {
	db            txRunner
	repo          repository
	offers        offerLoader
	providers     providerLoader
	creators      creatorLoader
	conversations conversationWriter
	outbox        eventEmitter
}

// NewService builds an applications service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "application repo required")
	}
	if params.Offers == nil || params.Providers == nil || params.Creators == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "offer, provider, and creator loaders required")
	}
	if params.Conversations == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "conversation writer required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "outbox emitter required")
	}
	return &service{
		db:            params.DB,
		repo:          params.Repo,
		offers:        params.Offers,
		providers:     params.Providers,
		creators:      params.Creators,
		conversations: params.Conversations,
		outbox:        params.Outbox,
	}, nil
}

// ApplyToOffer creates a pending application from an active creator to a
// published offer. Creators with a draft profile are blocked and get a
// profile-incomplete nudge instead.
func (s *service) ApplyToOffer(ctx context.Context, creatorUserID uuid.UUID, input ApplyInput) (*ApplicationDTO, error) {
	if input.OfferID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}

	profile, err := s.loadCreator(ctx, creatorUserID)
	if err != nil {
		return nil, err
	}
	if profile.Status != enums.CreatorProfileStatusActive {
		if nudgeErr := s.emitProfileNudge(ctx, profile); nudgeErr != nil {
			return nil, nudgeErr
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "creator profile must be completed before applying")
	}

	offer, err := s.offers.FindByID(ctx, input.OfferID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}
	if offer.Status != enums.OfferStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}

	exists, err := s.repo.ExistsForOfferAndCreator(ctx, offer.ID, creatorUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing application")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "you have already applied to this offer")
	}

	provider, err := s.providers.FindByID(ctx, offer.ProviderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer provider")
	}

	app := &models.Application{
		OfferID:     &offer.ID,
		CreatorID:   creatorUserID,
		ProviderID:  provider.UserID,
		InitiatedBy: enums.UserRoleCreator,
		Message:     strings.TrimSpace(input.Message),
		Status:      enums.ApplicationStatusPending,
	}

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, app); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, s.statusEvent(app, offer.Title))
	})
	if txErr != nil {
		if dbpkg.IsUniqueViolation(txErr, "applications_offer_creator_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you have already applied to this offer")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "create application")
	}
	return FromModel(app), nil
}

// CreateDirectRequest lets a provider invite a specific creator to collaborate
// without an offer.
func (s *service) CreateDirectRequest(ctx context.Context, providerUserID uuid.UUID, input DirectRequestInput) (*ApplicationDTO, error) {
	if input.CreatorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator user id is required")
	}
	if input.CreatorUserID == providerUserID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot send a request to yourself")
	}

	if _, err := s.providers.FindByUserID(ctx, providerUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "provider profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load provider")
	}
	if _, err := s.loadCreator(ctx, input.CreatorUserID); err != nil {
		return nil, err
	}

	pending, err := s.repo.HasPendingDirectRequest(ctx, providerUserID, input.CreatorUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing request")
	}
	if pending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a request to this creator is already pending")
	}

	app := &models.Application{
		CreatorID:   input.CreatorUserID,
		ProviderID:  providerUserID,
		InitiatedBy: enums.UserRoleProvider,
		Message:     strings.TrimSpace(input.Message),
		Status:      enums.ApplicationStatusPending,
	}

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, app); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, s.statusEvent(app, ""))
	})
	if txErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "create direct request")
	}
	return FromModel(app), nil
}

// Decide moves a pending application to accepted or rejected. Accepting
// bootstraps the conversation in the same transaction.
func (s *service) Decide(ctx context.Context, providerUserID, applicationID uuid.UUID, status enums.ApplicationStatus) (*ApplicationDTO, error) {
	if status != enums.ApplicationStatusAccepted && status != enums.ApplicationStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decision must be accepted or rejected")
	}

	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ProviderID != providerUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "application belongs to another provider")
	}
	if app.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "application has already been decided")
	}

	offerTitle := ""
	if app.OfferID != nil {
		if offer, err := s.offers.FindByID(ctx, *app.OfferID); err == nil {
			offerTitle = offer.Title
		}
	}

	now := time.Now().UTC()
	app.Status = status
	app.DecidedAt = &now

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.SaveTx(tx, app); err != nil {
			return err
		}
		if status == enums.ApplicationStatusAccepted {
			// A second engagement between the same pair keeps the existing thread.
			_, findErr := s.conversations.FindByParticipantsTx(tx, app.ProviderID, app.CreatorID)
			if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return findErr
			}
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				conv := &models.Conversation{
					ApplicationID: app.ID,
					ProviderID:    app.ProviderID,
					CreatorID:     app.CreatorID,
				}
				if err := s.conversations.CreateTx(tx, conv); err != nil {
					return err
				}
			}
		}
		return s.outbox.Emit(ctx, tx, s.statusEvent(app, offerTitle))
	})
	if txErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "decide application")
	}
	return FromModel(app), nil
}

// GetForUser returns an application if the caller participates in it.
func (s *service) GetForUser(ctx context.Context, userID, applicationID uuid.UUID) (*ApplicationDTO, error) {
	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.CreatorID != userID && app.ProviderID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "application belongs to other users")
	}
	return FromModel(app), nil
}

// ListForCreator returns the creator's applications and inbound requests.
func (s *service) ListForCreator(ctx context.Context, creatorUserID uuid.UUID) ([]ApplicationListItem, error) {
	items, err := s.repo.ListByCreator(ctx, creatorUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	return items, nil
}

// ListForProvider returns applications targeting the provider's offers plus
// the provider's outbound direct requests.
func (s *service) ListForProvider(ctx context.Context, providerUserID uuid.UUID) ([]ApplicationListItem, error) {
	items, err := s.repo.ListByProvider(ctx, providerUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	return items, nil
}

func (s *service) loadCreator(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error) {
	profile, err := s.creators.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "creator profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load creator profile")
	}
	return profile, nil
}

func (s *service) loadApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application id is required")
	}
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}
	return app, nil
}

// emitProfileNudge queues at most one profile-incomplete event per profile.
func (s *service) emitProfileNudge(ctx context.Context, profile *models.CreatorProfile) error {
	event := outbox.DomainEvent{
		EventType:     enums.EventCreatorProfileIncomplete,
		AggregateType: enums.AggregateCreator,
		AggregateID:   profile.ID,
		Actor:         &outbox.ActorRef{UserID: profile.UserID, Role: string(enums.UserRoleCreator)},
		Data: payloads.CreatorProfileIncompleteEvent{
			CreatorUserID: profile.UserID,
			MissingFields: creators.MissingFields(profile),
		},
		Version: 1,
	}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.outbox.EmitIfNotExists(ctx, tx, event)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queue profile nudge")
	}
	return nil
}

func (s *service) statusEvent(app *models.Application, offerTitle string) outbox.DomainEvent {
	actorID := app.CreatorID
	actorRole := enums.UserRoleCreator
	if app.InitiatedBy == enums.UserRoleProvider || app.Status.IsTerminal() {
		actorID = app.ProviderID
		actorRole = enums.UserRoleProvider
	}
	return outbox.DomainEvent{
		EventType:     enums.EventApplicationStatusChanged,
		AggregateType: enums.AggregateApplication,
		AggregateID:   app.ID,
		Actor:         &outbox.ActorRef{UserID: actorID, Role: string(actorRole)},
		Data: payloads.ApplicationStatusChangedEvent{
			ApplicationID: app.ID,
			OfferID:       app.OfferID,
			OfferTitle:    offerTitle,
			ProviderID:    app.ProviderID,
			CreatorUserID: app.CreatorID,
			InitiatedBy:   app.InitiatedBy,
			Status:        app.Status,
			DecidedAt:     app.DecidedAt,
		},
		Version: 1,
	}
}
