package applications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRepo struct {
	apps      map[uuid.UUID]*models.Application
	created   *models.Application
	saved     *models.Application
	duplicate bool
	pending   bool
}

func newStubRepo(apps ...*models.Application) *stubRepo {
	m := make(map[uuid.UUID]*models.Application, len(apps))
	for _, a := range apps {
		m[a.ID] = a
	}
	return &stubRepo{apps: m}
}

func (s *stubRepo) CreateTx(tx *gorm.DB, app *models.Application) error {
	app.ID = uuid.New()
	s.created = app
	return nil
}

func (s *stubRepo) SaveTx(tx *gorm.DB, app *models.Application) error {
	s.saved = app
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	if app, ok := s.apps[id]; ok {
		return app, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ExistsForOfferAndCreator(ctx context.Context, offerID, creatorUserID uuid.UUID) (bool, error) {
	return s.duplicate, nil
}

func (s *stubRepo) HasPendingDirectRequest(ctx context.Context, providerUserID, creatorUserID uuid.UUID) (bool, error) {
	return s.pending, nil
}

func (s *stubRepo) ListByCreator(ctx context.Context, creatorUserID uuid.UUID) ([]ApplicationListItem, error) {
	return []ApplicationListItem{}, nil
}

func (s *stubRepo) ListByProvider(ctx context.Context, providerUserID uuid.UUID) ([]ApplicationListItem, error) {
	return []ApplicationListItem{}, nil
}

type stubOffers struct {
	offer *models.Offer
}

func (s *stubOffers) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	if s.offer == nil || s.offer.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.offer, nil
}

type stubProviders struct {
	provider *models.Provider
}

func (s *stubProviders) FindByID(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	if s.provider == nil || s.provider.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.provider, nil
}

func (s *stubProviders) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Provider, error) {
	if s.provider == nil || s.provider.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.provider, nil
}

type stubCreators struct {
	profile *models.CreatorProfile
}

func (s *stubCreators) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error) {
	if s.profile == nil || s.profile.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.profile, nil
}

type stubConversations struct {
	existing *models.Conversation
	created  *models.Conversation
}

func (s *stubConversations) CreateTx(tx *gorm.DB, conv *models.Conversation) error {
	conv.ID = uuid.New()
	s.created = conv
	return nil
}

func (s *stubConversations) FindByParticipantsTx(tx *gorm.DB, userA, userB uuid.UUID) (*models.Conversation, error) {
	if s.existing == nil {
		return nil, gorm.ErrRecordNotFound
	}
	samePair := (s.existing.ProviderID == userA && s.existing.CreatorID == userB) ||
		(s.existing.ProviderID == userB && s.existing.CreatorID == userA)
	if !samePair {
		return nil, gorm.ErrRecordNotFound
	}
	return s.existing, nil
}

type stubEmitter struct {
	emitted []outbox.DomainEvent
	deduped []outbox.DomainEvent
}

func (s *stubEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.emitted = append(s.emitted, event)
	return nil
}

func (s *stubEmitter) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.deduped = append(s.deduped, event)
	return nil
}

type fixture struct {
	svc           Service
	repo          *stubRepo
	conversations *stubConversations
	emitter       *stubEmitter
}

func newFixture(t *testing.T, repo *stubRepo, offers *stubOffers, providers *stubProviders, creatorsStub *stubCreators) fixture {
	t.Helper()
	conversations := &stubConversations{}
	emitter := &stubEmitter{}
	svc, err := NewService(ServiceParams{
		DB:            stubTx{},
		Repo:          repo,
		Offers:        offers,
		Providers:     providers,
		Creators:      creatorsStub,
		Conversations: conversations,
		Outbox:        emitter,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return fixture{svc: svc, repo: repo, conversations: conversations, emitter: emitter}
}

func activeCreator() *models.CreatorProfile {
	bio := "lifestyle content"
	return &models.CreatorProfile{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		DisplayName:  "Lena",
		Bio:          &bio,
		Platforms:    []string{"instagram"},
		AudienceSize: 12000,
		Status:       enums.CreatorProfileStatusActive,
	}
}

func publishedOffer(providerID uuid.UUID) *models.Offer {
	now := time.Now()
	return &models.Offer{
		ID:          uuid.New(),
		ProviderID:  providerID,
		Title:       "Reel for a free dinner",
		Status:      enums.OfferStatusPublished,
		PublishedAt: &now,
	}
}

func TestApplyToOfferCreatesPendingApplication(t *testing.T) {
	creator := activeCreator()
	provider := &models.Provider{ID: uuid.New(), UserID: uuid.New(), BusinessName: "Trattoria"}
	offer := publishedOffer(provider.ID)
	f := newFixture(t, newStubRepo(), &stubOffers{offer: offer}, &stubProviders{provider: provider}, &stubCreators{profile: creator})

	dto, err := f.svc.ApplyToOffer(context.Background(), creator.UserID, ApplyInput{OfferID: offer.ID, Message: "love your place"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if dto.Status != enums.ApplicationStatusPending {
		t.Fatalf("expected pending, got %s", dto.Status)
	}
	if dto.ProviderID != provider.UserID {
		t.Fatal("application should target the offer provider's user")
	}
	if len(f.emitter.emitted) != 1 || f.emitter.emitted[0].EventType != enums.EventApplicationStatusChanged {
		t.Fatalf("expected one status event, got %+v", f.emitter.emitted)
	}
}

func TestApplyWithDraftProfileBlocksAndNudges(t *testing.T) {
	creator := activeCreator()
	creator.Status = enums.CreatorProfileStatusDraft
	creator.Bio = nil
	provider := &models.Provider{ID: uuid.New(), UserID: uuid.New()}
	offer := publishedOffer(provider.ID)
	f := newFixture(t, newStubRepo(), &stubOffers{offer: offer}, &stubProviders{provider: provider}, &stubCreators{profile: creator})

	_, err := f.svc.ApplyToOffer(context.Background(), creator.UserID, ApplyInput{OfferID: offer.ID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
	if len(f.emitter.deduped) != 1 || f.emitter.deduped[0].EventType != enums.EventCreatorProfileIncomplete {
		t.Fatalf("expected a profile nudge event, got %+v", f.emitter.deduped)
	}
	if f.repo.created != nil {
		t.Fatal("no application should be created for a draft profile")
	}
}

func TestApplyTwiceConflicts(t *testing.T) {
	creator := activeCreator()
	provider := &models.Provider{ID: uuid.New(), UserID: uuid.New()}
	offer := publishedOffer(provider.ID)
	repo := newStubRepo()
	repo.duplicate = true
	f := newFixture(t, repo, &stubOffers{offer: offer}, &stubProviders{provider: provider}, &stubCreators{profile: creator})

	_, err := f.svc.ApplyToOffer(context.Background(), creator.UserID, ApplyInput{OfferID: offer.ID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestApplyToDraftOfferNotFound(t *testing.T) {
	creator := activeCreator()
	provider := &models.Provider{ID: uuid.New(), UserID: uuid.New()}
	offer := publishedOffer(provider.ID)
	offer.Status = enums.OfferStatusDraft
	f := newFixture(t, newStubRepo(), &stubOffers{offer: offer}, &stubProviders{provider: provider}, &stubCreators{profile: creator})

	_, err := f.svc.ApplyToOffer(context.Background(), creator.UserID, ApplyInput{OfferID: offer.ID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDirectRequestCreatesOfferlessApplication(t *testing.T) {
	creator := activeCreator()
	provider := &models.Provider{ID: uuid.New(), UserID: uuid.New()}
	f := newFixture(t, newStubRepo(), &stubOffers{}, &stubProviders{provider: provider}, &stubCreators{profile: creator})

	dto, err := f.svc.CreateDirectRequest(context.Background(), provider.UserID, DirectRequestInput{
		CreatorUserID: creator.UserID,
		Message:       "we'd love to work with you",
	})
	if err != nil {
		t.Fatalf("direct request: %v", err)
	}
	if dto.OfferID != nil {
		t.Fatal("direct requests must not reference an offer")
	}
	if dto.InitiatedBy != enums.UserRoleProvider {
		t.Fatalf("expected provider-initiated, got %s", dto.InitiatedBy)
	}
	if len(f.emitter.emitted) != 1 {
		t.Fatalf("expected one status event, got %d", len(f.emitter.emitted))
	}
}

func TestDirectRequestAlreadyPendingConflicts(t *testing.T) {
	creator := activeCreator()
	provider := &models.Provider{ID: uuid.New(), UserID: uuid.New()}
	repo := newStubRepo()
	repo.pending = true
	f := newFixture(t, repo, &stubOffers{}, &stubProviders{provider: provider}, &stubCreators{profile: creator})

	_, err := f.svc.CreateDirectRequest(context.Background(), provider.UserID, DirectRequestInput{CreatorUserID: creator.UserID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestDecideAcceptCreatesConversation(t *testing.T) {
	provider := &models.Provider{ID: uuid.New(), UserID: uuid.New()}
	offerID := uuid.New()
	app := &models.Application{
		ID:          uuid.New(),
		OfferID:     &offerID,
		CreatorID:   uuid.New(),
		ProviderID:  provider.UserID,
		InitiatedBy: enums.UserRoleCreator,
		Status:      enums.ApplicationStatusPending,
	}
	f := newFixture(t, newStubRepo(app), &stubOffers{}, &stubProviders{provider: provider}, &stubCreators{})

	dto, err := f.svc.Decide(context.Background(), provider.UserID, app.ID, enums.ApplicationStatusAccepted)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if dto.Status != enums.ApplicationStatusAccepted || dto.DecidedAt == nil {
		t.Fatalf("expected accepted with decided_at, got %+v", dto)
	}
	if f.conversations.created == nil {
		t.Fatal("accepting must create the conversation")
	}
	if f.conversations.created.ApplicationID != app.ID {
		t.Fatal("conversation must reference the application")
	}
	if f.conversations.created.ProviderID != app.ProviderID || f.conversations.created.CreatorID != app.CreatorID {
		t.Fatal("conversation participants must mirror the application")
	}
}

func TestDecideAcceptReusesExistingConversation(t *testing.T) {
	provider := &models.Provider{ID: uuid.New(), UserID: uuid.New()}
	offerID := uuid.New()
	app := &models.Application{
		ID:          uuid.New(),
		OfferID:     &offerID,
		CreatorID:   uuid.New(),
		ProviderID:  provider.UserID,
		InitiatedBy: enums.UserRoleCreator,
		Status:      enums.ApplicationStatusPending,
	}
	f := newFixture(t, newStubRepo(app), &stubOffers{}, &stubProviders{provider: provider}, &stubCreators{})
	f.conversations.existing = &models.Conversation{
		ID:            uuid.New(),
		ApplicationID: uuid.New(),
		ProviderID:    app.ProviderID,
		CreatorID:     app.CreatorID,
	}

	dto, err := f.svc.Decide(context.Background(), provider.UserID, app.ID, enums.ApplicationStatusAccepted)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if dto.Status != enums.ApplicationStatusAccepted {
		t.Fatalf("expected accepted, got %+v", dto)
	}
	if f.conversations.created != nil {
		t.Fatal("a repeat pair must keep its existing thread, not open a second one")
	}
}

func TestDecideRejectSkipsConversation(t *testing.T) {
	provider := &models.Provider{ID: uuid.New(), UserID: uuid.New()}
	app := &models.Application{
		ID:          uuid.New(),
		CreatorID:   uuid.New(),
		ProviderID:  provider.UserID,
		InitiatedBy: enums.UserRoleCreator,
		Status:      enums.ApplicationStatusPending,
	}
	f := newFixture(t, newStubRepo(app), &stubOffers{}, &stubProviders{provider: provider}, &stubCreators{})

	dto, err := f.svc.Decide(context.Background(), provider.UserID, app.ID, enums.ApplicationStatusRejected)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if dto.Status != enums.ApplicationStatusRejected {
		t.Fatalf("expected rejected, got %s", dto.Status)
	}
	if f.conversations.created != nil {
		t.Fatal("rejecting must not create a conversation")
	}
}

func TestDecideTwiceStateConflict(t *testing.T) {
	provider := &models.Provider{ID: uuid.New(), UserID: uuid.New()}
	decidedAt := time.Now()
	app := &models.Application{
		ID:         uuid.New(),
		CreatorID:  uuid.New(),
		ProviderID: provider.UserID,
		Status:     enums.ApplicationStatusRejected,
		DecidedAt:  &decidedAt,
	}
	f := newFixture(t, newStubRepo(app), &stubOffers{}, &stubProviders{provider: provider}, &stubCreators{})

	_, err := f.svc.Decide(context.Background(), provider.UserID, app.ID, enums.ApplicationStatusAccepted)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestDecideForeignApplicationForbidden(t *testing.T) {
	provider := &models.Provider{ID: uuid.New(), UserID: uuid.New()}
	app := &models.Application{
		ID:         uuid.New(),
		CreatorID:  uuid.New(),
		ProviderID: uuid.New(),
		Status:     enums.ApplicationStatusPending,
	}
	f := newFixture(t, newStubRepo(app), &stubOffers{}, &stubProviders{provider: provider}, &stubCreators{})

	_, err := f.svc.Decide(context.Background(), provider.UserID, app.ID, enums.ApplicationStatusAccepted)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestGetForUserNonParticipantForbidden(t *testing.T) {
	provider := &models.Provider{ID: uuid.New(), UserID: uuid.New()}
	app := &models.Application{ID: uuid.New(), CreatorID: uuid.New(), ProviderID: uuid.New()}
	f := newFixture(t, newStubRepo(app), &stubOffers{}, &stubProviders{provider: provider}, &stubCreators{})

	_, err := f.svc.GetForUser(context.Background(), uuid.New(), app.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}
