package offers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/types"
)

type stubRepo struct {
	offers  map[uuid.UUID]*models.Offer
	created *models.Offer
	saved   *models.Offer
	deleted *uuid.UUID
	listed  *OfferListResult
}

func newStubRepo(offers ...*models.Offer) *stubRepo {
	m := make(map[uuid.UUID]*models.Offer, len(offers))
	for _, o := range offers {
		m[o.ID] = o
	}
	return &stubRepo{offers: m}
}

func (s *stubRepo) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	offer.ID = uuid.New()
	s.created = offer
	return offer, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	if offer, ok := s.offers[id]; ok {
		return offer, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) Save(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	s.saved = offer
	return offer, nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = &id
	return nil
}

func (s *stubRepo) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Offer, error) {
	var rows []models.Offer
	for _, o := range s.offers {
		if o.ProviderID == providerID {
			rows = append(rows, *o)
		}
	}
	return rows, nil
}

func (s *stubRepo) ListPublished(ctx context.Context, input ListOffersInput) (*OfferListResult, error) {
	if s.listed != nil {
		return s.listed, nil
	}
	return &OfferListResult{Items: []OfferSummary{}}, nil
}

type stubProviders struct {
	provider *models.Provider
	err      error
}

func (s *stubProviders) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Provider, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.provider, nil
}

func testProvider() *models.Provider {
	return &models.Provider{ID: uuid.New(), UserID: uuid.New(), BusinessName: "Glow Studio"}
}

func draftOffer(providerID uuid.UUID) *models.Offer {
	return &models.Offer{
		ID:           uuid.New(),
		ProviderID:   providerID,
		Title:        "Story feature for a free facial",
		Category:     "beauty",
		ServiceArea:  "berlin",
		ExchangeType: enums.ExchangeTypeFree,
		Deliverables: types.Deliverables{{Type: "story", Count: 2}},
		Status:       enums.OfferStatusDraft,
	}
}

func newTestService(repo *stubRepo, provider *models.Provider) Service {
	svc, err := NewService(ServiceParams{Repo: repo, Providers: &stubProviders{provider: provider}})
	if err != nil {
		panic(err)
	}
	return svc
}

func TestCreateRequiresDeliverables(t *testing.T) {
	provider := testProvider()
	svc := newTestService(newStubRepo(), provider)

	_, err := svc.Create(context.Background(), provider.UserID, CreateOfferInput{
		Title:        "Reel for dinner",
		Category:     "food",
		ServiceArea:  "hamburg",
		ExchangeType: enums.ExchangeTypeGifted,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCreateDiscountOfferNeedsPercent(t *testing.T) {
	provider := testProvider()
	svc := newTestService(newStubRepo(), provider)

	_, err := svc.Create(context.Background(), provider.UserID, CreateOfferInput{
		Title:        "20% off for a post",
		Category:     "fitness",
		ServiceArea:  "munich",
		ExchangeType: enums.ExchangeTypeDiscount,
		Deliverables: types.Deliverables{{Type: "post", Count: 1}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCreateDiscountOfferWithValidPercent(t *testing.T) {
	provider := testProvider()
	repo := newStubRepo()
	svc := newTestService(repo, provider)

	pct := decimal.NewFromInt(20)
	dto, err := svc.Create(context.Background(), provider.UserID, CreateOfferInput{
		Title:           "20% off for a post",
		Category:        "fitness",
		ServiceArea:     "munich",
		ExchangeType:    enums.ExchangeTypeDiscount,
		DiscountPercent: &pct,
		Deliverables:    types.Deliverables{{Type: "post", Count: 1}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.OfferStatusDraft {
		t.Fatalf("new offers must start as drafts, got %s", dto.Status)
	}
	if repo.created == nil || repo.created.ProviderID != provider.ID {
		t.Fatal("offer not persisted for the caller's provider")
	}
}

func TestPublishDraft(t *testing.T) {
	provider := testProvider()
	offer := draftOffer(provider.ID)
	repo := newStubRepo(offer)
	svc := newTestService(repo, provider)

	dto, err := svc.Publish(context.Background(), provider.UserID, offer.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if dto.Status != enums.OfferStatusPublished {
		t.Fatalf("expected published, got %s", dto.Status)
	}
	if dto.PublishedAt == nil {
		t.Fatal("expected published_at to be set")
	}
}

func TestPublishTwiceConflicts(t *testing.T) {
	provider := testProvider()
	offer := draftOffer(provider.ID)
	offer.Status = enums.OfferStatusPublished
	svc := newTestService(newStubRepo(offer), provider)

	_, err := svc.Publish(context.Background(), provider.UserID, offer.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestUpdateForeignOfferForbidden(t *testing.T) {
	provider := testProvider()
	foreign := draftOffer(uuid.New())
	svc := newTestService(newStubRepo(foreign), provider)

	title := "hijack"
	_, err := svc.Update(context.Background(), provider.UserID, foreign.ID, UpdateOfferInput{Title: &title})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestDeleteOwnOffer(t *testing.T) {
	provider := testProvider()
	offer := draftOffer(provider.ID)
	repo := newStubRepo(offer)
	svc := newTestService(repo, provider)

	if err := svc.Delete(context.Background(), provider.UserID, offer.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.deleted == nil || *repo.deleted != offer.ID {
		t.Fatal("expected delete to reach the repo")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	provider := testProvider()
	svc := newTestService(newStubRepo(), provider)

	_, err := svc.GetByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
