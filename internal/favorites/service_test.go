package favorites

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
)

type stubRepo struct {
	added   [][2]uuid.UUID
	removed [][2]uuid.UUID
	page    FavoritesPageDTO
	ids     FavoriteIDsDTO
}

func (s *stubRepo) Add(ctx context.Context, creatorID, offerID uuid.UUID) error {
	s.added = append(s.added, [2]uuid.UUID{creatorID, offerID})
	return nil
}

func (s *stubRepo) Remove(ctx context.Context, creatorID, offerID uuid.UUID) error {
	s.removed = append(s.removed, [2]uuid.UUID{creatorID, offerID})
	return nil
}

func (s *stubRepo) ListItems(ctx context.Context, creatorID uuid.UUID, cursor string, limit int) (FavoritesPageDTO, error) {
	return s.page, nil
}

func (s *stubRepo) ListOfferIDs(ctx context.Context, creatorID uuid.UUID, cursor string, limit int) (FavoriteIDsDTO, error) {
	return s.ids, nil
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

func publishedOffer() *models.Offer {
	now := time.Now()
	return &models.Offer{
		ID:          uuid.New(),
		ProviderID:  uuid.New(),
		Status:      enums.OfferStatusPublished,
		PublishedAt: &now,
	}
}

func newService(t *testing.T, repo *stubRepo, offers *stubOffers) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Offers: offers})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestAddPublishedOffer(t *testing.T) {
	offer := publishedOffer()
	repo := &stubRepo{}
	svc := newService(t, repo, &stubOffers{offer: offer})

	creatorID := uuid.New()
	if err := svc.Add(context.Background(), creatorID, offer.ID); err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	if len(repo.added) != 1 || repo.added[0] != [2]uuid.UUID{creatorID, offer.ID} {
		t.Fatalf("expected one insert for the creator-offer pair, got %v", repo.added)
	}
}

func TestAddUnknownOfferNotFound(t *testing.T) {
	svc := newService(t, &stubRepo{}, &stubOffers{})

	err := svc.Add(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestAddDraftOfferNotFound(t *testing.T) {
	offer := publishedOffer()
	offer.Status = enums.OfferStatusDraft
	repo := &stubRepo{}
	svc := newService(t, repo, &stubOffers{offer: offer})

	err := svc.Add(context.Background(), uuid.New(), offer.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for a draft offer, got %v", err)
	}
	if len(repo.added) != 0 {
		t.Fatal("draft offers must not be saved")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(t, repo, &stubOffers{})

	creatorID, offerID := uuid.New(), uuid.New()
	if err := svc.Remove(context.Background(), creatorID, offerID); err != nil {
		t.Fatalf("remove favorite: %v", err)
	}
	if err := svc.Remove(context.Background(), creatorID, offerID); err != nil {
		t.Fatalf("second remove must not fail: %v", err)
	}
	if len(repo.removed) != 2 {
		t.Fatalf("expected two delete attempts, got %d", len(repo.removed))
	}
}

func TestListRequiresCreator(t *testing.T) {
	svc := newService(t, &stubRepo{}, &stubOffers{})

	_, err := svc.List(context.Background(), uuid.Nil, "", 10)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
