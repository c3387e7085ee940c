package creators

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
)

type stubRepo struct {
	profile *models.CreatorProfile
	findErr error
	updates map[string]any
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CreatorProfile, error) {
	return s.profile, nil
}

func (s *stubRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.profile, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func draftProfile() *models.CreatorProfile {
	return &models.CreatorProfile{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		DisplayName: "jess.films",
		Status:      enums.CreatorProfileStatusDraft,
	}
}

func TestGetByUserIDNotFound(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: &stubRepo{findErr: gorm.ErrRecordNotFound}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	_, err = svc.GetByUserID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateActivatesCompleteProfile(t *testing.T) {
	repo := &stubRepo{profile: draftProfile()}
	svc, _ := NewService(ServiceParams{Repo: repo})

	bio := "Food and lifestyle reels in Berlin"
	audience := 15000
	_, err := svc.UpdateByUserID(context.Background(), repo.profile.UserID, UpdateCreatorRequest{
		Bio:          &bio,
		Platforms:    []string{"instagram", "tiktok"},
		AudienceSize: &audience,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := repo.updates["status"]; got != enums.CreatorProfileStatusActive {
		t.Fatalf("expected status flip to active, got %v", got)
	}
}

func TestUpdateKeepsDraftWhenIncomplete(t *testing.T) {
	repo := &stubRepo{profile: draftProfile()}
	svc, _ := NewService(ServiceParams{Repo: repo})

	bio := "travel content"
	if _, err := svc.UpdateByUserID(context.Background(), repo.profile.UserID, UpdateCreatorRequest{Bio: &bio}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, present := repo.updates["status"]; present {
		t.Fatal("incomplete profile must stay draft")
	}
}

func TestUpdateDemotesActiveProfileWhenFieldCleared(t *testing.T) {
	bio := "food reels"
	profile := draftProfile()
	profile.Bio = &bio
	profile.Platforms = []string{"instagram"}
	profile.AudienceSize = 5000
	profile.Status = enums.CreatorProfileStatusActive

	repo := &stubRepo{profile: profile}
	svc, _ := NewService(ServiceParams{Repo: repo})

	if _, err := svc.UpdateByUserID(context.Background(), profile.UserID, UpdateCreatorRequest{Platforms: []string{}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := repo.updates["status"]; got != enums.CreatorProfileStatusDraft {
		t.Fatalf("expected demotion to draft, got %v", got)
	}
}

func TestMissingFields(t *testing.T) {
	profile := draftProfile()
	missing := MissingFields(profile)
	if len(missing) != 3 {
		t.Fatalf("expected bio, platforms, audience_size missing, got %v", missing)
	}
}
