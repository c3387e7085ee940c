package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/flo-kian-baban/connex-backend/internal/favorites"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

type stubFavoritesService struct {
	added      uuid.UUID
	removed    uuid.UUID
	listLimit  int
	listCursor string
	idsLimit   int
}

func (s *stubFavoritesService) Add(_ context.Context, _ uuid.UUID, offerID uuid.UUID) error {
	s.added = offerID
	return nil
}

func (s *stubFavoritesService) Remove(_ context.Context, _ uuid.UUID, offerID uuid.UUID) error {
	s.removed = offerID
	return nil
}

func (s *stubFavoritesService) List(_ context.Context, _ uuid.UUID, cursor string, limit int) (favorites.FavoritesPageDTO, error) {
	s.listCursor = cursor
	s.listLimit = limit
	return favorites.FavoritesPageDTO{}, nil
}

func (s *stubFavoritesService) ListIDs(_ context.Context, _ uuid.UUID, _ string, limit int) (favorites.FavoriteIDsDTO, error) {
	s.idsLimit = limit
	return favorites.FavoriteIDsDTO{}, nil
}

func TestFavoriteAddReportsSaved(t *testing.T) {
	svc := &stubFavoritesService{}
	offerID := uuid.New()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/favorites/id", nil)
	req = authedRequest(req, uuid.New(), enums.UserRoleCreator)
	req = withRouteParam(req, "offerId", offerID.String())
	resp := httptest.NewRecorder()
	FavoriteAdd(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, offerID, svc.added)
	require.Contains(t, resp.Body.String(), `"status":"saved"`)
}

func TestFavoriteRemoveReportsRemoved(t *testing.T) {
	svc := &stubFavoritesService{}
	offerID := uuid.New()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/favorites/id", nil)
	req = authedRequest(req, uuid.New(), enums.UserRoleCreator)
	req = withRouteParam(req, "offerId", offerID.String())
	resp := httptest.NewRecorder()
	FavoriteRemove(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, offerID, svc.removed)
	require.Contains(t, resp.Body.String(), `"status":"removed"`)
}

func TestFavoriteListDefaultsLimit(t *testing.T) {
	svc := &stubFavoritesService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/favorites?cursor=abc", nil)
	req = authedRequest(req, uuid.New(), enums.UserRoleCreator)
	resp := httptest.NewRecorder()
	FavoriteList(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, 25, svc.listLimit)
	require.Equal(t, "abc", svc.listCursor)
}

func TestFavoriteIDsDefaultsToMaxLimit(t *testing.T) {
	svc := &stubFavoritesService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/favorites/ids", nil)
	req = authedRequest(req, uuid.New(), enums.UserRoleCreator)
	resp := httptest.NewRecorder()
	FavoriteIDs(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, 100, svc.idsLimit)
}

func TestFavoriteAddRejectsBadOfferID(t *testing.T) {
	svc := &stubFavoritesService{}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/favorites/id", nil)
	req = authedRequest(req, uuid.New(), enums.UserRoleCreator)
	req = withRouteParam(req, "offerId", "nope")
	resp := httptest.NewRecorder()
	FavoriteAdd(svc, nil)(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, uuid.Nil, svc.added)
}
