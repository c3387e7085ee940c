package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/flo-kian-baban/connex-backend/internal/offers"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

type stubOfferService struct {
	created       *offers.CreateOfferInput
	browsed       *offers.ListOffersInput
	deletedOffer  uuid.UUID
	publishedByID uuid.UUID
}

func (s *stubOfferService) Create(_ context.Context, _ uuid.UUID, input offers.CreateOfferInput) (*offers.OfferDTO, error) {
	s.created = &input
	return &offers.OfferDTO{}, nil
}

func (s *stubOfferService) GetByID(context.Context, uuid.UUID) (*offers.OfferDTO, error) {
	return &offers.OfferDTO{}, nil
}

func (s *stubOfferService) Update(context.Context, uuid.UUID, uuid.UUID, offers.UpdateOfferInput) (*offers.OfferDTO, error) {
	return &offers.OfferDTO{}, nil
}

func (s *stubOfferService) Delete(_ context.Context, _ uuid.UUID, offerID uuid.UUID) error {
	s.deletedOffer = offerID
	return nil
}

func (s *stubOfferService) Publish(_ context.Context, _ uuid.UUID, offerID uuid.UUID) (*offers.OfferDTO, error) {
	s.publishedByID = offerID
	return &offers.OfferDTO{}, nil
}

func (s *stubOfferService) ListMine(context.Context, uuid.UUID) ([]offers.OfferDTO, error) {
	return nil, nil
}

func (s *stubOfferService) ListMarketplace(_ context.Context, input offers.ListOffersInput) (*offers.OfferListResult, error) {
	s.browsed = &input
	return &offers.OfferListResult{}, nil
}

func TestMarketplaceBrowseParsesFilters(t *testing.T) {
	svc := &stubOfferService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers?category=food&service_area=austin&exchange_type=gifted&limit=50&cursor=abc", nil)
	req = authedRequest(req, uuid.New(), enums.UserRoleCreator)
	resp := httptest.NewRecorder()
	MarketplaceBrowse(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.browsed)
	require.Equal(t, 50, svc.browsed.Pagination.Limit)
	require.Equal(t, "abc", svc.browsed.Pagination.Cursor)
	require.NotNil(t, svc.browsed.Filters.Category)
	require.Equal(t, "food", *svc.browsed.Filters.Category)
	require.NotNil(t, svc.browsed.Filters.ServiceArea)
	require.Equal(t, "austin", *svc.browsed.Filters.ServiceArea)
	require.NotNil(t, svc.browsed.Filters.ExchangeType)
	require.Equal(t, enums.ExchangeTypeGifted, *svc.browsed.Filters.ExchangeType)
}

func TestMarketplaceBrowseDefaultsPagination(t *testing.T) {
	svc := &stubOfferService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	req = authedRequest(req, uuid.New(), enums.UserRoleProvider)
	resp := httptest.NewRecorder()
	MarketplaceBrowse(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.browsed)
	require.Equal(t, 25, svc.browsed.Pagination.Limit)
	require.Nil(t, svc.browsed.Filters.Category)
	require.Nil(t, svc.browsed.Filters.ExchangeType)
}

func TestMarketplaceBrowseRejectsInvalidExchangeType(t *testing.T) {
	svc := &stubOfferService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers?exchange_type=barter", nil)
	req = authedRequest(req, uuid.New(), enums.UserRoleCreator)
	resp := httptest.NewRecorder()
	MarketplaceBrowse(svc, nil)(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Nil(t, svc.browsed)
}

func TestOfferCreateDecodesBody(t *testing.T) {
	svc := &stubOfferService{}
	body := `{
		"title": "Weekend tasting menu feature",
		"description": "Two reels covering the new menu.",
		"category": "food",
		"service_area": "austin",
		"exchange_type": "gifted",
		"deliverables": [{"type": "reel", "count": 2}]
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(body))
	req = authedRequest(req, uuid.New(), enums.UserRoleProvider)
	resp := httptest.NewRecorder()
	OfferCreate(svc, nil)(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	require.NotNil(t, svc.created)
	require.Equal(t, "Weekend tasting menu feature", svc.created.Title)
	require.Equal(t, enums.ExchangeTypeGifted, svc.created.ExchangeType)
}

func TestOfferCreateRejectsUnknownFields(t *testing.T) {
	svc := &stubOfferService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(`{"title":"x","bogus":true}`))
	req = authedRequest(req, uuid.New(), enums.UserRoleProvider)
	resp := httptest.NewRecorder()
	OfferCreate(svc, nil)(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Nil(t, svc.created)
}

func TestOfferDeleteReportsStatus(t *testing.T) {
	svc := &stubOfferService{}
	offerID := uuid.New()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/offers/id", nil)
	req = authedRequest(req, uuid.New(), enums.UserRoleProvider)
	req = withRouteParam(req, "offerId", offerID.String())
	resp := httptest.NewRecorder()
	OfferDelete(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, offerID, svc.deletedOffer)
	require.Contains(t, resp.Body.String(), `"status":"deleted"`)
}
