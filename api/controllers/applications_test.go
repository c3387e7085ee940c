package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/flo-kian-baban/connex-backend/internal/applications"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

type stubApplicationService struct {
	applied        *applications.ApplyInput
	requested      *applications.DirectRequestInput
	decided        enums.ApplicationStatus
	decidedID      uuid.UUID
	listedCreator  bool
	listedProvider bool
}

func (s *stubApplicationService) ApplyToOffer(_ context.Context, _ uuid.UUID, input applications.ApplyInput) (*applications.ApplicationDTO, error) {
	s.applied = &input
	return &applications.ApplicationDTO{}, nil
}

func (s *stubApplicationService) CreateDirectRequest(_ context.Context, _ uuid.UUID, input applications.DirectRequestInput) (*applications.ApplicationDTO, error) {
	s.requested = &input
	return &applications.ApplicationDTO{}, nil
}

func (s *stubApplicationService) Decide(_ context.Context, _ uuid.UUID, applicationID uuid.UUID, status enums.ApplicationStatus) (*applications.ApplicationDTO, error) {
	s.decided = status
	s.decidedID = applicationID
	return &applications.ApplicationDTO{}, nil
}

func (s *stubApplicationService) GetForUser(context.Context, uuid.UUID, uuid.UUID) (*applications.ApplicationDTO, error) {
	return &applications.ApplicationDTO{}, nil
}

func (s *stubApplicationService) ListForCreator(context.Context, uuid.UUID) ([]applications.ApplicationListItem, error) {
	s.listedCreator = true
	return nil, nil
}

func (s *stubApplicationService) ListForProvider(context.Context, uuid.UUID) ([]applications.ApplicationListItem, error) {
	s.listedProvider = true
	return nil, nil
}

func TestApplicationApplyDecodesBody(t *testing.T) {
	svc := &stubApplicationService{}
	offerID := uuid.New()

	body := `{"offer_id":"` + offerID.String() + `","message":"Love this menu"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", strings.NewReader(body))
	req = authedRequest(req, uuid.New(), enums.UserRoleCreator)
	resp := httptest.NewRecorder()
	ApplicationApply(svc, nil)(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	require.NotNil(t, svc.applied)
	require.Equal(t, offerID, svc.applied.OfferID)
	require.Equal(t, "Love this menu", svc.applied.Message)
}

func TestApplicationDecisionRejectsPending(t *testing.T) {
	svc := &stubApplicationService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/id/decision", strings.NewReader(`{"status":"pending"}`))
	req = authedRequest(req, uuid.New(), enums.UserRoleProvider)
	req = withRouteParam(req, "applicationId", uuid.NewString())
	resp := httptest.NewRecorder()
	ApplicationDecision(svc, nil)(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Empty(t, svc.decided)
}

func TestApplicationDecisionAccepts(t *testing.T) {
	svc := &stubApplicationService{}
	applicationID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/id/decision", strings.NewReader(`{"status":"accepted"}`))
	req = authedRequest(req, uuid.New(), enums.UserRoleProvider)
	req = withRouteParam(req, "applicationId", applicationID.String())
	resp := httptest.NewRecorder()
	ApplicationDecision(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, enums.ApplicationStatusAccepted, svc.decided)
	require.Equal(t, applicationID, svc.decidedID)
}

func TestApplicationListRoutesByRole(t *testing.T) {
	t.Run("creator", func(t *testing.T) {
		svc := &stubApplicationService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil)
		req = authedRequest(req, uuid.New(), enums.UserRoleCreator)
		resp := httptest.NewRecorder()
		ApplicationList(svc, nil)(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		require.True(t, svc.listedCreator)
		require.False(t, svc.listedProvider)
	})

	t.Run("provider", func(t *testing.T) {
		svc := &stubApplicationService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil)
		req = authedRequest(req, uuid.New(), enums.UserRoleProvider)
		resp := httptest.NewRecorder()
		ApplicationList(svc, nil)(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		require.True(t, svc.listedProvider)
		require.False(t, svc.listedCreator)
	})

	t.Run("missing role", func(t *testing.T) {
		svc := &stubApplicationService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil)
		ctx := req.Context()
		req = req.WithContext(ctx)
		req = authedRequest(req, uuid.New(), enums.UserRole(""))
		resp := httptest.NewRecorder()
		ApplicationList(svc, nil)(resp, req)

		require.Equal(t, http.StatusForbidden, resp.Code)
	})
}

func TestDirectRequestCreateDecodesBody(t *testing.T) {
	svc := &stubApplicationService{}
	creatorID := uuid.New()

	body := `{"creator_user_id":"` + creatorID.String() + `","message":"Want to collaborate?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body))
	req = authedRequest(req, uuid.New(), enums.UserRoleProvider)
	resp := httptest.NewRecorder()
	DirectRequestCreate(svc, nil)(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	require.NotNil(t, svc.requested)
	require.Equal(t, creatorID, svc.requested.CreatorUserID)
}
