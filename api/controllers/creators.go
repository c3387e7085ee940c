package controllers

import (
	"net/http"

	"github.com/flo-kian-baban/connex-backend/api/responses"
	"github.com/flo-kian-baban/connex-backend/api/validators"
	"github.com/flo-kian-baban/connex-backend/internal/creators"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/logger"
)

// CreatorProfile returns the caller's creator profile, including which
// fields still block activation.
func CreatorProfile(svc creators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "creator service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetByUserID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// CreatorUpdate applies a partial update; the service recomputes the
// draft/active status from the resulting field set.
func CreatorUpdate(svc creators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "creator service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body creators.UpdateCreatorRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateByUserID(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
