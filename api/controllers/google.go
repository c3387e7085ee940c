package controllers

import (
	"net/http"
	"strings"

	"github.com/flo-kian-baban/connex-backend/api/responses"
	"github.com/flo-kian-baban/connex-backend/api/validators"
	"github.com/flo-kian-baban/connex-backend/internal/auth"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/logger"
)

// AuthGoogleURL returns the consent URL clients redirect to for Google
// sign-in. The caller supplies the opaque state it wants echoed back.
func AuthGoogleURL(svc auth.GoogleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "google auth unavailable"))
			return
		}

		state := strings.TrimSpace(r.URL.Query().Get("state"))
		if state == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "state is required"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"url": svc.SignInURL(state)})
	}
}

// AuthGoogleCallback exchanges the authorization code and signs the user in,
// creating the account on first sign-in.
func AuthGoogleCallback(svc auth.GoogleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "google auth unavailable"))
			return
		}

		var body auth.GoogleSignInRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.HandleCallback(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-CX-Token", result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}
