package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/internal/users"
	"github.com/flo-kian-baban/connex-backend/pkg/config"
	"github.com/flo-kian-baban/connex-backend/pkg/db"
	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/googleoauth"
)

// GoogleService handles sign-in through Google accounts.
type GoogleService interface {
	SignInURL(state string) string
	HandleCallback(ctx context.Context, req GoogleSignInRequest) (*AuthResponse, error)
}

type googleExchanger interface {
	SignInURL(state string) string
	ExchangeSignIn(ctx context.Context, code string) (*oauth2.Token, error)
	FetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleoauth.UserInfo, error)
}

// GoogleServiceParams packages the dependencies for the Google sign-in flow.
type GoogleServiceParams struct {
	DB             *db.Client
	Google         googleExchanger
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

type googleService struct {
	db      *db.Client
	google  googleExchanger
	session sessionManager
	jwtCfg  config.JWTConfig
}

// NewGoogleService builds the Google sign-in service.
func NewGoogleService(params GoogleServiceParams) (GoogleService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Google == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "google client required")
	}
	if params.SessionManager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session manager required")
	}
	return &googleService{
		db:      params.DB,
		google:  params.Google,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
	}, nil
}

// SignInURL returns the Google consent URL for the provided state.
func (s *googleService) SignInURL(state string) string {
	return s.google.SignInURL(state)
}

// HandleCallback exchanges the code, resolves or creates the local account,
// and issues a token pair. Existing email accounts get the Google subject
// linked; brand-new identities need a role to create the profile row.
func (s *googleService) HandleCallback(ctx context.Context, req GoogleSignInRequest) (*AuthResponse, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authorization code is required")
	}

	token, err := s.google.ExchangeSignIn(ctx, req.Code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "exchange google code")
	}
	info, err := s.google.FetchUserInfo(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch google identity")
	}

	var user *models.User
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := users.NewRepository(tx)

		existing, err := repo.FindByGoogleSub(ctx, info.Sub)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup google account")
		}

		email := strings.ToLower(info.Email)
		byEmail, err := repo.FindByEmail(ctx, email)
		if err == nil {
			if err := repo.LinkGoogleSub(ctx, byEmail.ID, info.Sub); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "link google account")
			}
			byEmail.GoogleSub = &info.Sub
			user = byEmail
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user email")
		}

		if req.Role == nil || !req.Role.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "role is required for new google accounts")
		}

		displayName := strings.TrimSpace(info.Name)
		if displayName == "" {
			displayName = email
		}

		created, err := repo.Create(ctx, users.CreateUserDTO{
			Email:       email,
			Role:        *req.Role,
			DisplayName: displayName,
			GoogleSub:   &info.Sub,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if err := createRoleProfile(ctx, tx, created, ""); err != nil {
			return err
		}

		user = created
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now, err := recordLoginTx(ctx, s.db, user)
	if err != nil {
		return nil, err
	}

	return issueTokens(ctx, s.session, s.jwtCfg, user, now)
}

func recordLoginTx(ctx context.Context, client *db.Client, user *models.User) (time.Time, error) {
	now := time.Now().UTC()
	repo := users.NewRepository(client.DB())
	if err := repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now
	return now, nil
}
