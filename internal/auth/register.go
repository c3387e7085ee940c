package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/flo-kian-baban/connex-backend/internal/creators"
	"github.com/flo-kian-baban/connex-backend/internal/providers"
	"github.com/flo-kian-baban/connex-backend/internal/users"
	"github.com/flo-kian-baban/connex-backend/pkg/config"
	"github.com/flo-kian-baban/connex-backend/pkg/db"
	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/security"
	"gorm.io/gorm"
)

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	session     sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.SessionManager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session manager required")
	}
	return &registerService{
		db:          params.DB,
		session:     params.SessionManager,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates the user plus the role-specific profile row in one
// transaction, then issues a token pair.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !req.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
	}
	businessName := strings.TrimSpace(req.BusinessName)
	if req.Role == enums.UserRoleProvider && businessName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name is required for providers")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		created, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			Role:         req.Role,
			DisplayName:  displayName,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if err := createRoleProfile(ctx, tx, created, businessName); err != nil {
			return err
		}

		user = created
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	now := time.Now().UTC()
	return issueTokens(ctx, s.session, s.jwtCfg, user, now)
}

// createRoleProfile inserts the provider or creator row that accompanies a
// fresh account. Shared with the Google sign-in flow.
func createRoleProfile(ctx context.Context, tx *gorm.DB, user *models.User, businessName string) error {
	switch user.Role {
	case enums.UserRoleProvider:
		name := businessName
		if name == "" {
			name = user.DisplayName
		}
		if _, err := providers.NewRepository(tx).Create(ctx, providers.CreateProviderDTO{
			UserID:       user.ID,
			BusinessName: name,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create provider profile")
		}
	case enums.UserRoleCreator:
		if _, err := creators.NewRepository(tx).Create(ctx, creators.CreateCreatorDTO{
			UserID:      user.ID,
			DisplayName: user.DisplayName,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create creator profile")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	return nil
}
