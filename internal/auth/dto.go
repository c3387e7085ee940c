package auth

import (
	"github.com/flo-kian-baban/connex-backend/internal/users"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest contains the payload required to onboard a new account.
// BusinessName is required when registering as a provider.
type RegisterRequest struct {
	Email        string         `json:"email" validate:"required,email"`
	Password     string         `json:"password" validate:"required,min=8"`
	DisplayName  string         `json:"display_name" validate:"required"`
	Role         enums.UserRole `json:"role" validate:"required"`
	BusinessName string         `json:"business_name,omitempty"`
}

// GoogleSignInRequest carries the OAuth authorization code plus the role to
// assume when the account does not exist yet.
type GoogleSignInRequest struct {
	Code string          `json:"code" validate:"required"`
	Role *enums.UserRole `json:"role,omitempty"`
}

// AuthResponse contains the token pair and user produced by a successful
// login, registration, or Google sign-in.
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}
