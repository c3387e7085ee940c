package googleoauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	mybusiness "google.golang.org/api/mybusinessaccountmanagement/v1"
	"google.golang.org/api/option"

	"github.com/flo-kian-baban/connex-backend/pkg/config"
)

const userInfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// businessProfileScope grants read access to the caller's Business Profile accounts.
const businessProfileScope = "https://www.googleapis.com/auth/business.manage"

// UserInfo is the subset of the Google userinfo payload the platform needs.
type UserInfo struct {
	Sub   string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// BusinessAccount identifies a linked Google Business Profile account.
type BusinessAccount struct {
	// Name is the resource name, e.g. "accounts/1234567890".
	Name        string
	AccountName string
}

// Client wraps the OAuth config used for sign-in and Business Profile linking.
type Client struct {
	signIn  *oauth2.Config
	connect *oauth2.Config
}

// New builds a Google OAuth client from configuration.
func New(cfg config.GoogleConfig) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("google client id and secret are required")
	}
	if cfg.RedirectURL == "" {
		return nil, fmt.Errorf("google redirect url is required")
	}
	return &Client{
		signIn: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		connect: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{businessProfileScope},
			Endpoint:     google.Endpoint,
		},
	}, nil
}

// promptConsent forces the consent screen so Google re-issues a refresh token.
var promptConsent = oauth2.SetAuthURLParam("prompt", "consent")

// SignInURL returns the consent URL for the sign-in flow.
func (c *Client) SignInURL(state string) string {
	return c.signIn.AuthCodeURL(state, oauth2.AccessTypeOffline, promptConsent)
}

// ConnectURL returns the consent URL for the Business Profile connect flow.
func (c *Client) ConnectURL(state string) string {
	return c.connect.AuthCodeURL(state, oauth2.AccessTypeOffline, promptConsent)
}

// ExchangeSignIn swaps the sign-in authorization code for a token.
func (c *Client) ExchangeSignIn(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.signIn.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging google code: %w", err)
	}
	return token, nil
}

// ExchangeConnect swaps the connect authorization code for a token.
func (c *Client) ExchangeConnect(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.connect.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging google code: %w", err)
	}
	return token, nil
}

// FetchUserInfo loads the authenticated Google identity.
func (c *Client) FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	httpClient := c.signIn.Client(ctx, token)
	resp, err := httpClient.Get(userInfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("fetching google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding google userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("google userinfo missing email")
	}
	return &info, nil
}

// FetchPrimaryBusinessAccount returns the first Business Profile account the
// token can manage.
func (c *Client) FetchPrimaryBusinessAccount(ctx context.Context, token *oauth2.Token) (*BusinessAccount, error) {
	svc, err := mybusiness.NewService(ctx, option.WithTokenSource(c.connect.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("building business profile service: %w", err)
	}

	accounts, err := svc.Accounts.List().PageSize(1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("listing business profile accounts: %w", err)
	}
	if len(accounts.Accounts) == 0 {
		return nil, fmt.Errorf("no business profile accounts available")
	}

	account := accounts.Accounts[0]
	return &BusinessAccount{
		Name:        account.Name,
		AccountName: account.AccountName,
	}, nil
}
