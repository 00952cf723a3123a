// Package orcid implements OAuth 2.0 authentication with ORCID.
// With the /authenticate scope the token response already carries the
// researcher's iD and name, so no follow-up API call is needed.
package orcid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAuthorizeURL = "https://orcid.org/oauth/authorize"
	defaultTokenURL     = "https://orcid.org/oauth/token"
	defaultScope        = "/authenticate"
)

// Config carries the registered client settings. AuthorizeURL and
// TokenURL default to the production ORCID registry; point them at
// sandbox.orcid.org for the member sandbox.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthorizeURL string
	TokenURL     string
	Scope        string
	Timeout      time.Duration
}

// Client is the ORCID OAuth 2.0 client.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates an ORCID OAuth client.
func New(cfg Config) *Client {
	if cfg.AuthorizeURL == "" {
		cfg.AuthorizeURL = defaultAuthorizeURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.Scope == "" {
		cfg.Scope = defaultScope
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// AuthURL builds the authorization URL researchers are sent to.
// An empty state is omitted from the query.
func (c *Client) AuthURL(state string) string {
	u, _ := url.Parse(c.cfg.AuthorizeURL)
	q := u.Query()
	q.Set("client_id", c.cfg.ClientID)
	q.Set("response_type", "code")
	q.Set("scope", c.cfg.Scope)
	q.Set("redirect_uri", c.cfg.RedirectURL)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// TokenResponse is the response from ORCID's token endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
	Name         string `json:"name"`
	ORCID        string `json:"orcid"`
	Error        string `json:"error,omitempty"`
	ErrorDesc    string `json:"error_description,omitempty"`
}

// ExchangeCode exchanges an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	if tr.Error != "" {
		return nil, fmt.Errorf("orcid oauth error: %s - %s", tr.Error, tr.ErrorDesc)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("orcid token endpoint: status %d", resp.StatusCode)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("no access_token in response")
	}
	if tr.ORCID == "" {
		return nil, fmt.Errorf("no orcid iD in response")
	}

	return &tr, nil
}
