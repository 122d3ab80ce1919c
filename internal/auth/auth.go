// Package auth is a thin client for a GoTrue-style identity provider.
// The rest of the application only ever consumes "authenticated or not"
// plus a display name; credential storage and token validation stay with
// the provider.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const requestTimeout = 15 * time.Second

// Session is an authenticated identity.
type Session struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
}

// DisplayName of the authenticated user.
func (s *Session) DisplayName() string {
	return s.Email
}

// Client calls the identity provider over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient instantiates a client for the provider at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		Email string `json:"email"`
	} `json:"user"`
	// Provider failure reasons come back under varying keys.
	ErrorDescription string `json:"error_description"`
	Message          string `json:"msg"`
	ErrorCode        string `json:"error"`
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.tokenRequest(ctx, "/auth/v1/token?grant_type=password", email, password)
}

// SignUp registers a new account. Providers that require email
// confirmation return a session without an access token.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return c.tokenRequest(ctx, "/auth/v1/signup", email, password)
}

// SignOut revokes the given access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	request.Header.Set("apikey", c.apiKey)
	request.Header.Set("Authorization", "Bearer "+accessToken)
	response, err := c.httpClient.Do(request)
	if err != nil {
		return errors.Wrap(err, "calling identity provider")
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return errors.Errorf("identity provider returned status %d", response.StatusCode)
	}
	return nil
}

func (c *Client) tokenRequest(ctx context.Context, path, email, password string) (*Session, error) {
	body, err := json.Marshal(&credentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, errors.Wrap(err, "marshaling credentials")
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	request.Header.Set("apikey", c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "calling identity provider")
	}
	defer response.Body.Close()
	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}

	token := &tokenResponse{}
	if err := json.Unmarshal(responseBody, token); err != nil && response.StatusCode < 300 {
		return nil, errors.Wrap(err, "unmarshaling response body")
	}
	if response.StatusCode >= 300 {
		return nil, errors.Errorf("identity provider rejected request (status %d): %s", response.StatusCode, failureReason(token, responseBody))
	}

	session := &Session{AccessToken: token.AccessToken, Email: token.User.Email}
	if session.Email == "" {
		// Some providers omit the user object on sign-up confirmation flows.
		session.Email = email
	}
	return session, nil
}

func failureReason(token *tokenResponse, body []byte) string {
	switch {
	case token.ErrorDescription != "":
		return token.ErrorDescription
	case token.Message != "":
		return token.Message
	case token.ErrorCode != "":
		return token.ErrorCode
	}
	return string(body)
}

// String implements fmt.Stringer for log output without leaking the token.
func (s *Session) String() string {
	return fmt.Sprintf("session(%s)", s.Email)
}
