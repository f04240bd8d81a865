package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// ClientConfig configures the REST identity client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client implements Provider against the hosted identity toolkit REST API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient builds a REST identity client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("identity api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    cfg.HTTPClient,
		logger:  cfg.Logger.With().Str("component", "identity_client").Logger(),
	}, nil
}

type accountPayload struct {
	LocalID       string `json:"localId"`
	Email         string `json:"email"`
	IDToken       string `json:"idToken"`
	EmailVerified bool   `json:"emailVerified"`
	DisplayName   string `json:"displayName"`
	PhotoURL      string `json:"photoUrl"`
}

func (p accountPayload) account() Account {
	return Account{
		UID:           p.LocalID,
		Email:         p.Email,
		EmailVerified: p.EmailVerified,
		IDToken:       p.IDToken,
		DisplayName:   p.DisplayName,
		PhotoURL:      p.PhotoURL,
	}
}

// SignUp registers a new email/password account.
func (c *Client) SignUp(ctx context.Context, email, password string) (Account, error) {
	var payload accountPayload
	err := c.post(ctx, "accounts:signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &payload)
	if err != nil {
		return Account{}, err
	}
	return payload.account(), nil
}

// SignIn authenticates an email/password account. The verification flag is
// resolved with a follow-up lookup because the sign-in response omits it.
func (c *Client) SignIn(ctx context.Context, email, password string) (Account, error) {
	var payload accountPayload
	err := c.post(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &payload)
	if err != nil {
		return Account{}, err
	}

	account := payload.account()
	verified, err := c.lookupVerified(ctx, account.IDToken)
	if err != nil {
		c.logger.Warn().Err(err).Msg("account lookup failed, treating email as unverified")
		return account, nil
	}
	account.EmailVerified = verified
	return account, nil
}

// SignInWithIDP completes a federated (OAuth) sign-in with the token the
// client obtained from the provider popup.
func (c *Client) SignInWithIDP(ctx context.Context, idToken string) (Account, error) {
	var payload struct {
		accountPayload
		FullName string `json:"fullName"`
	}
	err := c.post(ctx, "accounts:signInWithIdp", map[string]interface{}{
		"postBody":            "id_token=" + idToken + "&providerId=google.com",
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &payload)
	if err != nil {
		return Account{}, err
	}

	account := payload.account()
	if account.DisplayName == "" {
		account.DisplayName = payload.FullName
	}
	// Federated identities arrive verified by the upstream provider.
	account.EmailVerified = true
	return account, nil
}

// SendEmailVerification asks the provider to mail a verification link.
func (c *Client) SendEmailVerification(ctx context.Context, idToken string) error {
	return c.post(ctx, "accounts:sendOobCode", map[string]interface{}{
		"requestType": "VERIFY_EMAIL",
		"idToken":     idToken,
	}, nil)
}

// SendPasswordReset asks the provider to mail a password-reset link.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, "accounts:sendOobCode", map[string]interface{}{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

func (c *Client) lookupVerified(ctx context.Context, idToken string) (bool, error) {
	var payload struct {
		Users []struct {
			EmailVerified bool `json:"emailVerified"`
		} `json:"users"`
	}
	if err := c.post(ctx, "accounts:lookup", map[string]interface{}{"idToken": idToken}, &payload); err != nil {
		return false, err
	}
	if len(payload.Users) == 0 {
		return false, fmt.Errorf("account not found")
	}
	return payload.Users[0].EmailVerified, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body map[string]interface{}, out interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode identity request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read identity response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(data, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode identity response: %w", err)
	}
	return nil
}

func decodeError(data []byte, status int) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Error.Message == "" {
		return &Error{Code: fmt.Sprintf("HTTP_%d", status)}
	}

	// Codes may carry a trailing explanation, e.g. "EMAIL_EXISTS : ...".
	code := payload.Error.Message
	if idx := strings.IndexAny(code, " :"); idx > 0 {
		code = code[:idx]
	}
	return &Error{Code: code}
}
