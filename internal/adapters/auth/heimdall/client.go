package heimdall

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"animal-rescue-ops/internal/platform/httpclient"
	"animal-rescue-ops/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("heimdall client not configured")
	ErrUnauthorized  = errors.New("heimdall unauthorized")
	ErrUpstream      = errors.New("heimdall upstream error")
)

// Config del cliente Heimdall (servicio de identidad de la plataforma).
// BaseURL y APIKey normalmente vienen de env vars.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header donde se manda la API key. Default "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	apiKey       string
	apiKeyHeader string
	http         *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		http:         hc,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// VerifyToken valida un token contra Heimdall y trae los claims del caller,
// incluyendo org y set de roles (los handlers deciden con HasAnyRole).
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	const verifyPath = "/v1/tokens/verify"

	var out struct {
		UserID string   `json:"user_id"`
		Email  string   `json:"email"`
		OrgID  string   `json:"org_id"`
		Roles  []string `json:"roles"`
	}

	headers := map[string]string{
		c.apiKeyHeader:  c.apiKey,
		"Authorization": "Bearer " + token,
	}

	err := c.http.DoJSON(ctx, http.MethodPost, verifyPath, headers,
		map[string]string{"token": token}, &out)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) {
			if he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden {
				return auth.Claims{}, ErrUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrUpstream, he.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("heimdall response missing user_id")
	}

	return auth.Claims{
		UserID: out.UserID,
		Email:  strings.TrimSpace(out.Email),
		OrgID:  strings.TrimSpace(out.OrgID),
		Roles:  out.Roles,
	}, nil
}
