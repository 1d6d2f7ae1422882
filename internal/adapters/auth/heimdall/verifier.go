package heimdall

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"animal-rescue-ops/internal/ports/auth"
)

var (
	ErrTokenEmpty = errors.New("token is empty")
)

// Verifier implementa auth.AuthVerifier usando Heimdall.
// Se instancia desde main/router cuando AUTH_BASE_URL está configurado.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("heimdall verify failed: %w", err)
	}

	claims.UserID = strings.TrimSpace(claims.UserID)
	if claims.UserID == "" {
		return auth.Claims{}, errors.New("heimdall claims missing user id")
	}
	if strings.TrimSpace(claims.OrgID) == "" {
		// Sin org no hay tenant: todo el motor opera org-scoped.
		return auth.Claims{}, errors.New("heimdall claims missing org id")
	}

	return claims, nil
}
