// Package msgraph talks to the Microsoft Graph API: it exchanges
// service-account credentials for bearer tokens, pages through calendar
// views, and normalizes the raw payloads into the canonical event model.
package msgraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	loginBaseURL = "https://login.microsoftonline.com"
	graphScope   = "https://graph.microsoft.com/.default"
)

// AuthenticationError reports a token exchange the identity provider
// rejected. It keeps the provider's status code and response body so the
// failure can be diagnosed without replaying the request.
type AuthenticationError struct {
	StatusCode int
	Body       string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("token request failed: %d - %s", e.StatusCode, e.Body)
}

// TokenProvider exchanges client credentials for short-lived Graph bearer
// tokens. Tokens are never cached: every Token call performs a fresh
// exchange with the identity provider.
type TokenProvider struct {
	conf   *clientcredentials.Config
	logger *slog.Logger
}

// NewTokenProvider creates a provider for the given tenant and application.
func NewTokenProvider(logger *slog.Logger, tenantID, clientID, clientSecret string) *TokenProvider {
	return &TokenProvider{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", loginBaseURL, tenantID),
			Scopes:       []string{graphScope},
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		logger: logger,
	}
}

// Token requests a new access token.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.logger.Debug("Requesting Graph access token")

	tok, err := p.conf.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", &AuthenticationError{
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       string(retrieveErr.Body),
			}
		}
		return "", fmt.Errorf("failed to request access token: %w", err)
	}

	return tok.AccessToken, nil
}
