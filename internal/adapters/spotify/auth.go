package spotify

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/audiomonk-labs/audiomonk/internal/core/ports"
)

// AccountsTokenURL is the Spotify client-credentials token endpoint.
const AccountsTokenURL = "https://accounts.spotify.com/api/token"

// TokenProvider supplies the current bearer token for catalog requests.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Authenticator is the process-wide credential cache. It wraps an expiry-aware
// client-credentials token source: the first request acquires a token
// (form-encoded grant_type=client_credentials, basic auth from id:secret) and
// later requests reuse it until it expires, refreshing transparently.
//
// One Authenticator is shared by every catalog-querying component.
type Authenticator struct {
	src oauth2.TokenSource
}

var _ TokenProvider = (*Authenticator)(nil)

// NewAuthenticator builds the credential cache for the given client
// credentials. tokenURL overrides the accounts endpoint for tests; pass ""
// for the real one.
func NewAuthenticator(clientID, clientSecret, tokenURL string) *Authenticator {
	if tokenURL == "" {
		tokenURL = AccountsTokenURL
	}
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return &Authenticator{src: cfg.TokenSource(context.Background())}
}

// Token returns the current access token, acquiring or refreshing it as
// needed. Failures leave downstream catalog queries as silent no-ops; the
// error is wrapped so callers can match ports.ErrTokenUnavailable.
func (a *Authenticator) Token(_ context.Context) (string, error) {
	tok, err := a.src.Token()
	if err != nil {
		return "", &ports.TokenError{Err: err}
	}
	return tok.AccessToken, nil
}
