package transport

import (
	"context"
	"encoding/base64"
	"net/http"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request) error
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) error {
	return nil
}

// BasicAuth implements HTTP basic authentication, as used by the Jira Cloud
// REST API with an account email and API token.
type BasicAuth struct {
	Username string
	Password string
}

// Apply implements the Authenticator interface for BasicAuth.
func (a *BasicAuth) Apply(req *http.Request) error {
	creds := base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + a.Password))
	req.Header.Set("Authorization", "Basic "+creds)
	return nil
}

// BearerAuth implements Bearer token authentication, as used by the Falcon
// API with an OAuth2 access token.
type BearerAuth struct {
	// TokenFunc returns the current access token, refreshing it when
	// needed. Called per request with the request's context so a canceled
	// run also cancels an in-flight token fetch.
	TokenFunc func(ctx context.Context) (string, error)
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request) error {
	token, err := a.TokenFunc(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// StaticBearerAuth returns a BearerAuth for a fixed token.
func StaticBearerAuth(token string) *BearerAuth {
	return &BearerAuth{TokenFunc: func(context.Context) (string, error) { return token, nil }}
}
