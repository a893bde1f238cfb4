package graph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentials identifies an app registration that authenticates with
// the OAuth2 client-credentials grant.
type ClientCredentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	// Authority is the identity provider root. Empty means DefaultAuthority.
	Authority string
}

// Validate reports which credential values are missing.
func (cc ClientCredentials) Validate() error {
	var missing []string
	if cc.TenantID == "" {
		missing = append(missing, "tenant id")
	}
	if cc.ClientID == "" {
		missing = append(missing, "client id")
	}
	if cc.ClientSecret == "" {
		missing = append(missing, "client secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// TokenURL returns the v2.0 token endpoint of the tenant.
func (cc ClientCredentials) TokenURL() string {
	authority := cc.Authority
	if authority == "" {
		authority = DefaultAuthority
	}
	return strings.TrimSuffix(authority, "/") + "/" + cc.TenantID + "/oauth2/v2.0/token"
}

// Config returns the clientcredentials configuration for the Graph scope.
func (cc ClientCredentials) Config() *clientcredentials.Config {
	return &clientcredentials.Config{
		ClientID:     cc.ClientID,
		ClientSecret: cc.ClientSecret,
		TokenURL:     cc.TokenURL(),
		Scopes:       []string{DefaultScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
}

// AuthOption configures NewAuthenticatedClient.
type AuthOption func(*authOptions)

type authOptions struct {
	onRefresh func(*oauth2.Token)
}

// WithTokenRefreshHook registers fn to be called whenever a new access token
// replaces the current one.
func WithTokenRefreshHook(fn func(*oauth2.Token)) AuthOption {
	return func(o *authOptions) {
		o.onRefresh = fn
	}
}

// NewAuthenticatedClient acquires an app-only access token and returns an HTTP
// client that sends it as a bearer token. The token is acquired eagerly so a
// credential problem fails before any Graph request is made. It is kept in
// memory only and is re-acquired by the client when it expires.
func NewAuthenticatedClient(ctx context.Context, cc ClientCredentials, timeout time.Duration, opts ...AuthOption) (*http.Client, error) {
	var o authOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := cc.Validate(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := &http.Client{Timeout: timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	source := newRefreshNotifyingSource(cc.Config().TokenSource(ctx), o.onRefresh)
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAuthFailure, describeTokenError(err))
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response has no access token", ErrAuthFailure)
	}

	client := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, source))
	client.Timeout = timeout
	return client, nil
}

func describeTokenError(err error) string {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.ErrorDescription != "" {
		return retrieveErr.ErrorDescription
	}
	return err.Error()
}
