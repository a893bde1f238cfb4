package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredentials(authority string) ClientCredentials {
	return ClientCredentials{
		TenantID:     "contoso-tenant",
		ClientID:     "app-id",
		ClientSecret: "app-secret",
		Authority:    authority,
	}
}

func TestClientCredentialsValidate(t *testing.T) {
	err := ClientCredentials{ClientID: "app-id"}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Contains(t, err.Error(), "tenant id")
	assert.Contains(t, err.Error(), "client secret")
	assert.NotContains(t, err.Error(), "client id")

	assert.NoError(t, testCredentials("").Validate())
}

func TestClientCredentialsTokenURL(t *testing.T) {
	assert.Equal(t,
		"https://login.microsoftonline.com/contoso-tenant/oauth2/v2.0/token",
		testCredentials("").TokenURL())
	assert.Equal(t,
		"http://127.0.0.1:9999/contoso-tenant/oauth2/v2.0/token",
		testCredentials("http://127.0.0.1:9999/").TokenURL())

	cfg := testCredentials("").Config()
	assert.Equal(t, []string{DefaultScope}, cfg.Scopes)
	assert.Equal(t, "app-id", cfg.ClientID)
}

func TestNewAuthenticatedClientSendsBearerToken(t *testing.T) {
	tokenRequests := 0
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		assert.Equal(t, "/contoso-tenant/oauth2/v2.0/token", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, DefaultScope, r.PostForm.Get("scope"))
		assert.Equal(t, "app-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "app-secret", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "app-token", "token_type": "Bearer", "expires_in": 3599}`)
	}))
	defer idp.Close()

	var gotAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"value": []}`)
	}))
	defer api.Close()

	httpClient, err := NewAuthenticatedClient(context.Background(), testCredentials(idp.URL), 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, tokenRequests, "the token is acquired before any Graph call")

	client := NewClient(httpClient, WithBaseURL(api.URL))
	_, err = client.ListTeams(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer app-token", gotAuth)
	assert.Equal(t, 1, tokenRequests, "a valid token is reused")
}

func TestNewAuthenticatedClientReportsAuthFailure(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": "invalid_client", "error_description": "AADSTS7000215: Invalid client secret provided."}`)
	}))
	defer idp.Close()

	_, err := NewAuthenticatedClient(context.Background(), testCredentials(idp.URL), 5*time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthFailure)
	assert.Contains(t, err.Error(), "AADSTS7000215")
}

func TestNewAuthenticatedClientRejectsMissingAccessToken(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"token_type": "Bearer", "expires_in": 3599}`)
	}))
	defer idp.Close()

	_, err := NewAuthenticatedClient(context.Background(), testCredentials(idp.URL), 5*time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthFailure)
}

func TestNewAuthenticatedClientMissingCredentials(t *testing.T) {
	_, err := NewAuthenticatedClient(context.Background(), ClientCredentials{}, time.Second)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
