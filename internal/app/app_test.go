package app

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylanstetts/getTeamsRecordings/internal/config"
	"github.com/dylanstetts/getTeamsRecordings/internal/logger"
	"github.com/dylanstetts/getTeamsRecordings/pkg/graph"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "scan"}
	cmd.Flags().Bool("debug", false, "")
	cmd.Flags().String("output", "text", "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func isolateEnvironment(t *testing.T) {
	t.Helper()
	t.Setenv(config.PathEnv, filepath.Join(t.TempDir(), "config.json"))
	for _, key := range []string{
		"AZURE_TENANT_ID", "AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET",
		"GRAPH_AUTHORITY", "GRAPH_BASE_URL",
		"TEAMS_RECORDINGS_WORKERS", "TEAMS_RECORDINGS_DEBUG",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfigAppliesDebugFlag(t *testing.T) {
	isolateEnvironment(t)
	t.Setenv("TEAMS_RECORDINGS_WORKERS", "40")

	cfg, err := LoadConfig(newTestCommand(t, "--debug"))
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, config.MaxWorkers, cfg.Workers)
}

func TestLoadConfigEnvironmentWithoutFlags(t *testing.T) {
	isolateEnvironment(t)
	t.Setenv("TEAMS_RECORDINGS_WORKERS", "2")
	t.Setenv("AZURE_TENANT_ID", "contoso")

	cfg, err := LoadConfig(newTestCommand(t))
	require.NoError(t, err)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "contoso", cfg.TenantID)
}

func TestNewGraphClientUsesConfiguration(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"value": [{"id": "t1"}]}`)
	}))
	defer server.Close()

	cfg := config.New()
	cfg.BaseURL = server.URL + "/v1.0"

	var notice bytes.Buffer
	client := NewGraphClient(server.Client(), cfg, logger.NoopLogger{}, &notice)
	assert.Equal(t, server.URL+"/v1.0/", client.BaseURL())

	teams, err := client.ListTeams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []graph.Team{{ID: "t1"}}, teams)
	assert.Equal(t, 1, calls)
}

func TestNewAppAuthenticatesAgainstAuthority(t *testing.T) {
	isolateEnvironment(t)

	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contoso/oauth2/v2.0/token", r.URL.Path)
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

	t.Setenv("AZURE_TENANT_ID", "contoso")
	t.Setenv("AZURE_CLIENT_ID", "app-id")
	t.Setenv("AZURE_CLIENT_SECRET", "app-secret")
	t.Setenv("GRAPH_AUTHORITY", idp.URL)
	t.Setenv("GRAPH_BASE_URL", api.URL)

	a, err := NewApp(newTestCommand(t, "--output", "json"))
	require.NoError(t, err)
	assert.NotEmpty(t, a.RunID)
	assert.NotNil(t, a.Logger)

	users, err := a.SDK.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, "Bearer app-token", gotAuth)
}

func TestNewAppMissingCredentials(t *testing.T) {
	isolateEnvironment(t)

	_, err := NewApp(newTestCommand(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrMissingCredentials)
}
