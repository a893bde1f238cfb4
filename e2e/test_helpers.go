//go:build e2e

package e2e

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/dylanstetts/getTeamsRecordings/internal/app"
	"github.com/dylanstetts/getTeamsRecordings/internal/config"
	"github.com/dylanstetts/getTeamsRecordings/internal/logger"
	"github.com/dylanstetts/getTeamsRecordings/pkg/graph"
)

// E2ETestHelper provides utilities for E2E testing
type E2ETestHelper struct {
	App    *app.App
	Config *Config
	TestID string
}

// NewE2ETestHelper authenticates against the tenant named by the AZURE_*
// variables (or ../.env) and builds an App around it.
func NewE2ETestHelper(t *testing.T) *E2ETestHelper {
	t.Helper()

	if err := config.LoadDotEnv("../.env"); err != nil {
		t.Fatalf("Failed to load .env: %v", err)
	}
	if os.Getenv("AZURE_CLIENT_SECRET") == "" {
		t.Skip(`
E2E Testing Setup Required:

1. Register an app with the application permissions User.Read.All,
   Chat.Read.All, Team.ReadBasic.All, Channel.ReadBasic.All and
   ChannelMessage.Read.All, and grant admin consent.

2. Export AZURE_TENANT_ID, AZURE_CLIENT_ID and AZURE_CLIENT_SECRET,
   or put them in a .env file in the project root (ignored by git).

3. Then run E2E tests:
   go test -tags=e2e -v ./e2e/...
`)
	}

	e2eCfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load E2E configuration: %v", err)
	}

	environment, err := config.ReadEnvironment()
	if err != nil {
		t.Fatalf("Failed to read environment: %v", err)
	}
	cfg := config.New()
	cfg.ApplyEnvironment(environment)
	cfg.Workers = config.ClampWorkers(e2eCfg.Workers)

	testID := uuid.NewString()
	log := logger.NewDefaultLogger(cfg.Debug).With("run_id", testID)

	client, err := graph.NewAuthenticatedClient(context.Background(), cfg.Credentials(), cfg.HTTP.Timeout)
	if err != nil {
		t.Fatalf("Failed to create authenticated client: %v", err)
	}

	return &E2ETestHelper{
		App: &app.App{
			Config: cfg,
			Logger: log,
			RunID:  testID,
			SDK:    app.NewGraphClient(client, cfg, log, os.Stderr),
		},
		Config: e2eCfg,
		TestID: testID,
	}
}

// Context returns a context bounded by the E2E timeout.
func (h *E2ETestHelper) Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), h.Config.Timeout)
	t.Cleanup(cancel)
	return ctx
}

// LogTestInfo logs information about the current test
func (h *E2ETestHelper) LogTestInfo(t *testing.T) {
	t.Helper()
	t.Logf("E2E Test ID: %s", h.TestID)
	t.Logf("Graph root: %s", h.App.SDK.BaseURL())
	t.Logf("Lookback: %d days, workers: %d", h.Config.Days, h.App.Config.Workers)
}
