package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/dylanstetts/getTeamsRecordings/internal/config"
	"github.com/dylanstetts/getTeamsRecordings/internal/logger"
	"github.com/dylanstetts/getTeamsRecordings/pkg/graph"
)

// DotEnvFile is read from the working directory before the environment.
const DotEnvFile = ".env"

// App carries everything a command needs to talk to Graph.
type App struct {
	Config *config.Configuration
	Logger logger.Logger
	RunID  string
	SDK    SDK
}

// NewApp loads configuration, applies command flags, authenticates and
// builds the Graph client.
func NewApp(cmd *cobra.Command) (*App, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := logger.NewDefaultLogger(cfg.Debug).With("run_id", runID)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := graph.NewAuthenticatedClient(ctx, cfg.Credentials(), cfg.HTTP.Timeout,
		graph.WithTokenRefreshHook(func(token *oauth2.Token) {
			log.Debug("access token refreshed", "expiry", token.Expiry)
		}))
	if err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}
	log.Debug("authenticated", "tenant", cfg.TenantID, "client", cfg.ClientID)

	return &App{
		Config: cfg,
		Logger: log,
		RunID:  runID,
		SDK:    NewGraphClient(client, cfg, log, noticeWriter(cmd)),
	}, nil
}

// LoadConfig reads the configuration file, the dotenv file and the
// environment, then applies the --debug flag on top.
func LoadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	if err := config.LoadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	environment, err := config.ReadEnvironment()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvironment(environment)

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// NewGraphClient wraps an authenticated HTTP client with the configured
// retry policy and request pacing.
func NewGraphClient(httpClient *http.Client, cfg *config.Configuration, log logger.Logger, notice io.Writer) *graph.Client {
	return graph.NewClient(httpClient,
		graph.WithBaseURL(cfg.BaseURL),
		graph.WithRetryPolicy(cfg.HTTP.RetryPolicy()),
		graph.WithRateLimiter(graph.NewRateLimiter(cfg.HTTP.RequestsPerSecond, cfg.HTTP.Burst)),
		graph.WithLogger(log),
		graph.WithNoticeWriter(notice),
	)
}

// noticeWriter keeps throttling notices out of machine-readable output.
func noticeWriter(cmd *cobra.Command) io.Writer {
	if output, _ := cmd.Flags().GetString("output"); output == "json" {
		return os.Stderr
	}
	return os.Stdout
}
