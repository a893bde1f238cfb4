// Package cmd (auth.go) defines 'auth check', which verifies the app
// registration's credentials against the identity platform.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dylanstetts/getTeamsRecordings/internal/app"
	"github.com/dylanstetts/getTeamsRecordings/internal/config"
	"github.com/dylanstetts/getTeamsRecordings/pkg/graph"
)

// authCmd represents the base 'auth' command.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect authentication with Microsoft Graph",
}

// authCheckCmd handles 'auth check'.
var authCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Acquire an app-only token to verify the configured credentials",
	Long: `Requests an access token with the client-credentials grant using the
configured tenant, client id and client secret, and reports whether it succeeded.
No Graph data is read.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(cmd)
		if err != nil {
			return err
		}
		return authCheckLogic(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

func authCheckLogic(ctx context.Context, cfg *config.Configuration, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cc := cfg.Credentials()
	if _, err := graph.NewAuthenticatedClient(ctx, cc, cfg.HTTP.Timeout); err != nil {
		return fmt.Errorf("checking authentication: %w", err)
	}
	fmt.Fprintf(out, "Authenticated as app %s in tenant %s.\n", cc.ClientID, cc.TenantID)
	fmt.Fprintf(out, "Token endpoint: %s\n", cc.TokenURL())
	return nil
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authCheckCmd)
}
