// Package cmd (root.go) defines the root command for the teams-recordings CLI
// and its global flags.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dylanstetts/getTeamsRecordings/internal/ui"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "teams-recordings",
	Short: "Find Microsoft Teams call recordings across a tenant",
	Long: `teams-recordings walks every user's chats and every team's channels through
Microsoft Graph and reports the call recordings announced in a recent window,
together with the name, email, job title and department of whoever started them.

It authenticates as an app registration with the client-credentials grant.
Credentials come from the configuration file, a .env file in the working
directory, or the AZURE_TENANT_ID, AZURE_CLIENT_ID and AZURE_CLIENT_SECRET
environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
