package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/magoslab/calmirror/internal/calendar"
)

var (
	authCredentials string
	authTokenFile   string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize access to the Google Calendar source",
	Long: `Runs the installed-application OAuth flow: prints an authorization URL,
reads the resulting code from stdin, and stores the refresh token for the
server to use.`,
	Args: cobra.NoArgs,
	// Runs entirely locally, no server client needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := calendar.OAuthConfig(authCredentials)
		if err != nil {
			return err
		}

		url := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
		fmt.Printf("Open the following URL in your browser and authorize access:\n\n  %s\n\n", url)
		fmt.Print("Enter the authorization code: ")

		reader := bufio.NewReader(os.Stdin)
		code, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading authorization code: %w", err)
		}
		code = strings.TrimSpace(code)
		if code == "" {
			return fmt.Errorf("no authorization code provided")
		}

		tok, err := cfg.Exchange(cmd.Context(), code)
		if err != nil {
			return fmt.Errorf("exchanging authorization code: %w", err)
		}
		if err := calendar.SaveToken(authTokenFile, tok); err != nil {
			return err
		}

		fmt.Printf("token saved to %s\n", authTokenFile)
		return nil
	},
}

func init() {
	authCmd.Flags().StringVar(&authCredentials, "credentials", "creds/credentials.json", "OAuth client secrets file")
	authCmd.Flags().StringVar(&authTokenFile, "token-file", "creds/token.json", "where to store the OAuth token")
}
