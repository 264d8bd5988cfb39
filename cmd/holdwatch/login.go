package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sanketp/holdwatch/internal/app"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Exchange a Kite request token for an access token",
	Long: `Prints the Kite Connect login URL, then exchanges the request token from
the redirect for an access token. The request token may be passed as an
argument or entered at the prompt. Kite access tokens expire daily, so this
runs once per trading day before the first snapshot.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if a.Kite == nil {
				return fmt.Errorf("no Kite API key configured (set clients.kite.api_keys or KITE_API_KEY)")
			}
			secret := a.Config.Clients.Kite.APISecret
			if secret == "" {
				return fmt.Errorf("no Kite API secret configured (set clients.kite.api_secret or KITE_API_SECRET)")
			}

			var requestToken string
			if len(args) == 1 {
				requestToken = strings.TrimSpace(args[0])
			} else {
				fmt.Println("Open this URL in a browser and complete the login:")
				fmt.Println("  " + a.Kite.LoginURL())
				fmt.Print("\nPaste the request_token from the redirect URL: ")

				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read request token: %w", err)
				}
				requestToken = strings.TrimSpace(line)
			}
			if requestToken == "" {
				return fmt.Errorf("request token is empty")
			}

			accessToken, err := a.Kite.GenerateSession(ctx, requestToken, secret)
			if err != nil {
				return err
			}

			fmt.Println("\nAccess token generated. Export it for subsequent commands:")
			fmt.Printf("  export KITE_ACCESS_TOKEN=%s\n", accessToken)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
