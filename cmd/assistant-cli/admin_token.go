package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwtPkg "LundyVoice/pkg/jwt"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var adminTokenCmd = &cobra.Command{
	Use:   "admin-token",
	Short: "Sign an admin bearer token for the bookings listing",
	Long:  "admin-token signs with JWT_ACCESS_TOKEN_SECRET, read from the environment or .env.",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, expiresAt, err := jwtPkg.SignAdmin(tokenSubject, tokenTTL)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		mutedColor.Fprintf(cmd.ErrOrStderr(), "expires %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
		return nil
	},
}

func init() {
	adminTokenCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "token subject")
	adminTokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}
