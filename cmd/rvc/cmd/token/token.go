package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rvc-service/cmd/rvc/cmd/cli"
	"rvc-service/internal/api/middleware"
)

var (
	subject string
	ttl     time.Duration
)

func init() {
	Cmd.Flags().StringVarP(&subject, "subject", "s", "", "token subject, usually the client name")
	Cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime, 0 for no expiry")

	Cmd.MarkFlagRequired("subject")
}

// Cmd represents the token command
var Cmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the protected endpoints",
	Long: `Issue a bearer token for the protected endpoints.

- Signs with AUTH_JWT_SECRET (or auth.jwt_secret in the config file)
- Send it as "Authorization: Bearer <token>"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := cli.Load()
		if err != nil {
			return err
		}
		if cfg.Auth.JWTSecret == "" {
			return errors.New("no JWT secret configured, set AUTH_JWT_SECRET")
		}

		signed, err := middleware.IssueToken(cfg.Auth.JWTSecret, subject, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		return nil
	},
}
